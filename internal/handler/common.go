package handler // handler defines the echo handlers of the reservation service

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
)

// getUserID returns the authenticated user id placed in the context by
// middleware.JWTAuth.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errors.New("invalid user_id in context")
	}
	return id, nil
}

// httpError is a request failure with its HTTP status.
type httpError struct {
	status int
	msg    string
}

func (e *httpError) Error() string { return e.msg }

func badRequest(msg string) error { return &httpError{status: http.StatusBadRequest, msg: msg} }

func conflict(msg string) error { return &httpError{status: http.StatusConflict, msg: msg} }

// respondError writes err when it is an *httpError and reports whether it
// did.
func respondError(c echo.Context, err error) (bool, error) {
	var he *httpError
	if errors.As(err, &he) {
		return true, c.JSON(he.status, echo.Map{"error": he.msg})
	}
	return false, nil
}
