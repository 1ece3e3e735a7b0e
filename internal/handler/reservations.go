package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/queue"
	"github.com/iliyamo/table-reservation/internal/repository"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// ReservationStore is the persistence used by ReservationHandler.
type ReservationStore interface {
	List(ctx context.Context, p repository.ListParams) (model.Page, error)
	UpdateForUser(ctx context.Context, publicID string, userID uint64, apply repository.UpdateFunc) (model.Reservation, error)
}

// EventPublisher announces applied reservation changes.
type EventPublisher interface {
	PublishReservationUpdated(ctx context.Context, ev queue.ReservationUpdatedEvent) error
}

// ReservationHandler serves the customer reservation history: listing
// reservations page by page and patching a single reservation.
type ReservationHandler struct {
	Reservations ReservationStore
	Events       EventPublisher // optional
	Log          *slog.Logger
	Now          func() time.Time
}

func NewReservationHandler(store ReservationStore, events EventPublisher, log *slog.Logger) *ReservationHandler {
	return &ReservationHandler{Reservations: store, Events: events, Log: log, Now: time.Now}
}

// List handles GET /v1/reservations.
//
// Query parameters: mine (default true; false lists every customer and is
// reserved to owners), page (zero-based), size (1..100, default 10), sort
// ("createdAt|reservationTime,asc|desc", default createdAt,desc) and status
// (empty or "all" for every status).
func (h *ReservationHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	p, err := parseListParams(c)
	if err != nil {
		_, werr := respondError(c, err)
		return werr
	}
	p.UserID = userID
	if p.AllUsers && middleware.Role(c) != model.RoleOwner {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	page, err := h.Reservations.List(c.Request().Context(), p)
	if err != nil {
		h.Log.Error("list reservations failed", "user_id", userID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	if page.Content == nil {
		page.Content = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, page)
}

func parseListParams(c echo.Context) (repository.ListParams, error) {
	p := repository.ListParams{Size: defaultPageSize, Sort: model.DefaultSort}

	if v := c.QueryParam("mine"); v != "" {
		mine, err := strconv.ParseBool(v)
		if err != nil {
			return p, badRequest("invalid mine")
		}
		p.AllUsers = !mine
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, badRequest("invalid page")
		}
		p.Page = n
	}
	if v := c.QueryParam("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPageSize {
			return p, badRequest("invalid size")
		}
		p.Size = n
	}
	if v := c.QueryParam("sort"); v != "" {
		s, err := model.ParseSort(v)
		if err != nil {
			return p, badRequest("invalid sort")
		}
		p.Sort = s
	}
	status, err := model.ParseStatusFilter(c.QueryParam("status"))
	if err != nil {
		return p, badRequest("invalid status")
	}
	p.Status = status
	return p, nil
}

// Patch handles PATCH /v1/reservation/:publicId.  The body is a partial
// reservation; absent fields keep their value and id, publicId and tableIds
// are ignored.  On success the updated reservation is returned and a
// reservation.updated event is published.
func (h *ReservationHandler) Patch(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	publicID := c.Param("publicId")
	if _, err := uuid.Parse(publicID); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var patch model.Patch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	now := h.Now()
	var before model.Reservation
	updated, err := h.Reservations.UpdateForUser(ctx, publicID, userID, func(cur repository.Locked) (model.Reservation, error) {
		before = cur.Reservation
		return applyCustomerPatch(cur, patch, now)
	})
	if err != nil {
		if ok, werr := respondError(c, err); ok {
			return werr
		}
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		h.Log.Error("update reservation failed", "public_id", publicID, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}

	h.Log.Info("reservation updated", "public_id", publicID, "user_id", userID,
		"from", before.StatusName.String(), "to", updated.StatusName.String())
	if h.Events != nil {
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
		// Failures are logged by the publisher and never fail the request.
		_ = h.Events.PublishReservationUpdated(pctx, queue.NewReservationUpdatedEvent(before, updated))
		cancel()
	}
	return c.JSON(http.StatusOK, updated)
}

// applyCustomerPatch validates patch against the locked reservation and
// returns the new state.  Closed reservations cannot change; a customer may
// keep the status or cancel; the party must be positive and fit the booked
// tables; a changed time must not be in the past unless the reservation is
// being cancelled.
func applyCustomerPatch(cur repository.Locked, patch model.Patch, now time.Time) (model.Reservation, error) {
	r := cur.Reservation
	if r.StatusName.IsTerminal() {
		return model.Reservation{}, conflict("reservation is " + r.StatusName.String())
	}

	cancelling := false
	if patch.StatusName != nil {
		next := *patch.StatusName
		if !next.IsValid() {
			return model.Reservation{}, badRequest("invalid statusName")
		}
		if next != r.StatusName && next != model.StatusCancelled {
			return model.Reservation{}, conflict("status change not allowed")
		}
		if !r.StatusName.CanTransition(next) {
			return model.Reservation{}, conflict("status change not allowed")
		}
		cancelling = next == model.StatusCancelled
	}

	if patch.NumberOfPeople != nil {
		n := *patch.NumberOfPeople
		if n <= 0 {
			return model.Reservation{}, badRequest("numberOfPeople must be positive")
		}
		if cur.Capacity > 0 && n > cur.Capacity {
			return model.Reservation{}, badRequest("numberOfPeople exceeds table capacity")
		}
	}

	if patch.ReservationTime != nil && !cancelling &&
		!patch.ReservationTime.Equal(r.ReservationTime) && patch.ReservationTime.Before(now) {
		return model.Reservation{}, badRequest("reservationTime is in the past")
	}

	return patch.Apply(r), nil
}
