package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/model"
)

// RegisterReservations registers the reservation history endpoints.  Both
// require a valid access token and are rate limited per user.  Listing is
// open to customers and owners (owners may pass mine=false); patching is
// reserved to customers acting on their own reservations.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, jwtSecret string, limit echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), limit)
	g.GET("/reservations", h.List, middleware.RequireRole(model.RoleCustomer, model.RoleOwner))
	g.PATCH("/reservation/:publicId", h.Patch, middleware.RequireRole(model.RoleCustomer))
}
