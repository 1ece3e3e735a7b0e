package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
)

// TableLister is the read side of the table catalog.
type TableLister interface {
	ListActive(ctx context.Context) ([]model.Table, error)
}

// TableHandler serves the public table catalog.
type TableHandler struct {
	Tables TableLister
	Log    *slog.Logger
}

func NewTableHandler(tables TableLister, log *slog.Logger) *TableHandler {
	return &TableHandler{Tables: tables, Log: log}
}

// List handles GET /v1/tables and returns every active table ordered by id.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.Tables.ListActive(c.Request().Context())
	if err != nil {
		h.Log.Error("list tables failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tables"})
	}
	if tables == nil {
		tables = []model.Table{}
	}
	return c.JSON(http.StatusOK, tables)
}
