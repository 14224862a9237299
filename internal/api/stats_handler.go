package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) Dashboard(e echo.Context) error {
	view, err := h.stats.Dashboard(e.Request().Context(), teamScope(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, view)
}

func (h *Handler) Rankings(e echo.Context) error {
	view, err := h.stats.Rankings(e.Request().Context(), teamScope(e))
	if err != nil {
		return h.transportError(e, err)
	}
	return e.JSON(http.StatusOK, view)
}
