package qr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medichron/api/internal/domain/patient"
	"github.com/medichron/api/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/qr", auth.RequireRole(auth.RoleDoctor))
	g.GET("/scan/:uid", h.Scan)
}

func (h *Handler) Scan(c echo.Context) error {
	uid := c.Param("uid")
	summary, err := h.svc.Scan(c.Request().Context(), uid)
	if err != nil {
		if errors.Is(err, patient.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no patient matches this code")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, summary)
}
