package record

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medichron/api/internal/platform/auth"
	"github.com/medichron/api/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/records")
	g.POST("", h.Create, auth.RequireRole(auth.RoleDoctor))
	g.GET("/patient/me", h.ListMine, auth.RequireRole(auth.RolePatient))
	g.GET("/doctor/me", h.ListMine, auth.RequireRole(auth.RoleDoctor))
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update, auth.RequireRole(auth.RoleDoctor))
	g.DELETE("/:id", h.Delete, auth.RequireRole(auth.RoleDoctor))
}

func principalFrom(c echo.Context) Principal {
	ctx := c.Request().Context()
	return Principal{
		Username: auth.UsernameFromContext(ctx),
		Doctor:   auth.HasRole(ctx, auth.RoleDoctor),
		Admin:    auth.HasRole(ctx, auth.RoleAdmin),
	}
}

func (h *Handler) Create(c echo.Context) error {
	var in CreateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Create(c.Request().Context(), principalFrom(c), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, rec)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	rec, err := h.svc.Get(c.Request().Context(), principalFrom(c), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := h.svc.Update(c.Request().Context(), principalFrom(c), id, in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), principalFrom(c), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListMine(c echo.Context) error {
	pg := pagination.FromContext(c)
	records, total, err := h.svc.ListMine(c.Request().Context(), principalFrom(c), pg.Limit, pg.Offset)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(records, total, pg.Limit, pg.Offset))
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	case errors.Is(err, ErrDenied):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	default:
		// Infrastructure failures stay out of client responses.
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
