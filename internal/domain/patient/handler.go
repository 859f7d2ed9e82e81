package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medichron/api/internal/platform/auth"
	"github.com/medichron/api/internal/platform/phi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/patients")
	self := g.Group("", auth.RequireRole(auth.RolePatient))
	self.GET("/me", h.Me)
	self.PUT("/me", h.UpdateMe)
	self.DELETE("/me", h.DeactivateMe)
	self.GET("/me/qr-code", h.MyQRCode)

	// Read by id is open to doctors and to the patient themselves;
	// the handler decides which case applies.
	g.GET("/:id", h.Get)
}

func (h *Handler) Me(c echo.Context) error {
	p, err := h.svc.Profile(c.Request().Context(), auth.UsernameFromContext(c.Request().Context()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdateMe(c echo.Context) error {
	var in UpdateInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.UpdateProfile(c.Request().Context(), auth.UsernameFromContext(c.Request().Context()), in)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) DeactivateMe(c echo.Context) error {
	if err := h.svc.Deactivate(c.Request().Context(), auth.UsernameFromContext(c.Request().Context())); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) MyQRCode(c echo.Context) error {
	resp, err := h.svc.QRCode(c.Request().Context(), auth.UsernameFromContext(c.Request().Context()))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	ctx := c.Request().Context()
	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if !auth.HasRole(ctx, auth.RoleDoctor) && p.Username != auth.UsernameFromContext(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	}
	return c.JSON(http.StatusOK, p)
}

func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidInput):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, phi.ErrDecrypt):
		return echo.NewHTTPError(http.StatusInternalServerError, "profile unavailable")
	default:
		// Infrastructure failures stay out of client responses.
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
