package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medichron/api/internal/domain/doctor"
	"github.com/medichron/api/internal/domain/patient"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the auth endpoints. loginMW is applied to the login
// route only, so credential guessing can be throttled harder than the rest
// of the API.
func (h *Handler) RegisterRoutes(api *echo.Group, loginMW ...echo.MiddlewareFunc) {
	g := api.Group("/auth")
	g.POST("/register/patient", h.RegisterPatient)
	g.POST("/register/doctor", h.RegisterDoctor)
	g.POST("/login", h.Login, loginMW...)
}

func (h *Handler) RegisterPatient(c echo.Context) error {
	var in RegisterPatientInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.RegisterPatient(c.Request().Context(), in)
	if err != nil {
		return mapRegisterError(err, patient.ErrDuplicate)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) RegisterDoctor(c echo.Context) error {
	var in RegisterDoctorInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d, err := h.svc.RegisterDoctor(c.Request().Context(), in)
	if err != nil {
		return mapRegisterError(err, doctor.ErrDuplicate)
	}
	return c.JSON(http.StatusCreated, d)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	resp, err := h.svc.Login(c.Request().Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error())
		case errors.Is(err, ErrInactiveAccount):
			return echo.NewHTTPError(http.StatusBadRequest, ErrInactiveAccount.Error())
		case errors.Is(err, ErrInvalidInput):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			// Token-issue and store failures stay out of client responses.
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// mapRegisterError keeps 400 for validation and duplicate-identity failures
// and hides everything else behind a generic 500.
func mapRegisterError(err, dup error) error {
	if errors.Is(err, ErrInvalidInput) || errors.Is(err, dup) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
