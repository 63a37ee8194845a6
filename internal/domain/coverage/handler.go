package coverage

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/weektime"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	manage := api.Group("/coverage", auth.RequireRole("manager"))
	manage.PUT("/minutes", h.Upsert)
	manage.GET("/minutes", h.List)

	read := api.Group("/coverage", auth.RequireRole("manager", "doctor", "nurse"))
	read.GET("/days", h.AllByDay)
}

type minutesRequest struct {
	DoctorID string `json:"doctor_id"`
	Day      string `json:"day"`
	Minutes  int    `json:"minutes"`
}

func (h *Handler) Upsert(c echo.Context) error {
	var req minutesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Upsert(c.Request().Context(), req.DoctorID, day, req.Minutes); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	entries, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) AllByDay(c echo.Context) error {
	byDay, err := h.svc.AllByDay(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	// Keyed by day name for readable JSON.
	out := make(map[string]int, len(byDay))
	for day, minutes := range byDay {
		out[day.String()] = minutes
	}
	return c.JSON(http.StatusOK, out)
}
