package roster

import (
	"errors"
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
	manage := api.Group("/roster", auth.RequireRole("manager"))
	manage.POST("/shifts", h.Assign)
	manage.DELETE("/shifts", h.Remove)
	manage.GET("/hours", h.HoursByNurseDay)

	read := api.Group("/roster", auth.RequireRole("manager", "doctor", "nurse"))
	read.GET("/nurses/:id/shifts", h.ListForNurse)
	read.GET("/nurses/:id/on-duty", h.OnDuty)
}

type shiftRequest struct {
	NurseID string `json:"nurse_id"`
	Day     string `json:"day"`
	Shape   string `json:"shape"`
}

func (h *Handler) Assign(c echo.Context) error {
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	shift, err := h.svc.Assign(c.Request().Context(), req.NurseID, day, req.Shape)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateShift), errors.Is(err, ErrHourCapExceeded):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}
	return c.JSON(http.StatusCreated, shift)
}

func (h *Handler) Remove(c echo.Context) error {
	var req shiftRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Remove(c.Request().Context(), req.NurseID, day, req.Shape); err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListForNurse(c echo.Context) error {
	shifts, err := h.svc.ListForNurse(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, shifts)
}

func (h *Handler) OnDuty(c echo.Context) error {
	day, err := weektime.ParseDay(c.QueryParam("day"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := weektime.ParseTimeOfDay(c.QueryParam("time"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	onDuty, err := h.svc.OnDuty(c.Request().Context(), c.Param("id"), day, t)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]bool{"on_duty": onDuty})
}

func (h *Handler) HoursByNurseDay(c echo.Context) error {
	hours, err := h.svc.HoursByNurseDay(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, hours)
}
