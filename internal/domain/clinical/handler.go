package clinical

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehome/carehome/internal/domain/patient"
	"github.com/carehome/carehome/internal/domain/ward"
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
	// Route-level role checks are a cheap first gate; the service
	// re-verifies the actor against the staff directory.
	ops := api.Group("/clinical", auth.RequireRole("manager", "doctor", "nurse"))
	ops.POST("/admissions", h.Admit)
	ops.POST("/transfers", h.Transfer)
	ops.POST("/discharges", h.Discharge)
	ops.POST("/prescriptions", h.Prescribe)
	ops.POST("/administrations", h.Administer)
	ops.POST("/administrations/corrections", h.Correct)
	ops.GET("/beds/:id/occupant", h.Occupant)
	ops.GET("/beds/first-vacant", h.FirstVacant)
	ops.GET("/patients/:id/prescriptions", h.Prescriptions)
	ops.GET("/patients/:id/administrations", h.Administrations)
}

func clinicalError(err error) *echo.HTTPError {
	var placement *ward.PlacementError
	switch {
	case errors.Is(err, ErrNotAuthorized):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ward.ErrUnknownBed), errors.Is(err, patient.ErrPatientNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ward.ErrBedOccupied), errors.Is(err, ward.ErrBedVacant),
		errors.Is(err, patient.ErrDuplicatePatient), errors.Is(err, ErrPatientMismatch):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &placement):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
}

type admitRequest struct {
	PatientID string `json:"patient_id"`
	Name      string `json:"name"`
	Gender    string `json:"gender"`
	Isolation bool   `json:"isolation"`
	BedID     string `json:"bed_id"`
}

func (h *Handler) Admit(c echo.Context) error {
	var req admitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	gender, err := patient.ParseGender(req.Gender)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := h.svc.Admit(c.Request().Context(), req.PatientID, req.Name, gender, req.Isolation, req.BedID)
	if err != nil {
		return clinicalError(err)
	}
	return c.JSON(http.StatusCreated, p)
}

type transferRequest struct {
	FromBedID string `json:"from_bed_id"`
	ToBedID   string `json:"to_bed_id"`
	Day       string `json:"day"`
	Time      string `json:"time"`
}

func (h *Handler) Transfer(c echo.Context) error {
	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := weektime.ParseTimeOfDay(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Transfer(c.Request().Context(), req.FromBedID, req.ToBedID, day, t); err != nil {
		return clinicalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type dischargeRequest struct {
	BedID string `json:"bed_id"`
}

func (h *Handler) Discharge(c echo.Context) error {
	var req dischargeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Discharge(c.Request().Context(), req.BedID); err != nil {
		return clinicalError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

type prescribeRequest struct {
	PatientID string      `json:"patient_id"`
	BedID     string      `json:"bed_id"`
	Day       string      `json:"day"`
	Lines     []LineInput `json:"lines"`
}

func (h *Handler) Prescribe(c echo.Context) error {
	var req prescribeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rx, err := h.svc.Prescribe(c.Request().Context(), req.PatientID, req.BedID, day, req.Lines)
	if err != nil {
		return clinicalError(err)
	}
	return c.JSON(http.StatusCreated, rx)
}

type administerRequest struct {
	BedID    string `json:"bed_id"`
	Day      string `json:"day"`
	Time     string `json:"time"`
	Medicine string `json:"medicine"`
	Dose     string `json:"dose"`
}

func (h *Handler) Administer(c echo.Context) error {
	var req administerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := weektime.ParseTimeOfDay(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	admin, err := h.svc.Administer(c.Request().Context(), req.BedID, day, t, req.Medicine, req.Dose)
	if err != nil {
		return clinicalError(err)
	}
	return c.JSON(http.StatusCreated, admin)
}

type correctionRequest struct {
	PatientID string `json:"patient_id"`
	Day       string `json:"day"`
	Time      string `json:"time"`
	Medicine  string `json:"medicine"`
	NewDose   string `json:"new_dose"`
}

func (h *Handler) Correct(c echo.Context) error {
	var req correctionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	day, err := weektime.ParseDay(req.Day)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t, err := weektime.ParseTimeOfDay(req.Time)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	admin, err := h.svc.CorrectAdministration(c.Request().Context(), req.PatientID, day, t, req.Medicine, req.NewDose)
	if err != nil {
		return clinicalError(err)
	}
	return c.JSON(http.StatusCreated, admin)
}

func (h *Handler) Occupant(c echo.Context) error {
	p, err := h.svc.Occupant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return clinicalError(err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) FirstVacant(c echo.Context) error {
	bed, err := h.svc.FirstVacantBed(c.Request().Context())
	if err != nil {
		if errors.Is(err, ErrNoVacantBed) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, bed)
}

func (h *Handler) Prescriptions(c echo.Context) error {
	list, err := h.svc.Prescriptions(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) Administrations(c echo.Context) error {
	list, err := h.svc.Administrations(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, list)
}
