package directory

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/pagination"
)

type Handler struct {
	svc     *Service
	authCfg auth.Config
}

func NewHandler(svc *Service, authCfg auth.Config) *Handler {
	return &Handler{svc: svc, authCfg: authCfg}
}

// RegisterAuthRoutes mounts the login endpoint. It is served outside the
// authenticated group.
func (h *Handler) RegisterAuthRoutes(public *echo.Group) {
	public.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("/staff", auth.RequireRole("manager", "doctor", "nurse"))
	readGroup.GET("/:id", h.Lookup)

	writeGroup := api.Group("/staff", auth.RequireRole("manager"))
	writeGroup.POST("", h.Register)
	writeGroup.GET("", h.List)
	writeGroup.GET("/counts", h.CountByRole)
	writeGroup.PUT("/:id/name", h.Rename)
	writeGroup.PUT("/:id/credential", h.SetCredential)
}

type registerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	staff, err := h.svc.Register(c.Request().Context(), req.ID, req.Name, role)
	if err != nil {
		if errors.Is(err, ErrDuplicateStaff) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, staff)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) Rename(c echo.Context) error {
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.Rename(c.Request().Context(), c.Param("id"), req.Name)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

type credentialRequest struct {
	Secret string `json:"secret"`
}

func (h *Handler) SetCredential(c echo.Context) error {
	var req credentialRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	err := h.svc.SetCredential(c.Request().Context(), c.Param("id"), req.Secret)
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Lookup(c echo.Context) error {
	staff, err := h.svc.Lookup(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, staff)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	staff, total, err := h.svc.List(c.Request().Context(), p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(staff, total, p.Limit, p.Offset))
}

func (h *Handler) CountByRole(c echo.Context) error {
	counts, err := h.svc.CountByRole(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counts)
}

type loginRequest struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

type loginResponse struct {
	Token string `json:"token"`
	Staff *Staff `json:"staff"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	staff, err := h.svc.Authenticate(c.Request().Context(), req.ID, req.Secret)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	token, err := auth.IssueToken(h.authCfg, staff.ID, staff.Name, string(staff.Role))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "issuing token")
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Staff: staff})
}
