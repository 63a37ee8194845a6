package audit

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehome/carehome/internal/platform/auth"
	"github.com/carehome/carehome/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/audit", auth.RequireRole("manager"))
	g.GET("", h.List)
}

func (h *Handler) List(c echo.Context) error {
	p := pagination.FromContext(c)
	staffID := c.QueryParam("staff_id")
	entries, total, err := h.svc.List(c.Request().Context(), staffID, p.Limit, p.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, p.Limit, p.Offset))
}
