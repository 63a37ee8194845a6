package compliance

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carehome/carehome/internal/platform/auth"
)

type Handler struct {
	checker *Checker
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/compliance", auth.RequireRole("manager"))
	g.POST("/check", h.Check)
}

func (h *Handler) Check(c echo.Context) error {
	err := h.checker.Check(c.Request().Context())
	if err == nil {
		return c.JSON(http.StatusOK, map[string]bool{"compliant": true})
	}

	var violation *Violation
	if errors.As(err, &violation) {
		return c.JSON(http.StatusConflict, map[string]interface{}{
			"compliant": false,
			"violation": violation,
		})
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}
