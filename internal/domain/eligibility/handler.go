package eligibility

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/internal/domain/claims"
)

type Handler struct {
	checker *Checker
}

func NewHandler(checker *Checker) *Handler {
	return &Handler{checker: checker}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/eligibility/check", h.CheckEligibility)
}

func (h *Handler) CheckEligibility(c echo.Context) error {
	var claim claims.Claim
	if err := c.Bind(&claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if claim.PolicyNumber == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "policy_number is required")
	}

	result, err := h.checker.Check(c.Request().Context(), &claim)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "eligibility check failed")
	}
	return c.JSON(http.StatusOK, result)
}
