package policy

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/policies", h.CreatePolicy)
	api.GET("/policies", h.ListPolicies)
	api.GET("/policies/:policy_number", h.GetPolicy)
}

func (h *Handler) CreatePolicy(c echo.Context) error {
	var p Policy
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPolicy(c echo.Context) error {
	p, err := h.svc.GetByNumber(c.Request().Context(), c.Param("policy_number"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "policy not found")
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) ListPolicies(c echo.Context) error {
	pg := pagination.FromContext(c)
	policies, total, err := h.svc.List(c.Request().Context(), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list policies")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(policies, total, pg.Limit, pg.Offset))
}
