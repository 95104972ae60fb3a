package decision

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/claims/:claim_id/process", h.ProcessClaim)
}

func (h *Handler) ProcessClaim(c echo.Context) error {
	result, err := h.svc.Process(c.Request().Context(), c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.JSON(http.StatusOK, result)
}
