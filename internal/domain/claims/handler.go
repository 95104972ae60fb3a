package claims

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/internal/platform/docai"
	"github.com/medclaims/claims/pkg/pagination"
)

// DocumentAnalyzer is the external document analysis collaborator. Nil
// when no analysis service is configured.
type DocumentAnalyzer interface {
	AnalyzeText(ctx context.Context, text, claimTypeHint string) *docai.Analysis
}

type Handler struct {
	svc      *Service
	analyzer DocumentAnalyzer
}

func NewHandler(svc *Service, analyzer DocumentAnalyzer) *Handler {
	return &Handler{svc: svc, analyzer: analyzer}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/claims", h.SubmitClaim)
	api.GET("/claims", h.ListClaims)
	api.GET("/claims/:claim_id", h.GetClaim)
	api.PUT("/claims/:claim_id/status", h.UpdateClaimStatus)
	api.POST("/claims/validate", h.ValidateClaim)
	api.POST("/claims/analyze-text", h.AnalyzeText)
}

func (h *Handler) SubmitClaim(c echo.Context) error {
	var claim Claim
	if err := c.Bind(&claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	result, err := h.svc.Submit(c.Request().Context(), &claim)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"claim":             claim,
		"validation_result": result,
	})
}

func (h *Handler) GetClaim(c echo.Context) error {
	claim, err := h.svc.Get(c.Request().Context(), c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "claim not found")
	}
	return c.JSON(http.StatusOK, claim)
}

func (h *Handler) ListClaims(c echo.Context) error {
	pg := pagination.FromContext(c)
	filter := ListFilter{
		Status:       c.QueryParam("status"),
		PolicyNumber: c.QueryParam("policy_number"),
		PatientID:    c.QueryParam("patient_id"),
	}
	list, total, err := h.svc.List(c.Request().Context(), filter, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list claims")
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(list, total, pg.Limit, pg.Offset))
}

func (h *Handler) UpdateClaimStatus(c echo.Context) error {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	if err := h.svc.UpdateStatus(c.Request().Context(), c.Param("claim_id"), body.Status); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{
		"claim_id": c.Param("claim_id"),
		"status":   body.Status,
	})
}

// ValidateClaim runs the validator without persisting anything, so
// submitters can pre-check a claim payload.
func (h *Handler) ValidateClaim(c echo.Context) error {
	var claim Claim
	if err := c.Bind(&claim); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.JSON(http.StatusOK, Validate(&claim))
}

func (h *Handler) AnalyzeText(c echo.Context) error {
	if h.analyzer == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "document analysis is not configured")
	}

	var body struct {
		DocumentText string `json:"document_text"`
		ClaimType    string `json:"claim_type"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.DocumentText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "document_text is required")
	}

	analysis := h.analyzer.AnalyzeText(c.Request().Context(), body.DocumentText, body.ClaimType)
	return c.JSON(http.StatusOK, map[string]any{
		"analysis":    analysis,
		"suggestions": docai.ImprovementSuggestions(analysis),
	})
}
