package recommendation

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medclaims/claims/internal/domain/claims"
	"github.com/medclaims/claims/internal/domain/eligibility"
)

type Handler struct {
	engine *Engine
}

func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/recommendations/generate", h.GenerateRecommendation)
	api.GET("/recommendations/history/:claim_id", h.GetHistory)
	api.POST("/recommendations/validate", h.ValidateRecommendation)
}

// GenerateRecommendation accepts pre-computed upstream results, so
// callers can replay or adjust pipeline stages independently. Missing
// pieces fall back to the engine's neutral defaults.
func (h *Handler) GenerateRecommendation(c echo.Context) error {
	var body struct {
		ClaimData         *claims.Claim            `json:"claim_data"`
		ValidationResult  *claims.ValidationResult `json:"validation_result"`
		EligibilityResult *eligibility.Result      `json:"eligibility_result"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.ClaimData == nil {
		return echo.NewHTTPError(http.StatusBadRequest, "claim_data is required")
	}

	rec, err := h.engine.Recommend(c.Request().Context(), body.ClaimData, body.ValidationResult, body.EligibilityResult)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to generate recommendation")
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) GetHistory(c echo.Context) error {
	entries, err := h.engine.History(c.Request().Context(), c.Param("claim_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load history")
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return c.JSON(http.StatusOK, map[string]any{
		"claim_id": c.Param("claim_id"),
		"history":  entries,
	})
}

func (h *Handler) ValidateRecommendation(c echo.Context) error {
	var body struct {
		ClaimID          string `json:"claim_id"`
		ReviewerDecision string `json:"reviewer_decision"`
		ReviewerNotes    string `json:"reviewer_notes"`
		ReviewerID       string `json:"reviewer_id"`
	}
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.ClaimID == "" || body.ReviewerDecision == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "claim_id and reviewer_decision are required")
	}

	rv, err := h.engine.RecordReviewerDecision(c.Request().Context(),
		body.ClaimID, body.ReviewerDecision, body.ReviewerNotes, body.ReviewerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to record reviewer decision")
	}
	return c.JSON(http.StatusOK, rv)
}
