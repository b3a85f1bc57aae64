package pipeline

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"returns-backend/internal/shared/server/respond"
	"returns-backend/internal/shared/telemetry"
)

// Handler exposes the analysis invocation endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the analyze route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims/:id/analyze", h.analyze)
}

type analyzeRequest struct {
	ImageReference *string `json:"imageReference"`
	Description    string  `json:"description"`
	Language       string  `json:"language"`
}

// analyze runs the full pipeline for one claim. Fatal failures return a
// generic message plus a correlation id; the id is the only way to find the
// server-side log line.
func (h *Handler) analyze(c *gin.Context) {
	claimID := c.Param("id")

	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	imageRef := ""
	if req.ImageReference != nil {
		imageRef = *req.ImageReference
	}

	result, err := h.Svc.Run(c.Request.Context(), RunInput{
		ClaimID:        claimID,
		ImageReference: imageRef,
		Description:    req.Description,
		Language:       req.Language,
	})
	if err != nil {
		if errors.Is(err, ErrValidation) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid request data", nil)
			return
		}
		errorID := uuid.NewString()
		telemetry.Error("pipeline run failed", map[string]any{
			"claimId": claimID,
			"errorId": errorID,
			"error":   err.Error(),
		})
		respond.JSON(c, http.StatusInternalServerError, gin.H{
			"error":   "Unable to process return request. Please try again later.",
			"errorId": errorID,
		})
		return
	}

	if result.Duplicate {
		respond.JSON(c, http.StatusOK, gin.H{
			"success":  false,
			"decision": result.Decision,
			"reason":   result.DecisionReason,
		})
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success":           true,
		"claimId":           result.ClaimID,
		"visionAnalysis":    result.VisionAnalysis,
		"defectCategory":    result.DefectCategory,
		"decision":          result.Decision,
		"decisionReason":    result.DecisionReason,
		"emailDraft":        result.EmailDraft,
		"confidence":        result.Confidence,
		"isSuspiciousImage": result.IsSuspiciousImage,
		"policyMatched":     result.PolicyMatched,
	})
}
