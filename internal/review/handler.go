package review

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/claims"
	"returns-backend/internal/decisions"
	"returns-backend/internal/shared/server/respond"
)

// Handler exposes the admin review queue.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches review routes. Callers gate the group behind the
// admin middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/review/queue", h.queue)
	rg.POST("/review/:claimId/resolve", h.resolve)
}

func (h *Handler) queue(c *gin.Context) {
	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	items, err := h.Svc.Queue(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load review queue", nil)
		return
	}
	if items == nil {
		items = []Item{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"items": items})
}

type resolveRequest struct {
	Resolution string `json:"resolution"`
	AdminNote  string `json:"adminNote"`
}

func (h *Handler) resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	claim, err := h.Svc.Resolve(c.Request.Context(), c.Param("claimId"), req.Resolution, req.AdminNote)
	if err != nil {
		switch {
		case errors.Is(err, claims.ErrNotFound), errors.Is(err, decisions.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "claim not found", nil)
		case errors.Is(err, ErrInvalidResolution):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to resolve claim", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, claim)
}
