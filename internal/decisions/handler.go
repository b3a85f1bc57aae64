package decisions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/claims"
	"returns-backend/internal/shared/server/middleware"
	"returns-backend/internal/shared/server/respond"
)

// Handler exposes a claim's decision history. Ownership follows the claim:
// customers see their own history, admins see any.
type Handler struct {
	Decisions Repo
	Claims    claims.Repo
}

func NewHandler(decisionRepo Repo, claimRepo claims.Repo) *Handler {
	return &Handler{Decisions: decisionRepo, Claims: claimRepo}
}

// RegisterRoutes attaches the decision history route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/claims/:id/decisions", h.listForClaim)
}

func (h *Handler) listForClaim(c *gin.Context) {
	claimID := c.Param("id")

	claim, err := h.Claims.GetByID(c.Request.Context(), claimID)
	if err != nil {
		if errors.Is(err, claims.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "claim not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch claim", nil)
		return
	}
	if !middleware.IsAdminFromContext(c) && claim.UserID != middleware.UserIDFromContext(c) {
		// Hide existence from other users.
		respond.Error(c, http.StatusNotFound, "not_found", "claim not found", nil)
		return
	}

	list, err := h.Decisions.ListForClaim(c.Request.Context(), claimID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list decisions", nil)
		return
	}
	if list == nil {
		list = []Decision{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"decisions": list})
}
