package policies

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/server/respond"
)

// Handler exposes admin CRUD over policies.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches policy routes. Callers gate the group behind the
// admin middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/policies", h.create)
	rg.GET("/policies", h.list)
	rg.GET("/policies/:id", h.get)
	rg.PUT("/policies/:id", h.update)
	rg.DELETE("/policies/:id", h.remove)
}

type policyRequest struct {
	DefectCategory string `json:"defectCategory"`
	PolicyType     string `json:"policyType"`
	IsReturnable   bool   `json:"isReturnable"`
	TimeLimitDays  int    `json:"timeLimitDays"`
	Conditions     string `json:"conditions"`
}

func (req policyRequest) toInput() Input {
	return Input{
		DefectCategory: req.DefectCategory,
		PolicyType:     req.PolicyType,
		IsReturnable:   req.IsReturnable,
		TimeLimitDays:  req.TimeLimitDays,
		Conditions:     req.Conditions,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	policy, err := h.Svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create policy", nil)
		return
	}
	respond.Created(c, policy)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list policies", nil)
		return
	}
	if list == nil {
		list = []Policy{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"policies": list})
}

func (h *Handler) get(c *gin.Context) {
	policy, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch policy", nil)
		return
	}
	respond.JSON(c, http.StatusOK, policy)
}

func (h *Handler) update(c *gin.Context) {
	var req policyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	policy, err := h.Svc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update policy", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, policy)
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "policy not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete policy", nil)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"deleted": true})
}
