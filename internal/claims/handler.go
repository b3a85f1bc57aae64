package claims

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/server/middleware"
	"returns-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches claim routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/claims", h.submit)
	rg.GET("/claims", h.list)
	rg.GET("/claims/:id", h.get)
	rg.POST("/claims/:id/evidence", h.resubmit)
}

type submitRequest struct {
	CustomerName     string `json:"customerName"`
	CustomerEmail    string `json:"customerEmail"`
	OrderID          string `json:"orderId"`
	ProductName      string `json:"productName"`
	ProductCategory  string `json:"productCategory"`
	IssueDescription string `json:"issueDescription"`
	IssueCategory    string `json:"issueCategory"`
	Language         string `json:"language"`
	ImageURL         string `json:"imageUrl"`
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	claim, err := h.Svc.Submit(c.Request.Context(), userID, SubmitInput{
		CustomerName:     req.CustomerName,
		CustomerEmail:    req.CustomerEmail,
		OrderID:          req.OrderID,
		ProductName:      req.ProductName,
		ProductCategory:  req.ProductCategory,
		IssueDescription: req.IssueDescription,
		IssueCategory:    req.IssueCategory,
		Language:         req.Language,
		ImageURL:         req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to create claim", nil)
		}
		return
	}

	respond.Created(c, claim)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	isAdmin := middleware.IsAdminFromContext(c)

	claim, err := h.Svc.Get(c.Request.Context(), userID, isAdmin, c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "claim not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch claim", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, claim)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

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

	list, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list claims", nil)
		return
	}
	if list == nil {
		list = []Claim{}
	}

	respond.JSON(c, http.StatusOK, gin.H{"claims": list})
}

type resubmitRequest struct {
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
}

func (h *Handler) resubmit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	isAdmin := middleware.IsAdminFromContext(c)

	var req resubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	claim, err := h.Svc.ResubmitEvidence(c.Request.Context(), userID, isAdmin, c.Param("id"), ResubmitInput{
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "claim not found", nil)
		case errors.Is(err, ErrNotAwaitingInfo):
			respond.Error(c, http.StatusConflict, "invalid_state", err.Error(), nil)
		case errors.Is(err, ErrSameImageResubmitted):
			respond.Error(c, http.StatusBadRequest, "duplicate_evidence", err.Error(), nil)
		case errors.Is(err, ErrValidation):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update claim", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, claim)
}
