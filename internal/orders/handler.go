package orders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/server/middleware"
	"returns-backend/internal/shared/server/respond"
)

const maxImportSize = 50 << 20 // 50MB

// Handler wires the order import and assignment endpoints.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches user-facing order routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/orders", h.list)
	rg.POST("/orders/assign", h.assign)
}

// RegisterAdminRoutes attaches the spreadsheet import. Callers gate the
// group behind the admin middleware.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/orders/import", h.importCSV)
}

func (h *Handler) importCSV(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	total, err := h.Svc.ImportCSV(c.Request.Context(), file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "import_failed", err.Error(), nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success": true,
		"total":   total,
	})
}

func (h *Handler) assign(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	assigned, already, err := h.Svc.AssignRandom(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoOrders) {
			respond.Error(c, http.StatusConflict, "no_orders", "no orders available to assign", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to assign orders", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"success":         true,
		"assigned":        assigned,
		"alreadyAssigned": already,
	})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	list, err := h.Svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list orders", nil)
		return
	}
	if list == nil {
		list = []Order{}
	}
	respond.JSON(c, http.StatusOK, gin.H{"orders": list})
}
