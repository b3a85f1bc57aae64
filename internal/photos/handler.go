package photos

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"returns-backend/internal/shared/server/middleware"
	"returns-backend/internal/shared/server/respond"
	"returns-backend/internal/shared/storage/object"
	s3store "returns-backend/internal/shared/storage/object/s3"
)

const (
	maxPhotoBytes  = 10 << 20
	presignExpires = 15 * time.Minute
)

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/heic": {},
}

// Handler exposes photo upload endpoints. Presigned uploads need the S3
// store; the direct upload path works against any object store.
type Handler struct {
	Store object.ObjectStore
}

func NewHandler(store object.ObjectStore) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches photo routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/photos", h.upload)
	rg.POST("/photos/presign", h.presign)
}

func (h *Handler) upload(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxPhotoBytes)

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

	key, size, mime, err := h.Store.Save(c.Request.Context(), userID, fileHeader.Filename, file)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store photo", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, gin.H{
		"storageKey": key,
		"url":        h.Store.URL(key),
		"sizeBytes":  size,
		"mimeType":   mime,
	})
}

type presignRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

func (h *Handler) presign(c *gin.Context) {
	s3s, ok := h.Store.(*s3store.Store)
	if !ok {
		respond.Error(c, http.StatusNotImplemented, "not_supported", "presigned uploads require S3 storage", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)

	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.FileName = strings.TrimSpace(req.FileName)
	req.ContentType = strings.TrimSpace(req.ContentType)
	if req.FileName == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "fileName is required", nil)
		return
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported content type", nil)
		return
	}

	uploadURL, storageKey, err := s3s.PresignUpload(c.Request.Context(), userID, req.FileName, req.ContentType, presignExpires)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to presign upload", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{
		"uploadUrl":        uploadURL,
		"storageKey":       storageKey,
		"url":              s3s.URL(storageKey),
		"expiresInSeconds": int64(presignExpires.Seconds()),
	})
}
