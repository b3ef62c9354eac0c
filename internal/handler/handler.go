package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Seweryn1777/Image/internal/config"
	"github.com/Seweryn1777/Image/internal/domain"
	"github.com/Seweryn1777/Image/internal/service"
)

// allowedMimeTypes is the upload allow-list; declared content types are
// lower-cased before the lookup.
var allowedMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type uploadRequest struct {
	Title  string `form:"title" binding:"required,min=1,max=255"`
	Width  int    `form:"width" binding:"omitempty,min=1,max=8192"`
	Height int    `form:"height" binding:"omitempty,min=1,max=8192"`
}

type listRequest struct {
	Search   string `form:"search" binding:"omitempty,min=1,max=100"`
	Limit    int    `form:"limit,default=25" binding:"omitempty,min=1,max=500"`
	Offset   int    `form:"offset,default=0" binding:"omitempty,min=0"`
	OrderBy  string `form:"orderBy,default=createdAt" binding:"omitempty,oneof=createdAt title"`
	OrderWay string `form:"orderWay,default=DESC" binding:"omitempty,oneof=ASC DESC"`
}

type Handler struct {
	service service.ImageService
	cfg     *config.Config
	log     *zap.Logger
}

func NewHandler(service service.ImageService, cfg *config.Config, log *zap.Logger) *Handler {
	return &Handler{
		service: service,
		cfg:     cfg,
		log:     log,
	}
}

// UploadImage validates the multipart form before the pipeline runs:
// a rejected upload never touches the blob store or the catalog.
func (h *Handler) UploadImage(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No image file provided"})
		return
	}

	if file.Size > h.cfg.App.MaxUploadSize {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "File too large"})
		return
	}

	mimeType := strings.ToLower(file.Header.Get("Content-Type"))
	if !allowedMimeTypes[mimeType] {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unsupported file type: " + mimeType})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.log.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		h.log.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	id, err := h.service.Upload(c.Request.Context(), domain.UploadInput{
		Title:    req.Title,
		Width:    req.Width,
		Height:   req.Height,
		Data:     data,
		FileName: file.Filename,
		MimeType: mimeType,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) ListImages(c *gin.Context) {
	var req listRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	list, err := h.service.List(c.Request.Context(), domain.ListParams{
		Search:   req.Search,
		Limit:    req.Limit,
		Offset:   req.Offset,
		OrderBy:  domain.OrderBy(req.OrderBy),
		OrderWay: domain.OrderWay(req.OrderWay),
	})
	if err != nil {
		h.log.Error("Failed to list images", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to list images"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetImageByID(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image id"})
		return
	}

	image, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrNotFound.Error()})
			return
		}
		h.log.Error("Failed to get image", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to get image"})
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
