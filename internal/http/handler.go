package http

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lpr-service/internal/service"
	"lpr-service/internal/storage"
)

type Handler struct {
	registryService    *service.RegistryService
	recognitionService *service.RecognitionService
	importService      *service.ImportService
	snapshots          *storage.SnapshotStore
	log                zerolog.Logger
}

func NewHandler(
	registryService *service.RegistryService,
	recognitionService *service.RecognitionService,
	importService *service.ImportService,
	snapshots *storage.SnapshotStore,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		registryService:    registryService,
		recognitionService: recognitionService,
		importService:      importService,
		snapshots:          snapshots,
		log:                log,
	}
}

func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.POST("/plates", h.addPlate)
		api.GET("/plates", h.listPlates)
		api.GET("/plates/lookup", h.lookupPlate)
		api.DELETE("/plates/:plate", h.deletePlate)
		api.POST("/plates/import", h.importPlates)
		api.POST("/recognitions", h.recognize)
		api.GET("/recognitions", h.listRecognitions)
	}
}

func (h *Handler) addPlate(c *gin.Context) {
	var req struct {
		Plate      string `json:"plate" binding:"required"`
		OwnerName  string `json:"owner_name"`
		Department string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	plate, err := h.registryService.AddPlate(c.Request.Context(), req.Plate, req.OwnerName, req.Department)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "ok",
		"plate":  plate,
	})
}

func (h *Handler) listPlates(c *gin.Context) {
	plates, err := h.registryService.ListPlates(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(plates))
}

func (h *Handler) lookupPlate(c *gin.Context) {
	plateQuery := strings.TrimSpace(c.Query("plate"))
	if plateQuery == "" {
		c.JSON(http.StatusBadRequest, errorResponse("plate parameter is required"))
		return
	}

	record, err := h.registryService.Lookup(c.Request.Context(), plateQuery)
	if err != nil {
		h.handleError(c, err)
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, errorResponse("plate not registered"))
		return
	}

	c.JSON(http.StatusOK, successResponse(record))
}

func (h *Handler) deletePlate(c *gin.Context) {
	if err := h.registryService.DeletePlate(c.Request.Context(), c.Param("plate")); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) importPlates(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to open uploaded file"))
		return
	}
	defer file.Close()

	report, err := h.importService.Import(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.log.Info().
		Str("file", fileHeader.Filename).
		Int("success", report.Success).
		Int("failed", report.Failed).
		Msg("import request completed")

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) recognize(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("image is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to open uploaded image"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("failed to read uploaded image"))
		return
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, errorResponse("uploaded file is not an image"))
		return
	}

	// Tesseract wants a file path.
	tmpFile, err := os.CreateTemp("", "recognition-*.img")
	if err != nil {
		h.log.Error().Err(err).Msg("failed to create temp image")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		h.log.Error().Err(err).Msg("failed to write temp image")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
		return
	}
	tmpFile.Close()

	var snapshotURL *string
	if h.snapshots != nil {
		url, err := h.snapshots.UploadSnapshot(c.Request.Context(), bytes.NewReader(data), int64(len(data)), contentType)
		if err != nil {
			h.log.Warn().Err(err).Msg("snapshot upload failed, continuing without it")
		} else {
			snapshotURL = &url
		}
	}

	result, event, err := h.recognitionService.RecognizeAndResolve(c.Request.Context(), tmpPath, snapshotURL)
	if err != nil {
		h.log.Error().Err(err).Msg("recognition failed")
		c.JSON(http.StatusInternalServerError, errorResponse("recognition failed"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event_id": event.ID,
		"result":   result,
	})
}

func (h *Handler) listRecognitions(c *gin.Context) {
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	offset := 0
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	events, err := h.recognitionService.RecentEvents(c.Request.Context(), limit, offset)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(events))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case errors.Is(err, service.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case errors.Is(err, service.ErrMissingColumns), errors.Is(err, service.ErrUndecodable):
		c.JSON(http.StatusUnprocessableEntity, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func successResponse(data interface{}) gin.H {
	return gin.H{
		"data": data,
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"error": message,
	}
}
