package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/apack/pack/aplib"
	"github.com/apack/pack/internal/compare"
	"github.com/apack/pack/internal/config"
	"github.com/gin-gonic/gin"
)

// CompressRequest represents the compression request form
type CompressRequest struct {
	Safe bool `form:"safe"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CompareResponse lists the output size of every codec for one upload
type CompareResponse struct {
	Filename     string           `json:"filename"`
	OriginalSize int              `json:"original_size"`
	Results      []compare.Result `json:"results"`
}

// Handler serves the compression endpoints
type Handler struct {
	cfg *config.Config
}

// NewHandler returns a Handler using cfg for size limits and the match window
func NewHandler(cfg *config.Config) *Handler {
	return &Handler{cfg: cfg}
}

func abort(c *gin.Context, code int, err, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   err,
		Code:    code,
		Message: message,
	})
}

// readUpload returns the contents of the multipart "file" field
func (h *Handler) readUpload(c *gin.Context) (string, []byte, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		abort(c, http.StatusBadRequest, "File upload error", "No file provided or file upload failed")
		return "", nil, false
	}
	defer file.Close()

	if header.Size > h.cfg.MaxFileSize {
		abort(c, http.StatusRequestEntityTooLarge, "File too large", fmt.Sprintf("Maximum file size is %d bytes", h.cfg.MaxFileSize))
		return "", nil, false
	}

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxFileSize+1))
	if err != nil {
		abort(c, http.StatusInternalServerError, "File read error", "Failed to read uploaded file")
		return "", nil, false
	}
	if int64(len(data)) > h.cfg.MaxFileSize {
		abort(c, http.StatusRequestEntityTooLarge, "File too large", fmt.Sprintf("Maximum file size is %d bytes", h.cfg.MaxFileSize))
		return "", nil, false
	}
	return header.Filename, data, true
}

// HandleCompress compresses an uploaded file into a raw or AP32 aPLib stream
func (h *Handler) HandleCompress(c *gin.Context) {
	var req CompressRequest
	if err := c.ShouldBind(&req); err != nil {
		abort(c, http.StatusBadRequest, "Invalid request", err.Error())
		return
	}

	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}

	var packed []byte
	if len(data) > 0 || !req.Safe {
		var err error
		packed, err = aplib.CompressWindow(data, h.cfg.Window)
		if errors.Is(err, aplib.ErrEmptyInput) {
			abort(c, http.StatusBadRequest, "Empty file", "A raw aPLib stream cannot hold an empty file; use safe=true")
			return
		}
		if err != nil {
			abort(c, http.StatusInternalServerError, "Compression failed", err.Error())
			return
		}
	}
	if req.Safe {
		packed = aplib.WithHeader(packed, data)
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.ap", getBaseFilename(filename)))
	c.Header("X-Original-Size", strconv.Itoa(len(data)))
	c.Data(http.StatusOK, "application/octet-stream", packed)
}

// HandleCompare reports how the aPLib encoder fares against other codecs
func (h *Handler) HandleCompare(c *gin.Context) {
	filename, data, ok := h.readUpload(c)
	if !ok {
		return
	}
	if len(data) == 0 {
		abort(c, http.StatusBadRequest, "Empty file", "Nothing to compare")
		return
	}

	results, err := compare.Run(data)
	if err != nil {
		abort(c, http.StatusInternalServerError, "Comparison failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, CompareResponse{
		Filename:     filename,
		OriginalSize: len(data),
		Results:      results,
	})
}

// HandleInfo provides information about the service
func (h *Handler) HandleInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "aPLib compression service",
		"format":  "aPLib (raw, or AP32 with safe=true)",
		"compare": compare.Names(),
		"limits": gin.H{
			"max_file_size": h.cfg.MaxFileSize,
			"window":        h.cfg.Window,
		},
		"endpoints": gin.H{
			"compress": "POST /api/v1/compress - Upload file for compression",
			"compare":  "POST /api/v1/compare - Compare output sizes with other codecs",
			"info":     "GET /api/v1/info - Get service information",
			"health":   "GET /health - Health check",
		},
	})
}

// HandleHealth provides a simple health check endpoint
func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "apackd",
	})
}

func getBaseFilename(filename string) string {
	if filename == "" {
		return "file"
	}

	return strings.TrimSuffix(filename, path.Ext(filename))
}
