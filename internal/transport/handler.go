package transport

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-tracefinder/internal/classifier"
	"go-tracefinder/internal/comparator"
	"go-tracefinder/internal/config"
	apperrors "go-tracefinder/internal/errors"
	"go-tracefinder/internal/logger"
	"go-tracefinder/internal/storage"
	"go-tracefinder/internal/tampering"
	"go-tracefinder/pkg/models"
	"go-tracefinder/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// URLAnalysisRequest is the body of /api/analyze-url.
type URLAnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// AnalysisRequest is the body of /api/analyze. The path references a
// file previously stored by /api/upload.
type AnalysisRequest struct {
	ImagePath string `json:"image_path" binding:"required"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// UploadResponse carries the identification result for a stored upload.
type UploadResponse struct {
	Success   bool                           `json:"success"`
	Results   *models.ClassificationResponse `json:"results"`
	Filename  string                         `json:"filename"`
	Filepath  string                         `json:"filepath"`
	Timestamp string                         `json:"timestamp"`
}

// Handler bundles the analysis engines behind the HTTP surface.
type Handler struct {
	detector     *classifier.Detector
	comparator   *comparator.Comparator
	tampering    *tampering.Detector
	fetcher      storage.ImageFetcher
	urlValidator *validation.URLValidator
	cfg          *config.Config
}

// NewHandler builds the gin router for the analysis API.
func NewHandler(
	detector *classifier.Detector,
	cmp *comparator.Comparator,
	tamper *tampering.Detector,
	fetcher storage.ImageFetcher,
	cfg *config.Config,
) http.Handler {
	h := &Handler{
		detector:     detector,
		comparator:   cmp,
		tampering:    tamper,
		fetcher:      fetcher,
		urlValidator: validation.NewURLValidator(),
		cfg:          cfg,
	}

	r := gin.Default()
	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)

	api := r.Group("/api")
	api.POST("/upload", h.uploadImage)
	api.POST("/analyze", h.analyzeImage)
	api.POST("/analyze-url", h.analyzeImageURL)
	api.POST("/compare", h.compareImages)
	api.POST("/tampering", h.detectTampering)

	return r
}

// uploadImage stores an image in the upload directory and runs scanner
// identification on it. The stored file stays available for a later
// /api/analyze deep pass.
func (h *Handler) uploadImage(c *gin.Context) {
	start := time.Now()

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing file field", err)
		return
	}
	if err := validation.ValidateUploadName(file.Filename); err != nil {
		respondError(c, http.StatusBadRequest, "unsupported file type", err)
		return
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("%s_%s", timestamp, filepath.Base(file.Filename))
	dest := filepath.Join(h.cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, dest); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to store upload", err)
		return
	}

	result := h.detector.Analyze(dest)

	logger.WithFields(logrus.Fields{
		"filename":           file.Filename,
		"stored":             dest,
		"size":               file.Size,
		"success":            result.Success,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"ip":                 c.ClientIP(),
	}).Info("Upload analyzed")

	c.JSON(http.StatusOK, UploadResponse{
		Success:   true,
		Results:   result,
		Filename:  name,
		Filepath:  dest,
		Timestamp: timestamp,
	})
}

// analyzeImage runs the deep forensic profile over a previously
// uploaded image.
func (h *Handler) analyzeImage(c *gin.Context) {
	start := time.Now()

	var req AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	path, err := h.resolveUploadPath(req.ImagePath)
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid image path", err)
		return
	}

	result := h.detector.FullAnalysis(path)

	logger.WithFields(logrus.Fields{
		"path":               path,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"ip":                 c.ClientIP(),
	}).Info("Full analysis completed")

	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": result})
}

// resolveUploadPath confines image_path references to the upload
// directory. Relative paths are taken as names inside it.
func (h *Handler) resolveUploadPath(p string) (string, error) {
	if p == "" {
		return "", apperrors.NewValidationError("image path is empty", nil)
	}
	path := p
	if !filepath.IsAbs(path) {
		path = filepath.Join(h.cfg.UploadDir, path)
	}
	path = filepath.Clean(path)
	dir := filepath.Clean(h.cfg.UploadDir)
	if !strings.HasPrefix(path, dir+string(filepath.Separator)) {
		return "", apperrors.NewValidationError("image path escapes the upload directory", nil)
	}
	if _, err := os.Stat(path); err != nil {
		return "", apperrors.NewNotFoundError("image not found", err)
	}
	return path, nil
}

// analyzeImageURL fetches a remote image and runs scanner identification
// on it.
func (h *Handler) analyzeImageURL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
	defer cancel()

	var req URLAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}
	if err := h.urlValidator.ValidateImageURL(req.URL); err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid image URL", err)
		return
	}

	img, err := h.fetcher.FetchImage(ctx, req.URL)
	if err != nil {
		var fetchErr *apperrors.AppError
		if errors.Is(err, context.DeadlineExceeded) {
			fetchErr = apperrors.NewTimeoutError("Image fetch timeout", err)
		} else {
			fetchErr = apperrors.NewNetworkError("Failed to fetch image", err)
		}
		logger.WithError(fetchErr).WithFields(logrus.Fields{
			"url": req.URL,
			"ip":  c.ClientIP(),
		}).Error("Failed to fetch image")
		respondError(c, fetchErr.StatusCode, "failed to fetch image", fetchErr)
		return
	}

	c.JSON(http.StatusOK, h.detector.AnalyzeImage(img))
}

// compareImages scores whether two uploads came from the same scanner.
func (h *Handler) compareImages(c *gin.Context) {
	pathA, cleanupA, err := h.receiveUpload(c, "image1")
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid first upload", err)
		return
	}
	defer cleanupA()

	pathB, cleanupB, err := h.receiveUpload(c, "image2")
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid second upload", err)
		return
	}
	defer cleanupB()

	c.JSON(http.StatusOK, h.comparator.Compare(pathA, pathB))
}

// detectTampering runs the manipulation analysis over one upload.
func (h *Handler) detectTampering(c *gin.Context) {
	path, cleanup, err := h.receiveUpload(c, "file")
	if err != nil {
		respondError(c, apperrors.GetStatusCode(err), "invalid upload", err)
		return
	}
	defer cleanup()

	c.JSON(http.StatusOK, h.tampering.Analyze(path))
}

// receiveUpload saves one multipart file to a temporary location. The
// cleanup func removes it.
func (h *Handler) receiveUpload(c *gin.Context, field string) (string, func(), error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil, apperrors.NewValidationError(fmt.Sprintf("missing %s field", field), err)
	}
	if err := validation.ValidateUploadName(file.Filename); err != nil {
		return "", nil, err
	}
	return h.saveTemp(c, file)
}

func (h *Handler) saveTemp(c *gin.Context, file *multipart.FileHeader) (string, func(), error) {
	path := filepath.Join(os.TempDir(),
		fmt.Sprintf("tracefinder_%d_%s", time.Now().UnixNano(), filepath.Base(file.Filename)))
	if err := c.SaveUploadedFile(file, path); err != nil {
		return "", nil, apperrors.NewInternalError("failed to store upload", err)
	}
	cleanup := func() {
		if err := os.Remove(path); err != nil {
			logger.WithError(err).WithField("path", path).Warn("failed to remove temporary upload")
		}
	}
	return path, cleanup, nil
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

func determineStatusCode(err error) int {
	if appErr, ok := err.(*apperrors.AppError); ok {
		return appErr.StatusCode
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
