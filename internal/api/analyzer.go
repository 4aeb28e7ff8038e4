package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodwise/backend/internal/service"
)

// MaxUploadBytes bounds the size of an analyzed image
const MaxUploadBytes = 20 << 20

// FoodAnalyzerHandler serves dietary analysis of uploaded food photos
type FoodAnalyzerHandler struct {
	profiles service.IProfileStore
	analyzer service.IFoodAnalyzer
	timeout  time.Duration
}

// NewFoodAnalyzerHandler creates a new FoodAnalyzerHandler instance
func NewFoodAnalyzerHandler(profiles service.IProfileStore, analyzer service.IFoodAnalyzer, timeout time.Duration) *FoodAnalyzerHandler {
	return &FoodAnalyzerHandler{
		profiles: profiles,
		analyzer: analyzer,
		timeout:  timeout,
	}
}

// RegisterRoutes registers the analyzer routes
func (h *FoodAnalyzerHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/food_analyzer/inference", h.Analyze)
}

// Analyze checks a multipart upload (file, user_id) against the user's
// exclusion list and returns the model's reply.
func (h *FoodAnalyzerHandler) Analyze(c *gin.Context) {
	userID, err := strconv.ParseInt(c.PostForm("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer form field"})
		return
	}

	profile, err := h.profiles.GetProfile(userID)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if header.Size > MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("file exceeds %d bytes", MaxUploadBytes)})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	dataURL, err := service.EncodeDataURL(data, header.Header.Get("Content-Type"))
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := upstreamContext(c, h.timeout)
	defer cancel()

	reply, err := h.analyzer.Analyze(ctx, dataURL, profile.CannotEat)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, AnalysisResponse{Response: reply})
}
