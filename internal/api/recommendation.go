package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodwise/backend/internal/service"
)

// RecommendationHandler serves personalized recipe recommendations
type RecommendationHandler struct {
	profiles    service.IProfileStore
	recommender service.IRecommender
	timeout     time.Duration
}

// NewRecommendationHandler creates a new RecommendationHandler instance
func NewRecommendationHandler(profiles service.IProfileStore, recommender service.IRecommender, timeout time.Duration) *RecommendationHandler {
	return &RecommendationHandler{
		profiles:    profiles,
		recommender: recommender,
		timeout:     timeout,
	}
}

// RegisterRoutes registers the recommendation routes
func (h *RecommendationHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/recipe/recommendation", h.Recommend)
}

// Recommend returns the model's recommendation text for a known user. With
// ?structured=true the food names are also parsed out, and a reply without a
// food list is reported as 502.
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req RecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.GetProfile(*req.UserID)
	if err != nil {
		respondProfileError(c, err)
		return
	}

	ctx, cancel := upstreamContext(c, h.timeout)
	defer cancel()

	reply, err := h.recommender.Recommend(ctx, profile)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	resp := RecommendationResponse{UserID: reply}
	if c.Query("structured") == "true" {
		foods, err := service.ParseFoodList(reply)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "user_id": reply})
			return
		}
		resp.Foods = foods
	}

	c.JSON(http.StatusOK, resp)
}
