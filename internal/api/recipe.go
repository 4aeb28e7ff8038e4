package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodwise/backend/internal/service"
)

// DefaultRecipeInfoLimit caps /recipe_info results when the request sets no limit
const DefaultRecipeInfoLimit = 3

// RecipeHandler serves exact-name recipe lookups
type RecipeHandler struct {
	recipes service.IRecipeService
	timeout time.Duration
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(recipes service.IRecipeService, timeout time.Duration) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, timeout: timeout}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/recipe_info", h.RecipeInfo)
}

// RecipeInfo returns recipes whose name equals recipe_name exactly. No match
// is an empty list, not an error.
func (h *RecipeHandler) RecipeInfo(c *gin.Context) {
	var req RecipeInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	limit := DefaultRecipeInfoLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	ctx, cancel := upstreamContext(c, h.timeout)
	defer cancel()

	recipes, err := h.recipes.FindByName(ctx, *req.RecipeName, limit)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}
