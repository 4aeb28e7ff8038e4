package api

// RecipeInfoRequest looks up recipes by exact name. Only a missing
// recipe_name is rejected; "" is a valid name that matches nothing.
type RecipeInfoRequest struct {
	RecipeName *string `json:"recipe_name" binding:"required"`
	Limit      *int   `json:"limit" binding:"omitempty,min=1,max=100"`
}

// RecommendationRequest identifies the user to recommend recipes for
type RecommendationRequest struct {
	UserID *int64 `json:"user_id" binding:"required"`
}

// RecommendationResponse carries the model's reply under "user_id", the key
// existing clients read it from. Foods is set only for structured requests.
type RecommendationResponse struct {
	UserID string   `json:"user_id"`
	Foods  []string `json:"foods,omitempty"`
}

// AnalysisResponse carries the vision model's reply
type AnalysisResponse struct {
	Response string `json:"response"`
}
