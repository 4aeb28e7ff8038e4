package service

import (
	"context"
	"fmt"
)

const analyzerSystemPrompt = "You are a helpful assistant that have vast knowledge about food and culinary."

// FoodAnalyzer asks a vision model whether the food in a photo is safe for a user
type FoodAnalyzer struct {
	chat      ChatModel
	maxTokens int
}

// Ensure FoodAnalyzer implements IFoodAnalyzer
var _ IFoodAnalyzer = (*FoodAnalyzer)(nil)

// NewFoodAnalyzer creates a new FoodAnalyzer instance
func NewFoodAnalyzer(chat ChatModel, maxTokens int) *FoodAnalyzer {
	return &FoodAnalyzer{chat: chat, maxTokens: maxTokens}
}

// Analyze sends the image and the exclusion list in a single vision call and
// returns the model's reply unmodified.
func (a *FoodAnalyzer) Analyze(ctx context.Context, imageDataURL string, cannotEat []string) (string, error) {
	messages := conversation(analyzerSystemPrompt,
		textPart("I have this list of food that I cannot eat: "+formatFoodList(cannotEat)),
		imagePart(imageDataURL),
		textPart("Could you please analyze the image if I can eat that food in the image or not? Please provide me maximum 4 sentences for the answer."),
	)

	reply, err := generateText(ctx, a.chat, messages, a.maxTokens)
	if err != nil {
		return "", fmt.Errorf("food analysis model call failed: %w", err)
	}
	return reply, nil
}
