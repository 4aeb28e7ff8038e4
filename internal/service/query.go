package service

import "strings"

// reviewQueryPrefix starts every review-oriented query, even an empty one
const reviewQueryPrefix = "Food with "

// IngredientQuery joins food preferences into an ingredient-style query
func IngredientQuery(items []string) string {
	return strings.Join(items, ", ")
}

// ReviewQuery phrases food preferences the way synthetic reviews describe
// dishes. An empty list yields the bare prefix.
func ReviewQuery(items []string) string {
	return reviewQueryPrefix + strings.Join(items, " or ")
}
