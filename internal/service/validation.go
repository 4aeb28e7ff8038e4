package service

import (
	"errors"
	"strings"
)

// ErrMalformedModelOutput means a model reply had no parseable food list
var ErrMalformedModelOutput = errors.New("model output does not contain a food list")

// ParseFoodList extracts names from the first [a, b, ...] block of a model
// reply. Quotes and surrounding whitespace are stripped and empty items are
// dropped; a reply with no block or no names is ErrMalformedModelOutput.
func ParseFoodList(text string) ([]string, error) {
	start := strings.IndexByte(text, '[')
	if start < 0 {
		return nil, ErrMalformedModelOutput
	}
	end := strings.IndexByte(text[start:], ']')
	if end < 0 {
		return nil, ErrMalformedModelOutput
	}

	var foods []string
	for _, item := range strings.Split(text[start+1:start+end], ",") {
		item = strings.Trim(strings.TrimSpace(item), `"'`)
		item = strings.TrimSpace(item)
		if item != "" {
			foods = append(foods, item)
		}
	}
	if len(foods) == 0 {
		return nil, ErrMalformedModelOutput
	}
	return foods, nil
}
