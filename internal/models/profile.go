package models

import "errors"

// UserProfile is a user's dietary profile from the static user dataset
type UserProfile struct {
	UserID         int64    `json:"user_id"`
	CannotEat      []string `json:"cannot_eat"`
	FoodPreference []string `json:"food_preference"`
}

// UserEntry is one raw record of the user dataset. UserID is a pointer so a
// missing id can be told apart from 0.
type UserEntry struct {
	UserID         *int64   `json:"user_id"`
	CannotEat      []string `json:"cannot_eat"`
	FoodPreference []string `json:"food_preference"`
}

// Profile checks the entry and normalizes missing lists to empty ones. Any
// integer id is accepted, including 0 and negative ids.
func (e UserEntry) Profile() (UserProfile, error) {
	if e.UserID == nil {
		return UserProfile{}, errors.New("user_id is required")
	}
	p := UserProfile{
		UserID:         *e.UserID,
		CannotEat:      e.CannotEat,
		FoodPreference: e.FoodPreference,
	}
	if p.CannotEat == nil {
		p.CannotEat = []string{}
	}
	if p.FoodPreference == nil {
		p.FoodPreference = []string{}
	}
	return p, nil
}
