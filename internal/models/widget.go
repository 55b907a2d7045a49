package models

import "time"

// WidgetWishes enumerates the allowed values for a widget's wishes field.
var WidgetWishes = []string{"Weight", "Worth", "Walk", "Whole", "Whale", "Wallrus"}

type Widget struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"` // unique
	Description string     `json:"description"`
	Who         string     `json:"who"`
	What        string     `json:"what"`
	When        *time.Time `json:"when,omitempty"`
	Why         string     `json:"why"`
	Where       string     `json:"where"`
	Wishes      string     `json:"wishes"`
	UserID      string     `json:"user"` // owner
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ValidWish reports whether w is one of the allowed wishes values.
func ValidWish(w string) bool {
	for _, v := range WidgetWishes {
		if v == w {
			return true
		}
	}
	return false
}
