package models

import (
	"time"

	"github.com/google/uuid"
)

type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeWarm    Theme = "warm"
	ThemeFresh   Theme = "fresh"
	ThemeDark    Theme = "dark"
)

func (t Theme) Valid() bool {
	switch t {
	case ThemeDefault, ThemeWarm, ThemeFresh, ThemeDark:
		return true
	}
	return false
}

type Layout string

const (
	LayoutList    Layout = "list"
	LayoutMasonry Layout = "masonry"
)

func (l Layout) Valid() bool {
	return l == LayoutList || l == LayoutMasonry
}

// Preferences are per-user display settings. They have no effect on notes.
type Preferences struct {
	UserID    uuid.UUID `json:"user_id"`
	Theme     Theme     `json:"theme"`
	Layout    Layout    `json:"layout"`
	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultPreferences(userID uuid.UUID) Preferences {
	return Preferences{
		UserID: userID,
		Theme:  ThemeDefault,
		Layout: LayoutList,
	}
}
