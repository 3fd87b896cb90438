// Package prefs stores per-user UI preferences: theme and accent color.
package prefs

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound means the user has never saved preferences.
var ErrNotFound = errors.New("preferences not found")

// Themes the frontend knows how to render.
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
	ThemeSunset = "sunset"
	ThemeLagoon = "lagoon"
)

// Preference is one user's saved settings.
type Preference struct {
	OwnerID     string    `json:"-"`
	Theme       string    `json:"theme"`
	AccentColor *string   `json:"accent_color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PreferenceInput carries a caller-supplied update.
type PreferenceInput struct {
	Theme       string
	AccentColor *string
}

// Store persists preferences, one row per owner.
type Store interface {
	Get(ctx context.Context, ownerID string) (Preference, error)
	Upsert(ctx context.Context, p Preference) (Preference, error)
}

// Service applies normalization on top of a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Get returns the owner's saved preferences, or ErrNotFound when nothing
// was ever saved.
func (s *Service) Get(ctx context.Context, ownerID string) (Preference, error) {
	return s.store.Get(ctx, ownerID)
}

// Save upserts the owner's preferences. The accent color is normalized to
// lowercase #rrggbb form before storing.
func (s *Service) Save(ctx context.Context, ownerID string, in PreferenceInput) (Preference, error) {
	theme := in.Theme
	if theme == "" {
		theme = ThemeSystem
	}
	now := time.Now().UTC()
	return s.store.Upsert(ctx, Preference{
		OwnerID:     ownerID,
		Theme:       theme,
		AccentColor: NormalizeAccent(in.AccentColor),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

// NormalizeAccent canonicalizes an already validated accent color: "#F0A"
// becomes "#ff00aa". Blank input clears the stored color.
func NormalizeAccent(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	if s == "" {
		return nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		var b strings.Builder
		for _, c := range hex {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		hex = b.String()
	}
	out := "#" + strings.ToLower(hex)
	return &out
}
