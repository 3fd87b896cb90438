package prefs

import (
	"context"
	"errors"
	"testing"
)

func strPtr(s string) *string { return &s }

func TestNormalizeAccent(t *testing.T) {
	cases := []struct {
		name string
		in   *string
		want *string
	}{
		{"nil", nil, nil},
		{"blank", strPtr("   "), nil},
		{"short hex expands", strPtr("#F0A"), strPtr("#ff00aa")},
		{"long hex lowercased", strPtr("#AABBCC"), strPtr("#aabbcc")},
		{"missing hash restored", strPtr("ff8800"), strPtr("#ff8800")},
		{"already canonical", strPtr("#ff8800"), strPtr("#ff8800")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeAccent(tc.in)
			switch {
			case tc.want == nil && got != nil:
				t.Fatalf("got %q, want nil", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Fatalf("got %v, want %q", got, *tc.want)
			}
		})
	}
}

func TestSaveAndGet(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Get(ctx, "user-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("fresh get: err = %v, want ErrNotFound", err)
	}

	p, err := svc.Save(ctx, "user-1", PreferenceInput{Theme: ThemeSunset, AccentColor: strPtr("#F0A")})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if p.Theme != ThemeSunset {
		t.Errorf("theme = %q", p.Theme)
	}
	if p.AccentColor == nil || *p.AccentColor != "#ff00aa" {
		t.Errorf("accent = %v", p.AccentColor)
	}

	got, err := svc.Get(ctx, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Theme != ThemeSunset {
		t.Errorf("persisted theme = %q", got.Theme)
	}

	// other users do not see it
	if _, err := svc.Get(ctx, "user-2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("other user: err = %v, want ErrNotFound", err)
	}
}

func TestSaveDefaultsThemeAndClearsAccent(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	if _, err := svc.Save(ctx, "u", PreferenceInput{Theme: ThemeDark, AccentColor: strPtr("#112233")}); err != nil {
		t.Fatal(err)
	}
	p, err := svc.Save(ctx, "u", PreferenceInput{})
	if err != nil {
		t.Fatal(err)
	}
	if p.Theme != ThemeSystem {
		t.Errorf("theme = %q, want system default", p.Theme)
	}
	if p.AccentColor != nil {
		t.Errorf("accent = %v, want cleared", *p.AccentColor)
	}
}

func TestUpsertKeepsCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	first, err := svc.Save(ctx, "u", PreferenceInput{Theme: ThemeLight})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Save(ctx, "u", PreferenceInput{Theme: ThemeLagoon})
	if err != nil {
		t.Fatal(err)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("created_at changed on upsert: %v -> %v", first.CreatedAt, second.CreatedAt)
	}
	if second.Theme != ThemeLagoon {
		t.Errorf("theme = %q", second.Theme)
	}
}
