package render

import (
	"testing"

	"github.com/vireo-tui/vireo/store"
	"github.com/vireo-tui/vireo/term"
)

func TestDegradeTrueColorPassesThrough(t *testing.T) {
	c := store.RGB(10, 20, 30)
	got := degrade(c, term.ProfileTrueColor)
	if got != c {
		t.Fatalf("expected truecolor passthrough, got %+v", got)
	}
}

func TestDegradeToANSI256ProducesPaletteIndex(t *testing.T) {
	got := degrade(store.RGB(255, 0, 0), term.ProfileANSI256)
	if got.Kind != store.ColorANSI256 {
		t.Fatalf("expected ANSI256 kind, got %v", got.Kind)
	}
}

func TestDegradeSentinelColorsPassThrough(t *testing.T) {
	got := degrade(store.DefaultColor(), term.ProfileANSI256)
	if got.Kind != store.ColorDefault {
		t.Fatalf("expected default sentinel to pass through unchanged, got %v", got.Kind)
	}
}
