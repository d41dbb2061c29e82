package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleValid(t *testing.T) {
	for _, s := range Styles() {
		assert.True(t, s.Valid(), "%s", s)
	}
	assert.False(t, Style("sparkles").Valid())
	assert.False(t, Style("").Valid())
}

func TestDefaultColors(t *testing.T) {
	seen := map[color.RGBA]bool{}
	for _, s := range Styles() {
		c := s.DefaultColor()
		assert.NotEqual(t, color.RGBA{}, c, "%s has a color", s)
		seen[c] = true
	}
	assert.GreaterOrEqual(t, len(seen), 4, "styles are visually distinct")
}
