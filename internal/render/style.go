package render

import "image/color"

// Style identifies a marker style drawn over a tracked subject.
type Style string

const (
	// StyleArrow draws a glowing downward arrow above the subject's head.
	StyleArrow Style = "arrow"

	// StyleEllipse draws a flattened floor ellipse at the subject's feet.
	StyleEllipse Style = "ellipse"

	// StyleRectangle draws a plain bounding rectangle.
	StyleRectangle Style = "rectangle"

	// StyleSpotlight draws a light cone onto the floor around the subject.
	StyleSpotlight Style = "spotlight"

	// StyleOutline draws a thin box with emphasized corner ticks.
	StyleOutline Style = "outline"

	// StyleCrosshair draws a scope-style crosshair centered on the subject.
	StyleCrosshair Style = "crosshair"
)

// Styles returns all supported marker styles.
func Styles() []Style {
	return []Style{
		StyleArrow,
		StyleEllipse,
		StyleRectangle,
		StyleSpotlight,
		StyleOutline,
		StyleCrosshair,
	}
}

func (s Style) String() string {
	return string(s)
}

// Valid reports whether s names a supported style.
func (s Style) Valid() bool {
	switch s {
	case StyleArrow, StyleEllipse, StyleRectangle, StyleSpotlight, StyleOutline, StyleCrosshair:
		return true
	default:
		return false
	}
}

// DefaultColor returns the broadcast color associated with a style.
func (s Style) DefaultColor() color.RGBA {
	switch s {
	case StyleArrow, StyleEllipse:
		return color.RGBA{R: 255, G: 220, B: 0, A: 255} // broadcast yellow
	case StyleRectangle:
		return color.RGBA{R: 0, G: 100, B: 255, A: 255}
	case StyleSpotlight:
		return color.RGBA{R: 255, G: 200, B: 0, A: 255}
	case StyleOutline:
		return color.RGBA{R: 255, G: 0, B: 255, A: 255}
	case StyleCrosshair:
		return color.RGBA{R: 0, G: 255, B: 255, A: 255}
	default:
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
}
