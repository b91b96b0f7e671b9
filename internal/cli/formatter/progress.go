package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45%. Below a third it is
// red, below two thirds yellow, otherwise green.
func RenderProgress(fraction float64, width int) string {
	return fmt.Sprintf("[%s] %3.0f%%", RenderCompactBar(fraction, width), clamp01(fraction)*100)
}

// RenderCompactBar is the bar alone, without brackets or percentage.
func RenderCompactBar(fraction float64, width int) string {
	fraction = clamp01(fraction)
	if width < 2 {
		width = 2
	}
	filled := int(fraction * float64(width))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	switch {
	case fraction < 0.33:
		return StyleRed.Render(bar)
	case fraction < 0.66:
		return StyleYellow.Render(bar)
	default:
		return StyleGreen.Render(bar)
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
