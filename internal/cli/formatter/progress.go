package formatter

import (
	"fmt"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

func clampFraction(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func progressStyleFor(pct float64) func(...string) string {
	switch {
	case pct >= 1:
		return StyleGreen.Render
	case pct < 0.33:
		return StyleRed.Render
	case pct < 0.66:
		return StyleYellow.Render
	default:
		return StyleAqua.Render
	}
}

func bar(pct float64, width int) (filled, empty string) {
	if width < 2 {
		width = 2
	}
	n := int(pct * float64(width))
	if n > width {
		n = width
	}
	return strings.Repeat(filledBlock, n), strings.Repeat(emptyBlock, width-n)
}

// RenderProgress renders a progress bar like [████░░░░]  45% for a fraction
// in [0, 1]. The bar is red below a third, yellow below two thirds, and
// green once full.
func RenderProgress(pct float64, width int) string {
	pct = clampFraction(pct)
	filled, empty := bar(pct, width)
	render := progressStyleFor(pct)
	return fmt.Sprintf("[%s] %3.0f%%", render(filled+empty), pct*100)
}

// RenderPercent is RenderProgress for a whole-number percentage.
func RenderPercent(pct int, width int) string {
	return RenderProgress(float64(pct)/100, width)
}

// RenderCompactBar renders just the blocks, with no brackets or label.
// Dimmed bars are used for stages that have not started.
func RenderCompactBar(pct float64, width int, dim bool) string {
	pct = clampFraction(pct)
	filled, empty := bar(pct, width)
	if dim {
		return StyleDim.Render(filled + empty)
	}
	return progressStyleFor(pct)(filled) + StyleDim.Render(empty)
}
