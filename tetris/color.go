package tetris

import "math/rand/v2"

// Color of a cell. The zero value is an empty cell.
type Color uint8

const (
	Empty Color = iota
	Red
	Green
	Blue
	Yellow
	Magenta
	Cyan
	White
	// Preview is the background of the preview panel.
	Preview
)

var palette = [...]Color{Red, Green, Blue, Yellow, Magenta, Cyan, White}

var colorNames = [...]string{
	Empty:   "empty",
	Red:     "red",
	Green:   "green",
	Blue:    "blue",
	Yellow:  "yellow",
	Magenta: "magenta",
	Cyan:    "cyan",
	White:   "white",
	Preview: "preview",
}

// GenerateColor draws one of the palette colors uniformly.
func GenerateColor(rng *rand.Rand) Color {
	return palette[rng.IntN(len(palette))]
}

func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}

// IsEmpty reports whether the cell holds no block.
func (c Color) IsEmpty() bool { return c == Empty }
