package core

// Color is a foreground color for a screen cell. The platform maps each
// value to an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorPurple
	ColorOrange
	ColorYellow
	ColorCyan
	ColorWhite
	ColorGray
	ColorBrightWhite
)

var colorNames = [...]string{
	ColorDefault:     "default",
	ColorRed:         "red",
	ColorGreen:       "green",
	ColorBlue:        "blue",
	ColorPurple:      "purple",
	ColorOrange:      "orange",
	ColorYellow:      "yellow",
	ColorCyan:        "cyan",
	ColorWhite:       "white",
	ColorGray:        "gray",
	ColorBrightWhite: "bright-white",
}

// String returns the lowercase color name.
func (c Color) String() string {
	if int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "unknown"
}
