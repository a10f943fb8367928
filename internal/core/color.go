package core

// Color is a foreground color for a screen cell. Terminal renderers map it to
// ANSI 256-color codes; image renderers use RGB.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightCyan
	ColorOrange
	ColorGray
)

var rgb = map[Color][3]uint8{
	ColorDefault:      {220, 220, 220},
	ColorRed:          {205, 49, 49},
	ColorGreen:        {13, 188, 121},
	ColorYellow:       {229, 229, 16},
	ColorBlue:         {36, 114, 200},
	ColorMagenta:      {188, 63, 188},
	ColorCyan:         {17, 168, 205},
	ColorWhite:        {229, 229, 229},
	ColorBrightRed:    {241, 76, 76},
	ColorBrightGreen:  {35, 209, 139},
	ColorBrightYellow: {245, 245, 67},
	ColorBrightCyan:   {41, 184, 219},
	ColorOrange:       {255, 135, 0},
	ColorGray:         {138, 138, 138},
}

// RGB returns the color as 0..1 float components.
func (c Color) RGB() (r, g, b float64) {
	v, ok := rgb[c]
	if !ok {
		v = rgb[ColorDefault]
	}
	return float64(v[0]) / 255, float64(v[1]) / 255, float64(v[2]) / 255
}
