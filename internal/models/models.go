package models

// CollectionColor is one entry of the fixed palette a collection can be
// painted with. The zero value means "no color".
type CollectionColor string

const (
	ColorRed     CollectionColor = "red"
	ColorOrange  CollectionColor = "orange"
	ColorAmber   CollectionColor = "amber"
	ColorEmerald CollectionColor = "emerald"
	ColorTeal    CollectionColor = "teal"
	ColorSky     CollectionColor = "sky"
	ColorIndigo  CollectionColor = "indigo"
	ColorViolet  CollectionColor = "violet"
	ColorFuchsia CollectionColor = "fuchsia"
	ColorPink    CollectionColor = "pink"
)

// Palette lists every color a client may submit.
var Palette = []CollectionColor{
	ColorRed, ColorOrange, ColorAmber, ColorEmerald, ColorTeal,
	ColorSky, ColorIndigo, ColorViolet, ColorFuchsia, ColorPink,
}

// Valid reports whether the color is part of the palette.
func (c CollectionColor) Valid() bool {
	for _, p := range Palette {
		if c == p {
			return true
		}
	}
	return false
}
