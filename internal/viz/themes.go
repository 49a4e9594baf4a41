package viz

// Theme is a named pair of phase colors.
type Theme struct {
	Name     string
	Positive uint32
	Negative uint32
}

// Available themes
var Themes = []Theme{
	{Name: "classic", Positive: 0xff0000, Negative: 0x00ff00}, // Red/green
	{Name: "ocean", Positive: 0x3399ff, Negative: 0xff9933},
	{Name: "neon", Positive: 0xff00ff, Negative: 0x00ffff},
	{Name: "ember", Positive: 0xffaa00, Negative: 0x8844ff},
	{Name: "mono", Positive: 0xffffff, Negative: 0x777777},
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func GetTheme(name string) (Theme, bool) {
	for _, t := range Themes {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}

// NextTheme returns the theme after the one matching the given colors, or
// the first theme when none matches.
func NextTheme(positive, negative uint32) Theme {
	for i, t := range Themes {
		if t.Positive == positive && t.Negative == negative {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
