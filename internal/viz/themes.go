package viz

import "github.com/charmbracelet/lipgloss"

// Theme colours the viewer. Cloth is the spring colour; Pinned, Grabbed
// and Cursor mark single cells on top of it.
type Theme struct {
	Name    string
	Cloth   lipgloss.Color
	Pinned  lipgloss.Color
	Grabbed lipgloss.Color
	Cursor  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
	Error   lipgloss.Color
}

var (
	ThemeLinen = Theme{
		Name:    "linen",
		Cloth:   lipgloss.Color("#e8e4d8"),
		Pinned:  lipgloss.Color("#ff4444"),
		Grabbed: lipgloss.Color("#ffd700"),
		Cursor:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#ff00ff"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Cloth:   lipgloss.Color("#00ff00"), // Green phosphor
		Pinned:  lipgloss.Color("#88ff88"),
		Grabbed: lipgloss.Color("#ffff00"),
		Cursor:  lipgloss.Color("#00cc00"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Accent:  lipgloss.Color("#88ff88"),
		Error:   lipgloss.Color("#ff0000"),
	}

	ThemeOcean = Theme{
		Name:    "ocean",
		Cloth:   lipgloss.Color("#00a8cc"),
		Pinned:  lipgloss.Color("#ffd700"),
		Grabbed: lipgloss.Color("#ff4444"),
		Cursor:  lipgloss.Color("#e0f0ff"),
		Text:    lipgloss.Color("#e0f0ff"),
		Muted:   lipgloss.Color("#4488aa"),
		Accent:  lipgloss.Color("#00ff88"),
		Error:   lipgloss.Color("#ff4444"),
	}

	Themes = []Theme{ThemeLinen, ThemeRetroGreen, ThemeOcean}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeLinen
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
