package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the player
type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Playing lipgloss.Color
	Paused  lipgloss.Color
	Stopped lipgloss.Color
	Event   lipgloss.Color
}

var (
	ThemeNight = Theme{
		Name:    "night",
		Accent:  lipgloss.Color("#00ccff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Playing: lipgloss.Color("#00ff88"),
		Paused:  lipgloss.Color("#ffaa00"),
		Stopped: lipgloss.Color("#ff4444"),
		Event:   lipgloss.Color("#ff00ff"),
	}

	ThemeRetro = Theme{
		Name:    "retro",
		Accent:  lipgloss.Color("#00ff00"), // green phosphor
		Text:    lipgloss.Color("#88ff88"),
		Muted:   lipgloss.Color("#005500"),
		Playing: lipgloss.Color("#00ff00"),
		Paused:  lipgloss.Color("#ffff00"),
		Stopped: lipgloss.Color("#ff0000"),
		Event:   lipgloss.Color("#88ff88"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#cccccc"),
		Muted:   lipgloss.Color("#888888"),
		Playing: lipgloss.Color("#ffffff"),
		Paused:  lipgloss.Color("#aaaaaa"),
		Stopped: lipgloss.Color("#666666"),
		Event:   lipgloss.Color("#0088ff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Accent:  lipgloss.Color("#ff6b6b"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Playing: lipgloss.Color("#5fd068"),
		Paused:  lipgloss.Color("#ffc048"),
		Stopped: lipgloss.Color("#ff4757"),
		Event:   lipgloss.Color("#ff9ff3"),
	}

	Themes = []Theme{ThemeNight, ThemeRetro, ThemeMinimal, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to night.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNight
}

// NextTheme cycles through Themes.
func NextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
