package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI and SVG output
type Theme struct {
	Name       string
	Title      lipgloss.Color
	Background lipgloss.Color
	Muted      lipgloss.Color
	Running    lipgloss.Color
	Paused     lipgloss.Color
	Particles  []lipgloss.Color
}

// Available themes
var (
	ThemeCyberpunk = Theme{
		Name:       "cyberpunk",
		Title:      lipgloss.Color("#00ffff"),
		Background: lipgloss.Color("#0a0a0a"),
		Muted:      lipgloss.Color("#666688"),
		Running:    lipgloss.Color("#00ff88"),
		Paused:     lipgloss.Color("#ffaa00"),
		Particles: []lipgloss.Color{
			"#ff00ff", "#00ffff", "#ffff00", "#00ff00", "#ff8800", "#8888ff",
		},
	}

	ThemeRetroGreen = Theme{
		Name:       "retro",
		Title:      lipgloss.Color("#00ff00"),
		Background: lipgloss.Color("#001100"),
		Muted:      lipgloss.Color("#005500"),
		Running:    lipgloss.Color("#88ff88"),
		Paused:     lipgloss.Color("#ffff00"),
		Particles: []lipgloss.Color{
			"#00ff00", "#88ff88", "#00cc00", "#ccffcc",
		},
	}

	ThemeOcean = Theme{
		Name:       "ocean",
		Title:      lipgloss.Color("#00a8cc"),
		Background: lipgloss.Color("#001a33"),
		Muted:      lipgloss.Color("#4488aa"),
		Running:    lipgloss.Color("#00ff88"),
		Paused:     lipgloss.Color("#ffcc00"),
		Particles: []lipgloss.Color{
			"#ffd700", "#0077be", "#e0f0ff", "#ff4444", "#00ff88",
		},
	}

	ThemeSunset = Theme{
		Name:       "sunset",
		Title:      lipgloss.Color("#ff6b6b"),
		Background: lipgloss.Color("#2d1b2e"),
		Muted:      lipgloss.Color("#8b6b8c"),
		Running:    lipgloss.Color("#5fd068"),
		Paused:     lipgloss.Color("#ffc048"),
		Particles: []lipgloss.Color{
			"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068", "#fff5f5",
		},
	}

	// All available themes
	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// ParticleColor cycles through the palette.
func (t Theme) ParticleColor(i int) lipgloss.Color {
	return t.Particles[i%len(t.Particles)]
}

func (t Theme) particleStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.ParticleColor(i))
}

func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
