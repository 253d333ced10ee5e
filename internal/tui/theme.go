package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the monitor.
type Theme struct {
	Name      string
	Primary   lipgloss.Color // title
	Secondary lipgloss.Color // border, labels
	Accent    lipgloss.Color // pressed-keys line
	Warning   lipgloss.Color // suppressed marker
	Text      lipgloss.Color // body text
	Dimmed    lipgloss.Color // up events, quit hint
}

var themes = map[string]Theme{
	"plain": {
		Name:      "Plain",
		Primary:   lipgloss.Color("15"),
		Secondary: lipgloss.Color("8"),
		Accent:    lipgloss.Color("14"),
		Warning:   lipgloss.Color("11"),
		Text:      lipgloss.Color("7"),
		Dimmed:    lipgloss.Color("8"),
	},
	"synthwave": {
		Name:      "Synthwave",
		Primary:   lipgloss.Color("#FF6AC1"),
		Secondary: lipgloss.Color("#00E5FF"),
		Accent:    lipgloss.Color("#64FFDA"),
		Warning:   lipgloss.Color("#FFAB40"),
		Text:      lipgloss.Color("#E0E0E0"),
		Dimmed:    lipgloss.Color("#666666"),
	},
	"gruvbox": {
		Name:      "Gruvbox",
		Primary:   lipgloss.Color("#FB4934"),
		Secondary: lipgloss.Color("#83A598"),
		Accent:    lipgloss.Color("#B8BB26"),
		Warning:   lipgloss.Color("#FABD2F"),
		Text:      lipgloss.Color("#EBDBB2"),
		Dimmed:    lipgloss.Color("#928374"),
	},
}

// GetTheme returns the named theme, falling back to "plain".
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}
	return themes["plain"]
}
