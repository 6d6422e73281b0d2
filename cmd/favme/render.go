package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nikbrunner/favme/internal/model"
)

var (
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
)

// themeAccents maps color themes to 256-color accents.
var themeAccents = map[string]lipgloss.Color{
	"blue":      lipgloss.Color("33"),
	"green":     lipgloss.Color("35"),
	"dark-blue": lipgloss.Color("25"),
}

func accentStyle(settings model.Settings) lipgloss.Style {
	accent, ok := themeAccents[settings.ColorTheme]
	if !ok {
		accent = themeAccents[model.DefaultColorTheme]
	}
	return lipgloss.NewStyle().Foreground(accent).Bold(true)
}

func sectionTitle(kind model.Kind) string {
	if kind == model.KindFolder {
		return "Folders"
	}
	return "Websites"
}

// renderList prints each requested collection sorted by name. When icons is
// non-nil, websites whose URL resolved to a favicon are marked.
func renderList(fav *model.Favorites, settings model.Settings, kinds []model.Kind, icons map[string]bool) string {
	accent := accentStyle(settings)
	var b strings.Builder

	for i, kind := range kinds {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(accent.Render(sectionTitle(kind)))
		b.WriteString("\n")

		entries := fav.Entries(kind)
		if len(entries) == 0 {
			b.WriteString("  " + emptyStyle.Render("(none)") + "\n")
			continue
		}

		width := 0
		for _, e := range entries {
			width = max(width, lipgloss.Width(e.Name))
		}

		for _, e := range entries {
			marker := " "
			if icons != nil && kind == model.KindWebsite && icons[e.Value] {
				marker = accent.Render("●")
			}
			padded := e.Name + strings.Repeat(" ", width-lipgloss.Width(e.Name))
			fmt.Fprintf(&b, "%s %s  %s\n", marker, nameStyle.Render(padded), valueStyle.Render(e.Value))
		}
	}

	return b.String()
}

func renderSettings(settings model.Settings) string {
	accent := accentStyle(settings)
	return fmt.Sprintf("%s %s\n%s %s\n",
		accent.Render("appearance_mode:"), nameStyle.Render(settings.AppearanceMode),
		accent.Render("color_theme:    "), nameStyle.Render(settings.ColorTheme),
	)
}
