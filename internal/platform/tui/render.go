package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/zengine/internal/core"
)

// inkStyles maps screen inks to lipgloss styles.
var inkStyles = map[core.Ink]lipgloss.Style{
	core.InkDefault: lipgloss.NewStyle(),
	core.InkRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.InkGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.InkYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.InkBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.InkMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.InkCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.InkWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.InkGray:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Adjacent cells with the same ink share one escape sequence.
func RenderScreen(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			ink := s.GetCell(x, y).Ink

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if cell.Ink != ink {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := inkStyles[ink]
			if !ok {
				style = inkStyles[core.InkDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}
