package views

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderDetail renders the overlay box on its own
func (pr *PopupRenderer) RenderDetail(d Detail, width int) string {
	var b strings.Builder
	b.WriteString(pr.styles.OverlayTitle.Render(d.Title))
	b.WriteString("\n")
	if d.Info != "" {
		b.WriteString(pr.styles.TileMeta.Render(d.Info))
		b.WriteString("\n")
	}
	if d.Text != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Width(width).Render(d.Text))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	buttons := make([]string, 0, len(d.Buttons))
	for _, btn := range d.Buttons {
		style := pr.styles.Button
		if btn.Focused {
			style = pr.styles.ButtonFocused
		}
		buttons = append(buttons, style.Render(btn.Label))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, buttons...))
	return pr.styles.Overlay.Render(b.String())
}

// RenderPopupOverlay renders the detail box centred on top of a dimmed copy
// of the main content
func (pr *PopupRenderer) RenderPopupOverlay(mainContent string, d Detail, height, width int) string {
	textWidth := width / 2
	if textWidth < 30 {
		textWidth = 30
	}
	popup := pr.RenderDetail(d, textWidth)

	modalW := lipgloss.Width(popup)
	modalH := lipgloss.Height(popup)
	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - modalH) / 2
	if y < 0 {
		y = 0
	}

	base := strings.Split(ansiRE.ReplaceAllString(mainContent, ""), "\n")
	for len(base) < height {
		base = append(base, "")
	}
	modal := strings.Split(popup, "\n")

	out := make([]string, len(base))
	for i, line := range base {
		if i < y || i >= y+len(modal) {
			out[i] = pr.styles.Backdrop.Render(line)
			continue
		}
		left, right := splitCells(line, x, modalW)
		out[i] = pr.styles.Backdrop.Render(left) + modal[i-y] + pr.styles.Backdrop.Render(right)
	}
	return strings.Join(out, "\n")
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// splitCells returns the plain text left of column x and right of x+w,
// padding the left part with spaces when the line is too short
func splitCells(line string, x, w int) (string, string) {
	var left, right strings.Builder
	col := 0
	for _, r := range line {
		cw := lipgloss.Width(string(r))
		switch {
		case col+cw <= x:
			left.WriteRune(r)
		case col >= x+w:
			right.WriteRune(r)
		}
		col += cw
	}
	if col < x {
		left.WriteString(strings.Repeat(" ", x-col))
	}
	return left.String(), right.String()
}
