package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tileLines is the rendered height of one tile: two lines of text plus the border
const tileLines = 4

// TileRenderer handles rendering of the catalog grid
type TileRenderer struct {
	styles *Styles
}

// NewTileRenderer creates a new tile renderer
func NewTileRenderer(styles *Styles) *TileRenderer {
	return &TileRenderer{styles: styles}
}

// RenderGrid lays tiles out in rows of columns, scrolled so that the focused
// tile stays in view
func (tr *TileRenderer) RenderGrid(tiles []Tile, columns, width, height int) string {
	if columns < 1 {
		columns = 1
	}
	inner := width/columns - 2
	if inner < 8 {
		inner = 8
	}

	var rows []string
	focusedRow := 0
	for start := 0; start < len(tiles); start += columns {
		end := start + columns
		if end > len(tiles) {
			end = len(tiles)
		}
		cells := make([]string, 0, end-start)
		for _, t := range tiles[start:end] {
			if t.Focused {
				focusedRow = len(rows)
			}
			cells = append(cells, tr.RenderTile(t, inner))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	visible := height / tileLines
	if visible < 1 {
		visible = 1
	}
	if len(rows) <= visible {
		return lipgloss.JoinVertical(lipgloss.Left, rows...)
	}

	// reserve room for the scroll indicators
	if visible > 2 {
		visible--
	}
	first := 0
	if focusedRow >= visible {
		first = focusedRow - visible + 1
	}
	last := first + visible
	if last > len(rows) {
		last = len(rows)
	}

	var b strings.Builder
	if first > 0 {
		b.WriteString(tr.styles.Scroll.Render("↑ (more above)"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, rows[first:last]...))
	if last < len(rows) {
		b.WriteString("\n")
		b.WriteString(tr.styles.Scroll.Render("↓ (more below)"))
	}
	return b.String()
}

// RenderTile renders a single tile with the given inner width
func (tr *TileRenderer) RenderTile(t Tile, inner int) string {
	style := tr.styles.Tile
	if t.Focused {
		style = tr.styles.TileFocused
	}
	text := inner - 2 // horizontal padding
	name := tr.styles.TileName.Render(truncate(t.Name, text))
	meta := tr.styles.TileMeta.Render(truncate(t.Meta, text))
	return style.Width(inner).Render(name + "\n" + meta)
}

// truncate shortens s to at most n cells, marking the cut with an ellipsis
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= n {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+1 > n {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
