package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tile is one visible catalog entry
type Tile struct {
	ID      string
	Name    string
	Meta    string
	Focused bool
}

// Button is an actionable control inside the detail overlay
type Button struct {
	Label   string
	Focused bool
}

// Detail is the content of the open overlay
type Detail struct {
	Title   string
	Info    string
	Text    string
	Buttons []Button
}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width       int
	Height      int
	Columns     int
	Tiles       []Tile
	Total       int
	Detail      *Detail // nil while no overlay is open
	Mode        string
	Query       string
	Searching   bool
	SearchInput string
	Status      string
	StatusError bool
	HelpView    string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	tileRender  *TileRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		tileRender:  NewTileRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	width := state.Width
	if width <= 0 {
		width = 80
	}
	height := state.Height
	if height <= 0 {
		height = 24
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitleLine(state, width))
	content.WriteString("\n")

	if state.Searching {
		content.WriteString(state.SearchInput)
		content.WriteString("\n")
	}
	content.WriteString("\n")

	// header, spacer, status and help plus the container padding
	used := 6
	if state.Searching {
		used++
	}
	if len(state.Tiles) == 0 {
		if state.Query != "" {
			content.WriteString(r.styles.Dim.Render(fmt.Sprintf("Nothing matches %q.", state.Query)))
		} else {
			content.WriteString(r.styles.Dim.Render("The catalog is empty."))
		}
	} else {
		content.WriteString(r.tileRender.RenderGrid(state.Tiles, state.Columns, width-4, height-used))
	}

	// Push the status and help lines to the bottom
	lines := strings.Count(content.String(), "\n") + 1
	if pad := height - 2 - lines - 2; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(r.renderStatus(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Help.Render(state.HelpView))

	main := r.styles.Main.Render(content.String())
	if state.Detail != nil {
		return r.popupRender.RenderPopupOverlay(main, *state.Detail, height, width)
	}
	return main
}

func (r *Renderer) renderTitleLine(state ViewState, width int) string {
	logo := r.styles.Title.Render("tvnav")

	right := []string{}
	if state.Query != "" {
		right = append(right, r.styles.Filter.Render(fmt.Sprintf("[Search: %s]", state.Query)))
	}
	if state.Total > 0 {
		right = append(right, r.styles.Dim.Render(fmt.Sprintf("%d/%d", len(state.Tiles), state.Total)))
	}
	if state.Mode != "" {
		right = append(right, r.styles.Dim.Render(state.Mode))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	paddingWidth := width - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth < 2 {
		paddingWidth = 2
	}
	return logo + strings.Repeat(" ", paddingWidth) + rightContent
}

func (r *Renderer) renderStatus(state ViewState) string {
	switch {
	case state.Status == "":
		return ""
	case state.StatusError:
		return r.styles.StatusError.Render(state.Status)
	default:
		return r.styles.StatusSuccess.Render(state.Status)
	}
}
