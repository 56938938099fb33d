package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"

	"tvnav/internal/config"
)

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys config.Keys
}

// NewHelpRenderer creates a help renderer listing the configured remote keys
func NewHelpRenderer(keys config.Keys) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	line := func(keys, desc string) string {
		pad := 24 - lipgloss.Width(keys)
		if pad < 1 {
			pad = 1
		}
		return "  " + keyStyle.Render(keys) + strings.Repeat(" ", pad) + descStyle.Render(desc) + "\n"
	}

	var help strings.Builder

	help.WriteString(titleStyle.Render("tvnav Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Remote"))
	help.WriteString("\n")
	help.WriteString(line(keyNames(r.keys.Up), "Move up"))
	help.WriteString(line(keyNames(r.keys.Down), "Move down"))
	help.WriteString(line(keyNames(r.keys.Left), "Move left"))
	help.WriteString(line(keyNames(r.keys.Right), "Move right"))
	help.WriteString(line(keyNames(r.keys.Activate), "Open the highlighted title or press the highlighted button"))
	help.WriteString(line(keyNames(r.keys.Back), "Close the detail view, or leave when none is open"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Detail view"))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Focus stays inside the detail view until it is closed."))
	help.WriteString("\n")
	help.WriteString(descStyle.Render("  Closing returns the highlight to the title that opened it."))
	help.WriteString("\n\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(line("/", "Search titles by name, kind, year or genre"))
	help.WriteString(line("Enter", "Keep the search and return to the grid"))
	help.WriteString(line("Esc", "Leave the search box"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Browser"))
	help.WriteString("\n")
	help.WriteString(line("Alt+←, [", "Browser back (history pop)"))
	help.WriteString(line("b", "Remote back button signal"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(line("?", "Show this help"))
	help.WriteString(line("q, Ctrl+C", "Quit"))

	return help.String()
}

// keyNames formats a list of key values for display
func keyNames(keys []string) string {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			k = "Space"
		}
		names = append(names, k)
	}
	return strings.Join(names, ", ")
}

// HelpOps handles help operations
type HelpOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewHelpOps creates a new help operations instance
func NewHelpOps(program *tea.Program) *HelpOps {
	return &HelpOps{
		program: program,
	}
}

// SetProgram sets the program whose terminal is handed to the pager
func (h *HelpOps) SetProgram(p *tea.Program) {
	h.program = p
}

// ShowHelpInPager shows help content using ov pager
func (h *HelpOps) ShowHelpInPager(helpContent string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(helpContent))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	return root.Run()
}
