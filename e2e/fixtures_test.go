//go:build e2e && unix

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TestTitle is one catalog entry written to the workspace titles file
type TestTitle struct {
	ID, Name, Kind, Synopsis string
	Year                     int
}

// DefaultTitles is a small two-row catalog for a three-column grid
var DefaultTitles = []TestTitle{
	{ID: "alpha", Name: "Alpha Station", Kind: "series", Year: 2020, Synopsis: "Engineers keep a relay alive."},
	{ID: "bravo", Name: "Bravo Bay", Kind: "movie", Year: 2018, Synopsis: "Smugglers and one honest harbour master."},
	{ID: "charlie", Name: "Charlie Road", Kind: "movie", Year: 2021, Synopsis: "A road trip with a stolen piano."},
	{ID: "delta", Name: "Delta Nights", Kind: "series", Year: 2022, Synopsis: "Jazz clubs along the river."},
	{ID: "echo", Name: "Echo Valley", Kind: "movie", Year: 2016, Synopsis: "A sound engineer hears the past."},
}

// CreateTestWorkspace creates a workspace with a config and a titles file
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	dir, err := os.MkdirTemp("", "tvnav-e2e-*")
	if err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}
	tf.workspace = dir

	if err := tf.WriteTitles(DefaultTitles); err != nil {
		return "", err
	}

	cfg := fmt.Sprintf(`version = 1

[catalog]
file = %q
columns = 3
watch = true

[logging]
level = "debug"
`, tf.TitlesPath())
	if err := os.WriteFile(tf.ConfigPath(), []byte(cfg), 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return dir, nil
}

// ConfigPath is the config file inside the workspace
func (tf *TUITestFramework) ConfigPath() string {
	return filepath.Join(tf.workspace, "config.toml")
}

// TitlesPath is the titles file inside the workspace
func (tf *TUITestFramework) TitlesPath() string {
	return filepath.Join(tf.workspace, "titles.toml")
}

// WriteTitles replaces the workspace titles file
func (tf *TUITestFramework) WriteTitles(titles []TestTitle) error {
	var b strings.Builder
	for _, t := range titles {
		fmt.Fprintf(&b, "[[title]]\nid = %q\nname = %q\nkind = %q\nyear = %d\nsynopsis = %q\n\n", t.ID, t.Name, t.Kind, t.Year, t.Synopsis)
	}
	if err := os.WriteFile(tf.TitlesPath(), []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write titles: %w", err)
	}
	return nil
}
