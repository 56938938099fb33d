// Package catalog renders a movie and TV catalog as a navigable page and
// implements the page's own behaviour: detail overlay, playback and search.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"tvnav/internal/domain"
)

// ErrInvalidTitles is returned for a titles file that parses but is unusable
var ErrInvalidTitles = errors.New("invalid titles")

type titlesFile struct {
	Titles []domain.Title `toml:"title"`
}

// ParseTitles decodes a titles document. Every title needs a unique id and
// a name.
func ParseTitles(data []byte) ([]domain.Title, error) {
	var f titlesFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse titles: %w", err)
	}
	seen := make(map[string]bool, len(f.Titles))
	for i, t := range f.Titles {
		id := strings.TrimSpace(t.ID)
		if id == "" {
			return nil, fmt.Errorf("%w: title %d has no id", ErrInvalidTitles, i+1)
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, fmt.Errorf("%w: title %q has no name", ErrInvalidTitles, id)
		}
		if seen[id] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidTitles, id)
		}
		seen[id] = true
		f.Titles[i].ID = id
	}
	return f.Titles, nil
}

// LoadTitles reads a titles file
func LoadTitles(path string) ([]domain.Title, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read titles: %w", err)
	}
	return ParseTitles(data)
}

// SaveTitles writes titles to path, creating its directory
func SaveTitles(path string, titles []domain.Title) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create titles directory: %w", err)
		}
	}
	data, err := toml.Marshal(titlesFile{Titles: titles})
	if err != nil {
		return fmt.Errorf("failed to marshal titles: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write titles: %w", err)
	}
	return nil
}

// LoadOrCreateTitles loads path, writing the sample catalog there first if
// the file does not exist
func LoadOrCreateTitles(path string) ([]domain.Title, error) {
	titles, err := LoadTitles(path)
	if err == nil {
		return titles, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	titles = SampleTitles()
	if err := SaveTitles(path, titles); err != nil {
		return nil, err
	}
	return titles, nil
}

// SampleTitles is the catalog written on first run
func SampleTitles() []domain.Title {
	return []domain.Title{
		{ID: "night-harbor", Name: "Night Harbor", Kind: "movie", Year: 2019, Genres: []string{"thriller"}, Synopsis: "A dock worker finds a ledger that half the city wants back."},
		{ID: "paper-moons", Name: "Paper Moons", Kind: "series", Year: 2021, Genres: []string{"drama"}, Synopsis: "Three sisters run a failing print shop through one long winter."},
		{ID: "the-long-field", Name: "The Long Field", Kind: "movie", Year: 2016, Genres: []string{"western"}, Synopsis: "A surveyor and a horse thief share the last road west."},
		{ID: "orbit-kitchen", Name: "Orbit Kitchen", Kind: "series", Year: 2023, Genres: []string{"comedy"}, Synopsis: "Cooking competition aboard a budget space station."},
		{ID: "glass-atlas", Name: "Glass Atlas", Kind: "movie", Year: 2020, Genres: []string{"sci-fi"}, Synopsis: "A cartographer maps a city that rebuilds itself every night."},
		{ID: "low-tide", Name: "Low Tide", Kind: "movie", Year: 2018, Genres: []string{"drama"}, Synopsis: "A fishing family waits out a storm and an old grudge."},
		{ID: "signal-house", Name: "Signal House", Kind: "series", Year: 2022, Genres: []string{"mystery"}, Synopsis: "A radio station keeps receiving tomorrow's news."},
		{ID: "copper-kings", Name: "Copper Kings", Kind: "series", Year: 2017, Genres: []string{"history"}, Synopsis: "Mining barons carve up a valley and each other."},
		{ID: "small-hours", Name: "Small Hours", Kind: "movie", Year: 2024, Genres: []string{"romance"}, Synopsis: "Two night-shift nurses trade notes for a year."},
		{ID: "vanishing-point", Name: "Vanishing Point", Kind: "movie", Year: 2015, Genres: []string{"action"}, Synopsis: "A courier drives a sealed crate across the desert."},
		{ID: "field-notes", Name: "Field Notes", Kind: "series", Year: 2020, Genres: []string{"documentary"}, Synopsis: "Naturalists follow one meadow through four seasons."},
		{ID: "after-the-rain", Name: "After the Rain", Kind: "movie", Year: 2021, Genres: []string{"drama"}, Synopsis: "A town rebuilds after the river takes its main street."},
	}
}

// Matches reports whether t matches a search query. The query is split into
// words and every word must appear in the name, kind, a genre or the year.
func Matches(t domain.Title, query string) bool {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return true
	}
	hay := strings.ToLower(strings.Join(append([]string{t.Name, t.Kind, fmt.Sprint(t.Year)}, t.Genres...), " "))
	for _, w := range words {
		if !strings.Contains(hay, w) {
			return false
		}
	}
	return true
}
