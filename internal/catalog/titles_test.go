package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/domain"
)

func TestParseTitles(t *testing.T) {
	data := []byte(`
[[title]]
id = " a "
name = "Alpha"
kind = "movie"
year = 2001
genres = ["drama", "war"]

[[title]]
id = "b"
name = "Beta"
`)
	titles, err := ParseTitles(data)
	require.NoError(t, err)
	require.Len(t, titles, 2)
	assert.Equal(t, "a", titles[0].ID)
	assert.Equal(t, []string{"drama", "war"}, titles[0].Genres)
	assert.Equal(t, 2001, titles[0].Year)
}

func TestParseTitlesRejectsBadEntries(t *testing.T) {
	tests := map[string]string{
		"missing id":   "[[title]]\nname = \"x\"\n",
		"missing name": "[[title]]\nid = \"x\"\n",
		"duplicate":    "[[title]]\nid = \"x\"\nname = \"a\"\n[[title]]\nid = \"x\"\nname = \"b\"\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTitles([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalidTitles)
		})
	}

	_, err := ParseTitles([]byte("[[title]\n"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidTitles)
}

func TestSaveAndLoadTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "titles.toml")
	require.NoError(t, SaveTitles(path, SampleTitles()))

	got, err := LoadTitles(path)
	require.NoError(t, err)
	assert.Equal(t, SampleTitles(), got)
}

func TestLoadOrCreateTitles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.toml")

	titles, err := LoadOrCreateTitles(path)
	require.NoError(t, err)
	assert.Len(t, titles, len(SampleTitles()))
	_, err = os.Stat(path)
	require.NoError(t, err, "the sample catalog is written out")

	require.NoError(t, os.WriteFile(path, []byte("[[title]]\nid = \"only\"\nname = \"Only\"\n"), 0644))
	titles, err = LoadOrCreateTitles(path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Title{{ID: "only", Name: "Only"}}, titles)
}

func TestMatches(t *testing.T) {
	title := domain.Title{Name: "Night Harbor", Kind: "movie", Year: 2019, Genres: []string{"thriller"}}
	tests := map[string]bool{
		"":             true,
		"night":        true,
		"HARBOR":       true,
		"night 2019":   true,
		"thrill":       true,
		"movie harbor": true,
		"series":       false,
		"night comedy": false,
	}
	for q, want := range tests {
		assert.Equal(t, want, Matches(title, q), "query %q", q)
	}
}
