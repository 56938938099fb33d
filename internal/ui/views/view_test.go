package views

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func plain(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

func TestRenderGridShowsTiles(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render(ViewState{
		Width:   100,
		Height:  30,
		Columns: 3,
		Total:   4,
		Tiles: []Tile{
			{ID: "a", Name: "Night Harbor", Meta: "movie · 2019"},
			{ID: "b", Name: "Paper Moons", Meta: "series · 2021", Focused: true},
			{ID: "c", Name: "Low Tide"},
		},
		Mode:     "catalog",
		Query:    "o",
		Status:   "Ready",
		HelpView: "? help",
	}))

	for _, want := range []string{"tvnav", "Night Harbor", "Paper Moons", "Low Tide", "series · 2021", "[Search: o]", "3/4", "catalog", "Ready", "? help"} {
		assert.Contains(t, out, want)
	}
}

func TestRenderEmptyCatalog(t *testing.T) {
	r := NewRenderer()
	assert.Contains(t, plain(r.Render(ViewState{Width: 80, Height: 20})), "The catalog is empty.")
	assert.Contains(t, plain(r.Render(ViewState{Width: 80, Height: 20, Query: "zzz"})), `Nothing matches "zzz".`)
}

func TestRenderGridScrollsToFocusedRow(t *testing.T) {
	tr := NewTileRenderer(NewStyles())
	var tiles []Tile
	for i := 0; i < 12; i++ {
		tiles = append(tiles, Tile{ID: fmt.Sprint(i), Name: fmt.Sprintf("Title %02d", i)})
	}
	tiles[10].Focused = true

	out := plain(tr.RenderGrid(tiles, 2, 60, 3*tileLines))
	assert.Contains(t, out, "Title 10")
	assert.Contains(t, out, "more above")
	assert.NotContains(t, out, "Title 00")

	tiles[10].Focused = false
	tiles[0].Focused = true
	out = plain(tr.RenderGrid(tiles, 2, 60, 3*tileLines))
	assert.Contains(t, out, "Title 00")
	assert.Contains(t, out, "more below")
	assert.NotContains(t, out, "more above")
}

func TestRenderPopupOverlay(t *testing.T) {
	r := NewRenderer()
	out := plain(r.Render(ViewState{
		Width:   80,
		Height:  24,
		Columns: 2,
		Tiles:   []Tile{{ID: "a", Name: "Night Harbor"}},
		Detail: &Detail{
			Title:   "Night Harbor",
			Info:    "movie · 2019",
			Text:    "A dock worker finds a ledger.",
			Buttons: []Button{{Label: "Play", Focused: true}, {Label: "Trailer"}, {Label: "Close"}},
		},
	}))

	assert.Contains(t, out, "A dock worker finds a ledger.")
	for _, label := range []string{"Play", "Trailer", "Close"} {
		assert.Contains(t, out, label)
	}
	assert.GreaterOrEqual(t, strings.Count(out, "\n")+1, 24)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "", truncate("abc", 0))
}

func TestSplitCells(t *testing.T) {
	left, right := splitCells("abcdefghij", 2, 3)
	assert.Equal(t, "ab", left)
	assert.Equal(t, "fghij", right)

	left, right = splitCells("ab", 5, 3)
	assert.Equal(t, "ab   ", left)
	assert.Equal(t, "", right)
}
