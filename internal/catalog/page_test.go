package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/config"
	"tvnav/internal/dom"
	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
)

var testLayout = Layout{Columns: 3, TileWidth: 100, TileHeight: 80, Gap: 10, ViewportHeight: 400}

func TestTileRect(t *testing.T) {
	assert.Equal(t, domain.Rect{Left: 10, Top: 50, Width: 100, Height: 80}, testLayout.TileRect(0))
	assert.Equal(t, domain.Rect{Left: 230, Top: 50, Width: 100, Height: 80}, testLayout.TileRect(2))
	assert.Equal(t, domain.Rect{Left: 10, Top: 140, Width: 100, Height: 80}, testLayout.TileRect(3))
	assert.Equal(t, 340.0, testLayout.Width())
}

func TestLayoutFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	l := LayoutFromConfig(cfg.Catalog)
	assert.Equal(t, cfg.Catalog.Columns, l.Columns)
	assert.Equal(t, cfg.Catalog.ViewportHeight, l.ViewportHeight)
}

func TestRenderPageEscapes(t *testing.T) {
	var b strings.Builder
	titles := []domain.Title{{ID: "x", Name: `<script>alert(1)</script>`}}
	require.NoError(t, RenderPage(&b, titles, testLayout))
	assert.NotContains(t, b.String(), "<script>")
	assert.Contains(t, b.String(), "&lt;script&gt;")
}

func TestNewDocumentIsNavigable(t *testing.T) {
	doc, err := NewDocument(SampleTitles()[:5], testLayout, dom.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, testLayout.ViewportHeight, doc.ViewportHeight())

	tiles := doc.Query(nil, element.RoleTile)
	require.Len(t, tiles, 5)
	assert.Equal(t, TilePrefix+"night-harbor", tiles[0].ID())
	assert.Equal(t, testLayout.TileRect(4), tiles[4].BoundingBox())
	for _, tile := range tiles {
		assert.True(t, tile.Visible())
		require.Len(t, doc.Query(tile, element.RoleInteractive), 1)
	}

	_, open := doc.OpenOverlay()
	assert.False(t, open)

	detail, ok := doc.ByID(DetailID)
	require.True(t, ok)
	var ids []string
	for _, el := range doc.Query(detail, element.RoleInteractive) {
		if !el.HiddenFromAssistiveTech() {
			ids = append(ids, el.ID())
		}
	}
	assert.Equal(t, []string{PlayID, TrailerID, CloseID}, ids)

	closeBtn, ok := doc.CloseAffordance(detail)
	require.True(t, ok)
	assert.Equal(t, CloseID, closeBtn.ID())

	search, ok := doc.ByID(SearchID)
	require.True(t, ok)
	assert.True(t, search.TextEntry())
}

func TestRenderTiles(t *testing.T) {
	markup, err := RenderTiles(SampleTitles()[:2], testLayout)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(markup, `class="tile"`))
	assert.Contains(t, markup, `data-action="open-detail"`)
}
