package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
	"tvnav/internal/ui/element/elementtest"
)

func names(els []element.Element) []string {
	out := make([]string, len(els))
	for i, e := range els {
		out[i] = e.ID()
	}
	return out
}

func TestCatalogItemsFilterInvisibleTiles(t *testing.T) {
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(1, 4, 100, 100, 10)
	tiles[1].Hidden = true
	tiles[2].Rect.Width = 0
	tree.AddTiles(tiles...)

	s := NewService(tree)
	assert.Equal(t, []string{"t0", "t3"}, names(s.Items(domain.ModeCatalog)))
}

func TestCatalogItemsBecomeFocusable(t *testing.T) {
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(1, 2, 100, 100, 10)
	tiles[1].Native = true
	tree.AddTiles(tiles...)

	s := NewService(tree)
	require.False(t, tiles[0].Focusable())
	s.Items(domain.ModeCatalog)
	s.Items(domain.ModeCatalog)

	assert.True(t, tiles[0].Focusable())
	assert.True(t, tiles[1].Focusable())
}

func TestOverlayItemsAreScopedAndFiltered(t *testing.T) {
	tree := elementtest.NewTree()
	tree.AddTiles(elementtest.Grid(2, 2, 100, 100, 10)...)
	ov := elementtest.Overlay("detail", "play", "trailer", "close", "decor")
	ov.Children[1].Hidden = true
	ov.Children[3].AriaHidden = true
	tree.Open(ov)

	s := NewService(tree)
	assert.Equal(t, []string{"play", "close"}, names(s.Items(domain.ModeOverlay)))
}

func TestOverlayItemsEmptyWithoutOverlay(t *testing.T) {
	tree := elementtest.NewTree()
	tree.AddTiles(elementtest.Grid(1, 2, 100, 100, 10)...)
	assert.Empty(t, NewService(tree).Items(domain.ModeOverlay))
}

func TestEmptyOverlayYieldsEmptyList(t *testing.T) {
	tree := elementtest.NewTree()
	tree.Open(elementtest.Overlay("empty"))
	assert.Empty(t, NewService(tree).Items(domain.ModeOverlay))
}

func TestIndexOf(t *testing.T) {
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(1, 3, 100, 100, 10)
	tree.AddTiles(tiles...)
	s := NewService(tree)

	assert.Equal(t, 2, s.IndexOf(domain.ModeCatalog, tiles[2]))
	assert.Equal(t, -1, s.IndexOf(domain.ModeOverlay, tiles[2]))
	assert.Equal(t, -1, s.IndexOf(domain.ModeCatalog, nil))
}

func TestItemsReflectLiveTree(t *testing.T) {
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(1, 3, 100, 100, 10)
	tree.AddTiles(tiles...)
	s := NewService(tree)
	require.Len(t, s.Items(domain.ModeCatalog), 3)

	tree.Detach(tiles[0])
	assert.Equal(t, []string{"t1", "t2"}, names(s.Items(domain.ModeCatalog)))
}

func TestActivationTarget(t *testing.T) {
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(1, 2, 100, 100, 10)
	tiles[1].Children = nil
	tree.AddTiles(tiles...)
	s := NewService(tree)

	assert.Equal(t, "t0-link", s.ActivationTarget(tiles[0]).ID())
	assert.Equal(t, "t1", s.ActivationTarget(tiles[1]).ID())
}
