package navigation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tvnav/internal/domain"
	"tvnav/internal/eventbus"
	"tvnav/internal/ui/element/elementtest"
	"tvnav/internal/ui/services/query"
)

type fixture struct {
	tree  *elementtest.Tree
	tiles []*elementtest.Element
	svc   *Service
}

func newFixture(t *testing.T, bus eventbus.EventBus) *fixture {
	t.Helper()
	tree := elementtest.NewTree()
	tiles := elementtest.Grid(3, 3, 100, 100, 10)
	tree.AddTiles(tiles...)
	return &fixture{
		tree:  tree,
		tiles: tiles,
		svc:   NewService(query.NewService(tree), bus, DefaultScoring, nil),
	}
}

func TestHighlightIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 4)
	f.svc.Highlight(domain.ModeCatalog, 4)

	hl := f.tree.Highlighted()
	require.Len(t, hl, 1)
	assert.Equal(t, "t4", hl[0].ID())
	assert.Equal(t, 4, f.svc.Index())
	assert.Equal(t, f.tiles[4], f.tree.ActiveElement())
	assert.Equal(t, 2, f.tiles[4].Scrolls())
}

func TestHighlightClamps(t *testing.T) {
	f := newFixture(t, nil)
	el, ok := f.svc.Highlight(domain.ModeCatalog, 42)
	require.True(t, ok)
	assert.Equal(t, "t8", el.ID())

	el, ok = f.svc.Highlight(domain.ModeCatalog, -3)
	require.True(t, ok)
	assert.Equal(t, "t0", el.ID())
	assert.Len(t, f.tree.Highlighted(), 1)
}

func TestHighlightEmptyListClearsCursor(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 2)
	_, ok := f.svc.Highlight(domain.ModeOverlay, 0)
	assert.False(t, ok)
	assert.Equal(t, NoIndex, f.svc.Index())
	assert.Empty(t, f.tree.Highlighted())
}

func TestMoveSeedsThenNavigates(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, MoveSeeded, f.svc.Move(domain.ModeCatalog, domain.DirectionDown))
	assert.Equal(t, 0, f.svc.Index())

	assert.Equal(t, MoveMoved, f.svc.Move(domain.ModeCatalog, domain.DirectionDown))
	assert.Equal(t, 3, f.svc.Index())
	assert.Equal(t, MoveMoved, f.svc.Move(domain.ModeCatalog, domain.DirectionRight))
	assert.Equal(t, 4, f.svc.Index())
}

func TestMoveDoesNotWrap(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 2)

	assert.Equal(t, MoveAbsorbed, f.svc.Move(domain.ModeCatalog, domain.DirectionUp))
	assert.Equal(t, MoveAbsorbed, f.svc.Move(domain.ModeCatalog, domain.DirectionRight))
	assert.Equal(t, 2, f.svc.Index())
	assert.True(t, f.tiles[2].Highlighted())
}

func TestMoveOnEmptyList(t *testing.T) {
	tree := elementtest.NewTree()
	svc := NewService(query.NewService(tree), nil, DefaultScoring, nil)
	assert.Equal(t, MoveEmpty, svc.Move(domain.ModeCatalog, domain.DirectionLeft))
	assert.Equal(t, NoIndex, svc.Index())
}

func TestMoveReseedsWhenHighlightedItemVanished(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 8)
	f.tree.Detach(f.tiles[8])

	assert.Equal(t, MoveSeeded, f.svc.Move(domain.ModeCatalog, domain.DirectionRight))
	assert.Equal(t, 0, f.svc.Index())
}

func TestMoveFollowsItemWhenListShifts(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 4)
	f.tree.Detach(f.tiles[0])

	// t4 is now at index 3 but keeps its position on screen
	assert.Equal(t, MoveMoved, f.svc.Move(domain.ModeCatalog, domain.DirectionUp))
	assert.Equal(t, "t1", f.svc.Current().ID())
	assert.Equal(t, 0, f.svc.Index())
}

func TestValidate(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 8)

	f.tree.Detach(f.tiles[3])
	assert.False(t, f.svc.Validate(domain.ModeCatalog))
	assert.Equal(t, 7, f.svc.Index())

	f.tree.Detach(f.tiles[8])
	assert.True(t, f.svc.Validate(domain.ModeCatalog))
	assert.Equal(t, NoIndex, f.svc.Index())
	assert.Nil(t, f.svc.Current())
}

func TestActivateCatalogUsesNestedLink(t *testing.T) {
	f := newFixture(t, nil)
	f.svc.Highlight(domain.ModeCatalog, 1)

	target, err := f.svc.Activate(domain.ModeCatalog)
	require.NoError(t, err)
	assert.Equal(t, "t1-link", target.ID())
	assert.Equal(t, 1, f.tiles[1].Children[0].Activations())
	assert.Equal(t, 0, f.tiles[1].Activations())
}

func TestActivateCatalogFallsBackToTile(t *testing.T) {
	f := newFixture(t, nil)
	f.tiles[0].Children = nil
	f.svc.Highlight(domain.ModeCatalog, 0)

	target, err := f.svc.Activate(domain.ModeCatalog)
	require.NoError(t, err)
	assert.Equal(t, "t0", target.ID())
	assert.Equal(t, 1, f.tiles[0].Activations())
}

func TestActivateOverlayUsesElement(t *testing.T) {
	f := newFixture(t, nil)
	ov := elementtest.Overlay("detail", "play", "close")
	f.tree.Open(ov)
	f.svc.Highlight(domain.ModeOverlay, 0)

	target, err := f.svc.Activate(domain.ModeOverlay)
	require.NoError(t, err)
	assert.Equal(t, "play", target.ID())
	assert.Equal(t, 1, ov.Children[0].Activations())
}

func TestActivateWithoutSelection(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Activate(domain.ModeCatalog)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestActivateReturnsElementError(t *testing.T) {
	f := newFixture(t, nil)
	boom := errors.New("boom")
	f.tiles[0].Children[0].ActivateErr = boom
	f.svc.Highlight(domain.ModeCatalog, 0)
	_, err := f.svc.Activate(domain.ModeCatalog)
	assert.ErrorIs(t, err, boom)
}

func TestSeedPrefersGivenElement(t *testing.T) {
	f := newFixture(t, nil)
	el, ok := f.svc.Seed(domain.ModeCatalog, f.tiles[5])
	require.True(t, ok)
	assert.Equal(t, "t5", el.ID())

	f.svc.Reset()
	el, ok = f.svc.Seed(domain.ModeCatalog, f.tiles[0].Children[0])
	require.True(t, ok)
	assert.Equal(t, "t0", el.ID())
}

func TestCursorMovedEventPublished(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	got := make(chan domain.CursorMovedEvent, 4)
	bus.Subscribe(eventbus.EventCursorMoved, func(e eventbus.DomainEvent) {
		got <- e.(domain.CursorMovedEvent)
	})

	f := newFixture(t, bus)
	f.svc.Highlight(domain.ModeCatalog, 4)
	f.svc.Highlight(domain.ModeCatalog, 4)

	select {
	case ev := <-got:
		assert.Equal(t, NoIndex, ev.OldIndex)
		assert.Equal(t, 4, ev.NewIndex)
		assert.Equal(t, "t4", ev.ElementID)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}
	select {
	case ev := <-got:
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestValidateWithNothingHighlighted(t *testing.T) {
	f := newFixture(t, nil)
	assert.False(t, f.svc.Validate(domain.ModeCatalog))
	assert.Equal(t, NoIndex, f.svc.Index())
}
