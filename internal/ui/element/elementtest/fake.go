// Package elementtest provides an in-memory element tree for engine tests.
package elementtest

import (
	"errors"
	"fmt"
	"sync"

	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
)

var (
	ErrDetached     = errors.New("detached")
	ErrNotFocusable = errors.New("not focusable")
)

// Element is a fake node. Fields are set up by tests before use; mutable
// state is guarded by the owning tree.
type Element struct {
	Name       string
	Rect       domain.Rect
	Hidden     bool
	Native     bool
	Text       bool
	AriaHidden bool
	Close      bool
	NoFocus    bool
	Children   []*Element

	// OnActivate runs on Activate, without the tree lock
	OnActivate  func()
	ActivateErr error

	tree        *Tree
	detached    bool
	highlighted bool
	focusable   bool
	activations int
	scrolls     int
	focusCalls  int
	makeCalls   int
}

var _ element.Element = (*Element)(nil)

func (e *Element) ID() string { return e.Name }

func (e *Element) Visible() bool {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return !e.detached && !e.Hidden && !e.Rect.Empty()
}

func (e *Element) BoundingBox() domain.Rect { return e.Rect }
func (e *Element) Interactive() bool { return e.Native }
func (e *Element) TextEntry() bool { return e.Text }
func (e *Element) HiddenFromAssistiveTech() bool { return e.AriaHidden }

func (e *Element) Connected() bool {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return !e.detached
}

func (e *Element) Focusable() bool {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.focusableLocked()
}

func (e *Element) focusableLocked() bool {
	return !e.detached && !e.NoFocus && (e.Native || e.focusable)
}

func (e *Element) Activate() error {
	e.tree.mu.Lock()
	e.activations++
	fn := e.OnActivate
	e.tree.mu.Unlock()
	if fn != nil {
		fn()
	}
	return e.ActivateErr
}

func (e *Element) Focus(preventScroll bool) error {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	if e.detached {
		return ErrDetached
	}
	if !e.focusableLocked() {
		return fmt.Errorf("%w: %s", ErrNotFocusable, e.Name)
	}
	e.focusCalls++
	e.tree.active = e
	return nil
}

func (e *Element) ScrollIntoView() {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	e.scrolls++
}

func (e *Element) SetHighlighted(on bool) {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	e.highlighted = on
}

func (e *Element) MakeFocusable() {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	e.makeCalls++
	e.focusable = true
}

// Highlighted reports whether the highlight is on
func (e *Element) Highlighted() bool {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.highlighted
}

// Activations counts Activate calls
func (e *Element) Activations() int {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.activations
}

// Scrolls counts ScrollIntoView calls
func (e *Element) Scrolls() int {
	e.tree.mu.Lock()
	defer e.tree.mu.Unlock()
	return e.scrolls
}

// Tree is a fake element.Tree and element.OverlayCloser
type Tree struct {
	mu        sync.Mutex
	tiles     []*Element
	overlays  []*Element
	active    element.Element
	observers map[int]func([]element.Mutation)
	nextID    int
	forced    int
}

var (
	_ element.Tree          = (*Tree)(nil)
	_ element.OverlayCloser = (*Tree)(nil)
)

// NewTree creates an empty tree
func NewTree() *Tree {
	return &Tree{observers: make(map[int]func([]element.Mutation))}
}

// Adopt attaches elements (and their children) to the tree without
// making them tiles
func (t *Tree) Adopt(els ...*Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range els {
		t.adoptLocked(e)
	}
}

func (t *Tree) adoptLocked(e *Element) {
	e.tree = t
	for _, c := range e.Children {
		t.adoptLocked(c)
	}
}

// AddTiles appends tiles in document order
func (t *Tree) AddTiles(els ...*Element) {
	t.Adopt(els...)
	t.mu.Lock()
	t.tiles = append(t.tiles, els...)
	t.mu.Unlock()
}

// Tiles returns the current tiles
func (t *Tree) Tiles() []*Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*Element(nil), t.tiles...)
}

// SetTiles replaces the tiles without notifying observers
func (t *Tree) SetTiles(els ...*Element) {
	t.Adopt(els...)
	t.mu.Lock()
	t.tiles = els
	t.mu.Unlock()
}

// Detach removes e from layout
func (t *Tree) Detach(e *Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e.detached = true
	if t.active == element.Element(e) {
		t.active = nil
	}
	for i, tile := range t.tiles {
		if tile == e {
			t.tiles = append(t.tiles[:i:i], t.tiles[i+1:]...)
			break
		}
	}
}

// Open marks an overlay open without notifying observers
func (t *Tree) Open(ov *Element) {
	t.Adopt(ov)
	t.mu.Lock()
	t.overlays = append(t.overlays, ov)
	t.mu.Unlock()
}

// Close marks an overlay closed without notifying observers
func (t *Tree) Close(ov *Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, o := range t.overlays {
		if o == ov {
			t.overlays = append(t.overlays[:i:i], t.overlays[i+1:]...)
			return
		}
	}
}

// Notify delivers one mutation batch to observers
func (t *Tree) Notify() {
	t.mu.Lock()
	fns := make([]func([]element.Mutation), 0, len(t.observers))
	for _, fn := range t.observers {
		fns = append(fns, fn)
	}
	t.mu.Unlock()
	batch := []element.Mutation{{Kind: element.MutationAttributes, Attribute: "class"}}
	for _, fn := range fns {
		fn(batch)
	}
}

// Forced counts ForceClose calls
func (t *Tree) Forced() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.forced
}

// Highlighted returns every highlighted tile or overlay child
func (t *Tree) Highlighted() []*Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*Element
	var walk func(*Element)
	walk = func(e *Element) {
		if e.highlighted {
			out = append(out, e)
		}
		for _, c := range e.Children {
			walk(c)
		}
	}
	for _, e := range t.tiles {
		walk(e)
	}
	for _, e := range t.overlays {
		walk(e)
	}
	return out
}

func (t *Tree) Query(scope element.Element, role element.Role) []element.Element {
	t.mu.Lock()
	defer t.mu.Unlock()

	if scope == nil {
		if role != element.RoleTile {
			return nil
		}
		out := make([]element.Element, len(t.tiles))
		for i, e := range t.tiles {
			out[i] = e
		}
		return out
	}

	root, ok := scope.(*Element)
	if !ok {
		return nil
	}
	var out []element.Element
	var walk func(*Element)
	walk = func(e *Element) {
		for _, c := range e.Children {
			switch role {
			case element.RoleInteractive:
				if c.Native {
					out = append(out, c)
				}
			case element.RoleClose:
				if c.Close {
					out = append(out, c)
				}
			case element.RoleTextEntry:
				if c.Text {
					out = append(out, c)
				}
			}
			walk(c)
		}
	}
	walk(root)
	return out
}

func (t *Tree) OpenOverlay() (element.Element, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.overlays) == 0 {
		return nil, false
	}
	return t.overlays[len(t.overlays)-1], true
}

func (t *Tree) ActiveElement() element.Element {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Focus sets the active element directly
func (t *Tree) Focus(e *Element) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = e
}

func (t *Tree) Observe(fn func([]element.Mutation)) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID++
	id := t.nextID
	t.observers[id] = fn
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.observers, id)
	}
}

// Observers counts registered observers
func (t *Tree) Observers() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.observers)
}

func (t *Tree) CloseAffordance(overlay element.Element) (element.Element, bool) {
	for _, el := range t.Query(overlay, element.RoleClose) {
		if el.Visible() {
			return el, true
		}
	}
	return nil, false
}

func (t *Tree) ForceClose(overlay element.Element) {
	ov, ok := overlay.(*Element)
	if !ok {
		return
	}
	t.mu.Lock()
	t.forced++
	t.mu.Unlock()
	t.Close(ov)
	t.Notify()
}

// Grid builds rows x cols tiles named t0..tN with a nested link each
func Grid(rows, cols int, w, h, gap float64) []*Element {
	var out []*Element
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			i := r*cols + c
			rect := domain.Rect{
				Left:   float64(c) * (w + gap),
				Top:    float64(r) * (h + gap),
				Width:  w,
				Height: h,
			}
			link := &Element{Name: fmt.Sprintf("t%d-link", i), Rect: rect, Native: true}
			out = append(out, &Element{Name: fmt.Sprintf("t%d", i), Rect: rect, Children: []*Element{link}})
		}
	}
	return out
}

// Overlay builds an overlay with the named buttons laid out in a row; the
// button called "close" is its close affordance
func Overlay(name string, buttons ...string) *Element {
	ov := &Element{Name: name, Rect: domain.Rect{Left: 100, Top: 100, Width: 600, Height: 400}}
	for i, b := range buttons {
		ov.Children = append(ov.Children, &Element{
			Name:   b,
			Rect:   domain.Rect{Left: 120 + float64(i)*100, Top: 400, Width: 80, Height: 30},
			Native: true,
			Close:  b == "close",
		})
	}
	return ov
}
