// Package dom is a live UI tree over HTML markup. It implements the
// capability interfaces in internal/ui/element so the navigation engine can
// run against a parsed page: roles are CSS selectors, layout boxes come from
// data-rect attributes, and mutations are batched per Mutate call.
package dom

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"tvnav/internal/config"
	"tvnav/internal/ui/element"
)

var (
	// ErrDetached is returned for operations on nodes no longer in the document
	ErrDetached = errors.New("node is not attached to the document")
	// ErrNotFocusable is returned when focusing a node that cannot take focus
	ErrNotFocusable = errors.New("node is not focusable")
	// ErrNoHandler is returned when a node's action has no registered handler
	ErrNoHandler = errors.New("no handler for action")
)

// Options configure role selectors and the viewport
type Options struct {
	Selectors      config.Selectors
	HighlightClass string
	FocusableClass string
	ViewportHeight float64
	Logger         *slog.Logger
}

// DefaultOptions builds options from the default config
func DefaultOptions() Options {
	cfg := config.DefaultConfig()
	return OptionsFromConfig(cfg)
}

// OptionsFromConfig builds options from a config
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Selectors:      cfg.Selectors,
		HighlightClass: cfg.Highlight.Class,
		FocusableClass: cfg.Highlight.FocusableClass,
		ViewportHeight: cfg.Catalog.ViewportHeight,
	}
}

// ActionFunc runs when a node carrying data-action="name" is activated.
// It runs without the document lock held and may call Mutate.
type ActionFunc func(n *Node) error

type listener[T any] struct {
	id uint64
	fn T
}

// Document is a parsed page with focus, scroll and observers
type Document struct {
	mu      sync.RWMutex
	root    *html.Node
	opts    Options
	logger  *slog.Logger
	nodes   map[*html.Node]*Node
	active  *html.Node
	scrollY float64

	nextID     uint64
	observers  []listener[func([]element.Mutation)]
	capture    []listener[func(*element.KeyEvent)]
	bubble     []listener[func(*element.KeyEvent)]
	backButton []listener[func()]
	navigate   []listener[func(string)]
	actions    map[string]ActionFunc
}

// Parse parses a full HTML page
func Parse(r io.Reader, opts Options) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Document{
		root:    root,
		opts:    opts,
		logger:  logger,
		nodes:   make(map[*html.Node]*Node),
		actions: make(map[string]ActionFunc),
	}, nil
}

// ParseString parses markup held in a string
func ParseString(markup string, opts Options) (*Document, error) {
	return Parse(strings.NewReader(markup), opts)
}

func (d *Document) wrapLocked(n *html.Node) *Node {
	if w, ok := d.nodes[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.nodes[n] = w
	return w
}

func (d *Document) selector(role element.Role) string {
	s := d.opts.Selectors
	switch role {
	case element.RoleTile:
		return s.Tile
	case element.RoleOverlay:
		return s.Overlay
	case element.RoleInteractive:
		return s.Interactive
	case element.RoleClose:
		return s.Close
	case element.RoleTextEntry:
		return s.TextEntry
	}
	return ""
}

func (d *Document) findLocked(root *html.Node, selector string) []*html.Node {
	if selector == "" {
		return nil
	}
	sel := goquery.NewDocumentFromNode(root).Find(selector)
	out := make([]*html.Node, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Get(0))
	})
	return out
}

// Find returns the nodes matching a CSS selector in document order
func (d *Document) Find(selector string) []*Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*Node
	for _, n := range d.findLocked(d.root, selector) {
		out = append(out, d.wrapLocked(n))
	}
	return out
}

// ByID returns the node with the given id attribute
func (d *Document) ByID(id string) (*Node, bool) {
	nodes := d.Find("#" + id)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// Query implements element.Tree
func (d *Document) Query(scope element.Element, role element.Role) []element.Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	root := d.root
	if scope != nil {
		n, ok := scope.(*Node)
		if !ok || n.doc != d {
			return nil
		}
		root = n.n
	}

	var out []element.Element
	for _, n := range d.findLocked(root, d.selector(role)) {
		out = append(out, d.wrapLocked(n))
	}
	return out
}

// OpenOverlay implements element.Tree. With stacked overlays the last one in
// document order wins.
func (d *Document) OpenOverlay() (element.Element, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	matches := d.findLocked(d.root, d.opts.Selectors.Overlay)
	for i := len(matches) - 1; i >= 0; i-- {
		n := matches[i]
		if d.connectedLocked(n) && !hiddenByAncestors(n) {
			return d.wrapLocked(n), true
		}
	}
	return nil, false
}

// ActiveElement implements element.Tree
func (d *Document) ActiveElement() element.Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil || !d.connectedLocked(d.active) {
		return nil
	}
	return d.wrapLocked(d.active)
}

// Active returns the focused node
func (d *Document) Active() (*Node, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil || !d.connectedLocked(d.active) {
		return nil, false
	}
	return d.wrapLocked(d.active), true
}

// Blur drops focus
func (d *Document) Blur() {
	d.mu.Lock()
	d.active = nil
	d.mu.Unlock()
}

// Observe implements element.Tree
func (d *Document) Observe(fn func([]element.Mutation)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.observers = append(d.observers, listener[func([]element.Mutation)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.observers = removeListener(d.observers, id)
	}
}

// CloseAffordance implements element.OverlayCloser
func (d *Document) CloseAffordance(overlay element.Element) (element.Element, bool) {
	for _, el := range d.Query(overlay, element.RoleClose) {
		if el.Visible() {
			return el, true
		}
	}
	return nil, false
}

// ForceClose implements element.OverlayCloser by dropping the open markers
func (d *Document) ForceClose(overlay element.Element) {
	n, ok := overlay.(*Node)
	if !ok || n.doc != d {
		return
	}
	_ = d.Mutate(func(tx *Tx) error {
		tx.RemoveClass(n, "open")
		tx.RemoveAttr(n, "open")
		return nil
	})
}

// RegisterAction binds an activation handler to data-action="name"
func (d *Document) RegisterAction(name string, fn ActionFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.actions[name] = fn
}

// OnNavigate registers fn for activations of plain links
func (d *Document) OnNavigate(fn func(href string)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.navigate = append(d.navigate, listener[func(string)]{id: id, fn: fn})
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.navigate = removeListener(d.navigate, id)
	}
}

// ScrollY returns the vertical scroll offset
func (d *Document) ScrollY() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.scrollY
}

// ViewportHeight returns the viewport height
func (d *Document) ViewportHeight() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.opts.ViewportHeight
}

// SetViewportHeight resizes the viewport
func (d *Document) SetViewportHeight(h float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.opts.ViewportHeight = h
}

// ScrollTo sets the vertical scroll offset
func (d *Document) ScrollTo(y float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if y < 0 {
		y = 0
	}
	d.scrollY = y
}

// HTML renders the document body
func (d *Document) HTML() (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return goquery.NewDocumentFromNode(d.root).Find("body").Html()
}

func (d *Document) connectedLocked(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func (d *Document) forgetLocked(n *html.Node) {
	delete(d.nodes, n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.forgetLocked(c)
	}
}

func removeListener[T any](ls []listener[T], id uint64) []listener[T] {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i:i], ls[i+1:]...)
		}
	}
	return ls
}

func snapshot[T any](ls []listener[T]) []T {
	out := make([]T, len(ls))
	for i, l := range ls {
		out[i] = l.fn
	}
	return out
}
