package dom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"tvnav/internal/domain"
	"tvnav/internal/ui/element"
)

// Node wraps an html.Node. A document hands out one Node per html.Node, so
// Nodes compare equal by pointer.
type Node struct {
	doc *Document
	n   *html.Node
}

var _ element.Element = (*Node)(nil)

// ID returns the id attribute, or a unique fallback
func (w *Node) ID() string {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	if id, ok := getAttr(w.n, "id"); ok && id != "" {
		return id
	}
	return fmt.Sprintf("%s@%p", w.n.Data, w.n)
}

// Tag returns the element name
func (w *Node) Tag() string {
	return w.n.Data
}

// Attr returns an attribute value
func (w *Node) Attr(key string) (string, bool) {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return getAttr(w.n, key)
}

// HasClass reports whether the class attribute contains c
func (w *Node) HasClass(c string) bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return hasClass(w.n, c)
}

// Text returns the text content
func (w *Node) Text() string {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return strings.TrimSpace(goquery.NewDocumentFromNode(w.n).Text())
}

// Find returns descendants matching selector
func (w *Node) Find(selector string) []*Node {
	w.doc.mu.Lock()
	defer w.doc.mu.Unlock()
	var out []*Node
	for _, n := range w.doc.findLocked(w.n, selector) {
		out = append(out, w.doc.wrapLocked(n))
	}
	return out
}

// Closest returns the nearest ancestor-or-self matching selector
func (w *Node) Closest(selector string) (*Node, bool) {
	w.doc.mu.Lock()
	defer w.doc.mu.Unlock()
	sel := goquery.NewDocumentFromNode(w.n).Selection.Closest(selector)
	if sel.Length() == 0 {
		return nil, false
	}
	return w.doc.wrapLocked(sel.Get(0)), true
}

// Connected reports whether the node is still in the document
func (w *Node) Connected() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return w.doc.connectedLocked(w.n)
}

// Visible reports a non-empty box that is laid out and not hidden by style
func (w *Node) Visible() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return w.visibleLocked()
}

func (w *Node) visibleLocked() bool {
	if !w.doc.connectedLocked(w.n) {
		return false
	}
	if hiddenByAncestors(w.n) || visibilityHidden(w.n) {
		return false
	}
	return !layoutRect(w.n).Empty()
}

// BoundingBox returns the box in viewport coordinates
func (w *Node) BoundingBox() domain.Rect {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return w.boxLocked()
}

func (w *Node) boxLocked() domain.Rect {
	r := layoutRect(w.n)
	if !fixed(w.n) {
		r.Top -= w.doc.scrollY
	}
	return r
}

// Interactive reports native activatability
func (w *Node) Interactive() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return nativelyInteractive(w.n)
}

// TextEntry reports whether the node accepts free text
func (w *Node) TextEntry() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	sel := w.doc.opts.Selectors.TextEntry
	if sel == "" {
		return false
	}
	return goquery.NewDocumentFromNode(w.n).Selection.Is(sel)
}

// HiddenFromAssistiveTech reports an aria-hidden ancestor-or-self
func (w *Node) HiddenFromAssistiveTech() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	for p := w.n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := getAttr(p, "aria-hidden"); ok && strings.EqualFold(v, "true") {
			return true
		}
	}
	return false
}

// Focusable reports whether Focus would succeed
func (w *Node) Focusable() bool {
	w.doc.mu.RLock()
	defer w.doc.mu.RUnlock()
	return w.focusableLocked()
}

func (w *Node) focusableLocked() bool {
	if !w.doc.connectedLocked(w.n) || hiddenByAncestors(w.n) {
		return false
	}
	if _, disabled := getAttr(w.n, "disabled"); disabled {
		return false
	}
	if _, ok := getAttr(w.n, "tabindex"); ok {
		return true
	}
	return nativelyInteractive(w.n)
}

// Focus moves input focus here. Unless preventScroll is set the node is also
// scrolled into view.
func (w *Node) Focus(preventScroll bool) error {
	w.doc.mu.Lock()
	defer w.doc.mu.Unlock()
	if !w.doc.connectedLocked(w.n) {
		return ErrDetached
	}
	if !w.focusableLocked() {
		return fmt.Errorf("%w: %s", ErrNotFocusable, w.n.Data)
	}
	w.doc.active = w.n
	if !preventScroll {
		w.scrollIntoViewLocked()
	}
	return nil
}

// ScrollIntoView scrolls by the least amount that shows the node. Fixed
// nodes never scroll.
func (w *Node) ScrollIntoView() {
	w.doc.mu.Lock()
	defer w.doc.mu.Unlock()
	w.scrollIntoViewLocked()
}

func (w *Node) scrollIntoViewLocked() {
	vh := w.doc.opts.ViewportHeight
	if vh <= 0 || fixed(w.n) {
		return
	}
	r := layoutRect(w.n)
	switch {
	case r.Top < w.doc.scrollY:
		w.doc.scrollY = r.Top
	case r.Bottom() > w.doc.scrollY+vh:
		w.doc.scrollY = min(r.Top, r.Bottom()-vh)
	}
	if w.doc.scrollY < 0 {
		w.doc.scrollY = 0
	}
}

// SetHighlighted toggles the highlight class
func (w *Node) SetHighlighted(on bool) {
	class := w.doc.opts.HighlightClass
	if class == "" {
		return
	}
	_ = w.doc.Mutate(func(tx *Tx) error {
		if on {
			tx.AddClass(w, class)
		} else {
			tx.RemoveClass(w, class)
		}
		return nil
	})
}

// Highlighted reports whether the highlight class is set
func (w *Node) Highlighted() bool {
	return w.HasClass(w.doc.opts.HighlightClass)
}

// MakeFocusable adds tabindex, an implicit button role and the focusable
// class. Attributes that are already present are left alone.
func (w *Node) MakeFocusable() {
	_ = w.doc.Mutate(func(tx *Tx) error {
		if _, ok := tx.Attr(w, "tabindex"); !ok {
			tx.SetAttr(w, "tabindex", "0")
		}
		if _, ok := tx.Attr(w, "role"); !ok {
			tx.SetAttr(w, "role", "button")
		}
		if c := w.doc.opts.FocusableClass; c != "" {
			tx.AddClass(w, c)
		}
		return nil
	})
}

// Activate triggers the node's primary action: its data-action handler, or
// navigation for a plain link.
func (w *Node) Activate() error {
	d := w.doc
	d.mu.RLock()
	if !d.connectedLocked(w.n) {
		d.mu.RUnlock()
		return ErrDetached
	}
	action, hasAction := getAttr(w.n, "data-action")
	href, hasHref := getAttr(w.n, "href")
	isLink := w.n.DataAtom == atom.A
	handler := d.actions[action]
	navigate := snapshot(d.navigate)
	d.mu.RUnlock()

	switch {
	case hasAction:
		if handler == nil {
			return fmt.Errorf("%w: %q", ErrNoHandler, action)
		}
		return handler(w)
	case isLink && hasHref:
		for _, fn := range navigate {
			fn(href)
		}
		return nil
	}
	d.logger.Debug("dom: activation without action", "node", w.n.Data)
	return nil
}

func nativelyInteractive(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if _, ok := getAttr(n, "data-activatable"); ok {
		return true
	}
	switch n.DataAtom {
	case atom.A:
		_, ok := getAttr(n, "href")
		return ok
	case atom.Button, atom.Select, atom.Textarea:
		return true
	case atom.Input:
		t, _ := getAttr(n, "type")
		return !strings.EqualFold(t, "hidden")
	}
	return false
}

func fixed(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if _, ok := getAttr(p, "data-fixed"); ok {
			return true
		}
	}
	return false
}

// layoutRect parses data-rect="left,top,width,height" in document coordinates
func layoutRect(n *html.Node) domain.Rect {
	v, ok := getAttr(n, "data-rect")
	if !ok {
		return domain.Rect{}
	}
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return domain.Rect{}
	}
	var f [4]float64
	for i, p := range parts {
		x, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.Rect{}
		}
		f[i] = x
	}
	return domain.Rect{Left: f[0], Top: f[1], Width: f[2], Height: f[3]}
}

// FormatRect renders a rect as a data-rect value
func FormatRect(r domain.Rect) string {
	return fmt.Sprintf("%g,%g,%g,%g", r.Left, r.Top, r.Width, r.Height)
}

func getAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, c string) bool {
	v, _ := getAttr(n, "class")
	for _, f := range strings.Fields(v) {
		if f == c {
			return true
		}
	}
	return false
}
