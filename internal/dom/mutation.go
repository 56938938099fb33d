package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"tvnav/internal/ui/element"
)

// Tx is a write transaction. Every change it makes is recorded and handed to
// observers as one batch when Mutate returns. Only no-op writes are skipped.
type Tx struct {
	d       *Document
	records []element.Mutation
}

// Mutate runs fn under the document lock and then delivers the recorded
// batch to observers. fn must use the Tx for reads and writes; calling
// Document or Node methods from inside fn deadlocks.
func (d *Document) Mutate(fn func(tx *Tx) error) error {
	d.mu.Lock()
	tx := &Tx{d: d}
	err := fn(tx)
	records := tx.records
	observers := snapshot(d.observers)
	d.mu.Unlock()

	if len(records) > 0 {
		for _, o := range observers {
			o(records)
		}
	}
	return err
}

func (tx *Tx) record(kind element.MutationKind, n *html.Node, attr string) {
	tx.records = append(tx.records, element.Mutation{
		Kind:      kind,
		Target:    tx.d.wrapLocked(n),
		Attribute: attr,
	})
}

// Attr reads an attribute inside the transaction
func (tx *Tx) Attr(n *Node, key string) (string, bool) {
	return getAttr(n.n, key)
}

// HasClass reads a class inside the transaction
func (tx *Tx) HasClass(n *Node, c string) bool {
	return hasClass(n.n, c)
}

// Find queries below scope inside the transaction; a nil scope searches
// the whole document
func (tx *Tx) Find(scope *Node, selector string) []*Node {
	root := tx.d.root
	if scope != nil {
		root = scope.n
	}
	var out []*Node
	for _, n := range tx.d.findLocked(root, selector) {
		out = append(out, tx.d.wrapLocked(n))
	}
	return out
}

// ByID finds a node by id inside the transaction
func (tx *Tx) ByID(id string) (*Node, bool) {
	nodes := tx.Find(nil, "#"+id)
	if len(nodes) == 0 {
		return nil, false
	}
	return nodes[0], true
}

// SetAttr sets an attribute
func (tx *Tx) SetAttr(n *Node, key, val string) {
	for i, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == key {
			if a.Val == val {
				return
			}
			n.n.Attr[i].Val = val
			tx.record(element.MutationAttributes, n.n, key)
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: key, Val: val})
	tx.record(element.MutationAttributes, n.n, key)
}

// RemoveAttr removes an attribute
func (tx *Tx) RemoveAttr(n *Node, key string) {
	for i, a := range n.n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.n.Attr = append(n.n.Attr[:i:i], n.n.Attr[i+1:]...)
			tx.record(element.MutationAttributes, n.n, key)
			return
		}
	}
}

// AddClass adds a class token
func (tx *Tx) AddClass(n *Node, c string) {
	if hasClass(n.n, c) {
		return
	}
	v, _ := getAttr(n.n, "class")
	tx.SetAttr(n, "class", strings.TrimSpace(v+" "+c))
}

// RemoveClass removes a class token
func (tx *Tx) RemoveClass(n *Node, c string) {
	if !hasClass(n.n, c) {
		return
	}
	v, _ := getAttr(n.n, "class")
	var kept []string
	for _, f := range strings.Fields(v) {
		if f != c {
			kept = append(kept, f)
		}
	}
	tx.SetAttr(n, "class", strings.Join(kept, " "))
}

// SetText replaces the children with a text node
func (tx *Tx) SetText(n *Node, text string) {
	if n.n.FirstChild != nil && n.n.FirstChild == n.n.LastChild &&
		n.n.FirstChild.Type == html.TextNode && n.n.FirstChild.Data == text {
		return
	}
	tx.clearChildren(n.n)
	n.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	tx.record(element.MutationChildList, n.n, "")
}

// Remove detaches a node. Focus inside it is dropped.
func (tx *Tx) Remove(n *Node) {
	parent := n.n.Parent
	if parent == nil {
		return
	}
	if tx.d.active != nil && contains(n.n, tx.d.active) {
		tx.d.active = nil
	}
	parent.RemoveChild(n.n)
	tx.d.forgetLocked(n.n)
	tx.record(element.MutationChildList, parent, "")
}

// AppendHTML parses markup in the context of parent and appends the result
func (tx *Tx) AppendHTML(parent *Node, markup string) ([]*Node, error) {
	frag, err := html.ParseFragment(strings.NewReader(markup), parent.n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	out := make([]*Node, 0, len(frag))
	for _, c := range frag {
		parent.n.AppendChild(c)
		out = append(out, tx.d.wrapLocked(c))
	}
	if len(frag) > 0 {
		tx.record(element.MutationChildList, parent.n, "")
	}
	return out, nil
}

// ReplaceChildren swaps the children of parent for parsed markup
func (tx *Tx) ReplaceChildren(parent *Node, markup string) ([]*Node, error) {
	frag, err := html.ParseFragment(strings.NewReader(markup), parent.n)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fragment: %w", err)
	}
	tx.clearChildren(parent.n)
	out := make([]*Node, 0, len(frag))
	for _, c := range frag {
		parent.n.AppendChild(c)
		out = append(out, tx.d.wrapLocked(c))
	}
	tx.record(element.MutationChildList, parent.n, "")
	return out, nil
}

func (tx *Tx) clearChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if tx.d.active != nil && contains(c, tx.d.active) {
			tx.d.active = nil
		}
		n.RemoveChild(c)
		tx.d.forgetLocked(c)
		c = next
	}
}

func contains(root, n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == root {
			return true
		}
	}
	return false
}
