package dom

import (
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// inlineStyle returns the value of one property from the style attribute
func inlineStyle(n *html.Node, property string) (string, bool) {
	v, ok := getAttr(n, "style")
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	decls, err := parser.ParseDeclarations(v)
	if err != nil {
		return "", false
	}
	// Later declarations win, !important beats everything
	var (
		value     string
		found     bool
		important bool
	)
	for _, d := range decls {
		if !strings.EqualFold(d.Property, property) {
			continue
		}
		if important && !d.Important {
			continue
		}
		value = strings.ToLower(strings.TrimSpace(d.Value))
		found = true
		important = d.Important
	}
	return value, found
}

// hiddenByAncestors reports whether the node or an ancestor is out of layout:
// the hidden attribute, display:none, or a <template>.
func hiddenByAncestors(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if _, ok := getAttr(p, "hidden"); ok {
			return true
		}
		if p.Data == "template" {
			return true
		}
		if d, ok := inlineStyle(p, "display"); ok && d == "none" {
			return true
		}
	}
	return false
}

// visibilityHidden resolves the inherited visibility property
func visibilityHidden(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := inlineStyle(p, "visibility"); ok && v != "inherit" {
			return v == "hidden" || v == "collapse"
		}
	}
	return false
}
