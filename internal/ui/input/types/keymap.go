package types

import (
	"tvnav/internal/config"
	"tvnav/internal/domain"
)

// Binding is what a key is bound to
type Binding int

const (
	BindingNone Binding = iota
	BindingMove
	BindingActivate
	BindingBack
)

// KeyMap resolves key names to bindings
type KeyMap struct {
	moves    map[string]domain.Direction
	activate map[string]struct{}
	back     map[string]struct{}
}

// NewKeyMap builds a key map from the configured key names. A key listed
// twice keeps its first binding, checked in the order moves, activate, back.
func NewKeyMap(keys config.Keys) *KeyMap {
	km := &KeyMap{
		moves:    make(map[string]domain.Direction),
		activate: make(map[string]struct{}),
		back:     make(map[string]struct{}),
	}
	bindMoves := func(names []string, dir domain.Direction) {
		for _, k := range names {
			if _, ok := km.moves[k]; !ok {
				km.moves[k] = dir
			}
		}
	}
	bindMoves(keys.Up, domain.DirectionUp)
	bindMoves(keys.Down, domain.DirectionDown)
	bindMoves(keys.Left, domain.DirectionLeft)
	bindMoves(keys.Right, domain.DirectionRight)

	for _, k := range keys.Activate {
		if _, ok := km.moves[k]; !ok {
			km.activate[k] = struct{}{}
		}
	}
	for _, k := range keys.Back {
		_, mv := km.moves[k]
		_, act := km.activate[k]
		if !mv && !act {
			km.back[k] = struct{}{}
		}
	}
	return km
}

// DefaultKeyMap uses the default key names
func DefaultKeyMap() *KeyMap {
	return NewKeyMap(config.DefaultKeys())
}

// Lookup returns the binding for key; the direction is set for moves only
func (k *KeyMap) Lookup(key string) (Binding, domain.Direction) {
	if dir, ok := k.moves[key]; ok {
		return BindingMove, dir
	}
	if _, ok := k.activate[key]; ok {
		return BindingActivate, 0
	}
	if _, ok := k.back[key]; ok {
		return BindingBack, 0
	}
	return BindingNone, 0
}
