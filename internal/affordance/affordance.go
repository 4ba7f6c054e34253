// Package affordance decides which sprites take input and wires their
// callbacks.
package affordance

import (
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/sprite"
)

// Grant makes s clickable with the pointer cursor and the playable outline.
// Any earlier callback is replaced.
func Grant(s *sprite.Sprite, onClick func()) {
	s.Arm(onClick)
}

// Revoke clears input, cursor, outline and callback.
func Revoke(s *sprite.Sprite) {
	s.Disarm()
}

// Handlers builds the click callback for a slot.
type Handlers interface {
	OnClick(key sprite.Key, s *sprite.Sprite) func()
}

// HandlersFunc adapts a function to Handlers.
type HandlersFunc func(key sprite.Key, s *sprite.Sprite) func()

func (f HandlersFunc) OnClick(key sprite.Key, s *sprite.Sprite) func() {
	return f(key, s)
}

// Rule is the affordance rule for one snapshot: the playable-slot set and
// the viewer, resolved once.
type Rule struct {
	playable game.PlaceSet
	viewer   int64
	seated   bool
}

func NewRule(state *game.State) Rule {
	viewer, seated := state.ViewerID()
	return Rule{playable: state.Playable(), viewer: viewer, seated: seated}
}

// Allows reports whether the viewer may act on the sprite at key. Hand and
// held sprites must sit in the viewer's seat; deck and table only need a
// seated viewer.
func (r Rule) Allows(key sprite.Key, s *sprite.Sprite) bool {
	if !r.seated {
		return false
	}
	place, ok := key.Place()
	if !ok || !r.playable.Contains(place) {
		return false
	}
	switch key.Kind {
	case sprite.KindHand, sprite.KindHeld:
		return s.Owned && s.Owner == r.viewer
	}
	return true
}

// Apply grants every bound sprite the viewer may act on and revokes
// everything else, unbound sprites included. It returns the granted keys in
// slot order. Applying twice gives the same result as applying once.
func Apply(reg *sprite.Registry, state *game.State, handlers Handlers) []sprite.Key {
	for _, s := range reg.Unbound() {
		Revoke(s)
	}
	rule := NewRule(state)
	var granted []sprite.Key
	for _, key := range reg.Keys() {
		s, _ := reg.Get(key)
		if rule.Allows(key, s) {
			Grant(s, handlers.OnClick(key, s))
			granted = append(granted, key)
			continue
		}
		Revoke(s)
	}
	return granted
}

// Interactive lists the bound keys that currently carry a handler.
func Interactive(reg *sprite.Registry) []sprite.Key {
	var keys []sprite.Key
	for _, key := range reg.Keys() {
		s, _ := reg.Get(key)
		if s.Interactive && s.HasHandler() {
			keys = append(keys, key)
		}
	}
	return keys
}
