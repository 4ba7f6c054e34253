// Package sprite holds the visual card objects and the registry that binds
// them to logical slots.
package sprite

import (
	"fmt"
	"math"

	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/tween"
)

// Sprite is one card on the board. X and Y are the card centre.
type Sprite struct {
	ID       int
	Texture  *assets.Texture
	X        float64
	Y        float64
	Rotation float64
	W        float64
	H        float64
	Z        int

	Visible     bool
	Interactive bool
	Cursor      bool
	Outline     bool

	// Owner is the player whose seat the card sits in. Deck and table
	// sprites have no owner.
	Owner int64
	Owned bool

	onClick func()
}

func (s *Sprite) Get(p tween.Property) float64 {
	switch p {
	case tween.PropX:
		return s.X
	case tween.PropY:
		return s.Y
	case tween.PropRotation:
		return s.Rotation
	}
	return 0
}

func (s *Sprite) Set(p tween.Property, v float64) {
	switch p {
	case tween.PropX:
		s.X = v
	case tween.PropY:
		s.Y = v
	case tween.PropRotation:
		s.Rotation = v
	}
}

// MoveTo places the sprite at c without animating.
func (s *Sprite) MoveTo(c layout.Coord) {
	s.X = c.X
	s.Y = c.Y
	s.Rotation = c.Rotation
}

// Coord returns the current position.
func (s *Sprite) Coord() layout.Coord {
	return layout.Coord{X: s.X, Y: s.Y, Rotation: s.Rotation}
}

// SetOwner records the seat owner.
func (s *Sprite) SetOwner(playerID int64) {
	s.Owner = playerID
	s.Owned = true
}

// Arm makes the sprite clickable. A previous callback is replaced.
func (s *Sprite) Arm(onClick func()) {
	s.Interactive = true
	s.Cursor = true
	s.Outline = true
	s.onClick = onClick
}

// Disarm removes input, cursor, outline and the callback. Hiding a sprite does
// not do this.
func (s *Sprite) Disarm() {
	s.Interactive = false
	s.Cursor = false
	s.Outline = false
	s.onClick = nil
}

// HasHandler reports whether a click callback is attached.
func (s *Sprite) HasHandler() bool {
	return s.onClick != nil
}

// Click runs the callback if the sprite takes input.
func (s *Sprite) Click() bool {
	if !s.Interactive || s.onClick == nil {
		return false
	}
	s.onClick()
	return true
}

// Contains reports whether the board point (x, y) falls on the card, taking
// rotation into account.
func (s *Sprite) Contains(x, y float64) bool {
	dx := x - s.X
	dy := y - s.Y
	sin, cos := math.Sincos(-s.Rotation)
	lx := dx*cos - dy*sin
	ly := dx*sin + dy*cos
	return math.Abs(lx) <= s.W/2 && math.Abs(ly) <= s.H/2
}

func (s *Sprite) String() string {
	name := "-"
	if s.Texture != nil {
		name = string(s.Texture.Name)
	}
	return fmt.Sprintf("#%d %s (%.1f,%.1f) r=%.2f z=%d", s.ID, name, s.X, s.Y, s.Rotation, s.Z)
}
