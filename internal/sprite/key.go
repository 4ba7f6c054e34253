package sprite

import (
	"fmt"

	"voyager.com/golfclient/internal/game"
)

type Kind int

const (
	KindDeck Kind = iota
	KindTable
	KindHeld
	KindHand
)

// Key addresses a slot in the registry. Table(0) is the top of the pile.
type Key struct {
	Kind  Kind
	Seat  game.Position
	Index int
}

func Deck() Key {
	return Key{Kind: KindDeck}
}

func Table(i int) Key {
	return Key{Kind: KindTable, Index: i}
}

func Held() Key {
	return Key{Kind: KindHeld}
}

func Hand(seat game.Position, i int) Key {
	return Key{Kind: KindHand, Seat: seat, Index: i}
}

// Place returns the playable-set name of the slot. Only the top of the table
// pile has one.
func (k Key) Place() (game.Place, bool) {
	switch k.Kind {
	case KindDeck:
		return game.PlaceDeck, true
	case KindTable:
		if k.Index == 0 {
			return game.PlaceTable, true
		}
	case KindHeld:
		return game.PlaceHeld, true
	case KindHand:
		return game.HandPlace(k.Index), true
	}
	return "", false
}

func (k Key) String() string {
	switch k.Kind {
	case KindDeck:
		return "deck"
	case KindTable:
		return fmt.Sprintf("table_%d", k.Index)
	case KindHeld:
		return "held"
	case KindHand:
		return fmt.Sprintf("%s/hand_%d", k.Seat, k.Index)
	}
	return "unknown"
}

func seatOrder(p game.Position) int {
	for i, seat := range game.Positions {
		if seat == p {
			return i
		}
	}
	return len(game.Positions)
}

func (k Key) less(o Key) bool {
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if k.Seat != o.Seat {
		return seatOrder(k.Seat) < seatOrder(o.Seat)
	}
	return k.Index < o.Index
}
