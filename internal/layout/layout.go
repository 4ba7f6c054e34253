// Package layout maps logical slots to board coordinates.
//
// Every coordinate is defined once for the near (bottom) seat as an offset from
// the board centre. The other seats are the same offsets turned a quarter turn
// per seat around the centre, so the board must be square.
package layout

import (
	"math"

	"voyager.com/golfclient/internal/game"
)

const (
	BoardWidth  = 600
	BoardHeight = 600

	CenterX = BoardWidth / 2
	CenterY = BoardHeight / 2

	CardSourceWidth  = 240
	CardSourceHeight = 336
	CardScale        = 0.25

	CardWidth  = CardSourceWidth * CardScale
	CardHeight = CardSourceHeight * CardScale

	HandXPadding = 3
	HandYPadding = 10

	DeckInitX  = CenterX
	DeckX      = CenterX - CardWidth/2
	DeckY      = CenterY
	TableCardX = CenterX + CardWidth/2 + 2
	TableCardY = CenterY
)

// Kind is the kind of slot being placed.
type Kind int

const (
	KindDeck Kind = iota
	KindDeckInit
	KindTable
	KindHeld
	KindHand
)

func (k Kind) String() string {
	switch k {
	case KindDeck:
		return "deck"
	case KindDeckInit:
		return "deck_init"
	case KindTable:
		return "table"
	case KindHeld:
		return "held"
	case KindHand:
		return "hand"
	}
	return "unknown"
}

// Coord is a sprite centre and its rotation in radians.
type Coord struct {
	X        float64
	Y        float64
	Rotation float64
}

type offset struct {
	dx, dy float64
}

// Near-seat offsets from the centre. Hand slots 0-2 are the inner row.
var (
	innerRowY = BoardHeight - CardHeight*1.5 - HandYPadding*1.3 - CenterY
	outerRowY = BoardHeight - CardHeight/2 - HandYPadding - CenterY

	handOffsets = [game.HandSize]offset{
		{-CardWidth - HandXPadding, innerRowY},
		{0, innerRowY},
		{CardWidth + HandXPadding, innerRowY},
		{-CardWidth - HandXPadding, outerRowY},
		{0, outerRowY},
		{CardWidth + HandXPadding, outerRowY},
	}

	heldOffset = offset{CardWidth * 2.5, BoardHeight - CardHeight - HandYPadding - CenterY}
)

// quarterTurns is how many clockwise quarter turns take the near seat to each seat.
var quarterTurns = map[game.Position]int{
	game.PositionBottom: 0,
	game.PositionLeft:   1,
	game.PositionTop:    2,
	game.PositionRight:  3,
}

// SeatRotation is the card rotation of a seat. Side seats lie sideways.
func SeatRotation(seat game.Position) float64 {
	if seat == game.PositionLeft || seat == game.PositionRight {
		return math.Pi / 2
	}
	return 0
}

func turn(seat game.Position, o offset) (float64, float64) {
	switch quarterTurns[seat] {
	case 1:
		return -o.dy, o.dx
	case 2:
		return -o.dx, -o.dy
	case 3:
		return o.dy, -o.dx
	}
	return o.dx, o.dy
}

// SlotPosition returns the resting coordinate of a slot. The seat is ignored
// for the deck and the table pile. Hand indexes wrap modulo the hand size and
// unknown seats are placed like the near seat, so the function is total.
func SlotPosition(seat game.Position, kind Kind, index int) Coord {
	switch kind {
	case KindDeck:
		return Coord{X: DeckX, Y: DeckY}
	case KindDeckInit:
		return Coord{X: DeckInitX, Y: DeckY}
	case KindTable:
		return Coord{X: TableCardX, Y: TableCardY}
	case KindHeld:
		dx, dy := turn(seat, heldOffset)
		return Coord{X: CenterX + dx, Y: CenterY + dy, Rotation: SeatRotation(seat)}
	case KindHand:
		i := ((index % game.HandSize) + game.HandSize) % game.HandSize
		dx, dy := turn(seat, handOffsets[i])
		return Coord{X: CenterX + dx, Y: CenterY + dy, Rotation: SeatRotation(seat)}
	}
	return Coord{X: CenterX, Y: CenterY}
}

// Deck is the deck coordinate for a game status. The deck sits at the centre
// until the deal slides it left to make room for the table pile.
func Deck(status game.Status) Coord {
	if status == game.StatusInit {
		return SlotPosition(game.PositionBottom, KindDeckInit, 0)
	}
	return SlotPosition(game.PositionBottom, KindDeck, 0)
}

func Hand(seat game.Position, index int) Coord {
	return SlotPosition(seat, KindHand, index)
}

func Held(seat game.Position) Coord {
	return SlotPosition(seat, KindHeld, 0)
}

func Table() Coord {
	return SlotPosition(game.PositionBottom, KindTable, 0)
}

// CardSize is the on-board card size before rotation.
func CardSize() (float64, float64) {
	return CardWidth, CardHeight
}
