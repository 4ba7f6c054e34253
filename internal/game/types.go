package game

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrProtocol marks a snapshot or event that does not agree with itself or with
// the client. The client cannot recover from it locally.
var ErrProtocol = errors.New("protocol violation")

func protocolErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrProtocol, format, args...)
}

// IsProtocolError reports whether err was caused by ErrProtocol.
func IsProtocolError(err error) bool {
	return errors.Cause(err) == ErrProtocol
}

// HandSize is the number of cards dealt to each player.
const HandSize = 6

// MaxTableCards is how deep the visible table pile goes.
const MaxTableCards = 2

// CardName is always two characters: rank followed by suit.
type CardName string

// DownCard is the reserved name of the card back.
const DownCard CardName = "2B"

const (
	Ranks = "A23456789TJQK"
	Suits = "CDHS"
)

// IsValid reports whether the name is the card back or a rank+suit pair.
func (c CardName) IsValid() bool {
	if c == DownCard {
		return true
	}
	if len(c) != 2 {
		return false
	}
	return containsByte(Ranks, c[0]) && containsByte(Suits, c[1])
}

func containsByte(s string, b byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusInit  Status = "init"
	StatusFlip2 Status = "flip_2"
	StatusTake  Status = "take"
	StatusHold  Status = "hold"
	StatusFlip  Status = "flip"
	StatusOver  Status = "over"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusInit, StatusFlip2, StatusTake, StatusHold, StatusFlip, StatusOver:
		return true
	}
	return false
}

// Position is a seat around the table, in screen space.
type Position string

const (
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionTop    Position = "top"
	PositionRight  Position = "right"
)

// Positions lists the seats clockwise starting from the near seat.
var Positions = []Position{PositionBottom, PositionLeft, PositionTop, PositionRight}

func (p Position) IsValid() bool {
	switch p {
	case PositionBottom, PositionLeft, PositionTop, PositionRight:
		return true
	}
	return false
}

type HandCard struct {
	Name   CardName `json:"name"`
	FaceUp bool     `json:"face_up?"`
}

// Visible is the name the render layer may see for this card.
func (h HandCard) Visible() CardName {
	if h.FaceUp {
		return h.Name
	}
	return DownCard
}

type Player struct {
	ID       int64      `json:"id"`
	UserID   int64      `json:"user_id"`
	Username string     `json:"username"`
	Hand     []HandCard `json:"hand"`
	HeldCard *CardName  `json:"held_card,omitempty"`
	Turn     int        `json:"turn"`
	Position Position   `json:"position"`
	Score    int        `json:"score"`
}

func (p *Player) String() string {
	return fmt.Sprintf("%d:%s", p.ID, p.Position)
}
