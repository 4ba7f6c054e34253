package table

import (
	"time"

	"github.com/pkg/errors"
)

const (
	TableState__LOADING string = "LOADING"
	TableState__RUNNING string = "RUNNING"
	TableState__FROZEN  string = "FROZEN"

	TableEvent__MOUNTED string = "MOUNTED"
	TableEvent__FAIL    string = "FAIL"
)

var (
	// ErrWrongPlayer is a click on a card that is not the viewer's. It is a
	// local bug: the action is never sent and the table freezes.
	ErrWrongPlayer = errors.New("click on a card the viewer does not own")

	// ErrFrozen is returned for messages that arrive after the table froze.
	ErrFrozen = errors.New("table is frozen")
)

// IsFrozen reports whether err was caused by ErrFrozen.
func IsFrozen(err error) bool {
	return errors.Cause(err) == ErrFrozen
}

// Timings holds every animation duration and delay.
type Timings struct {
	Deal           time.Duration
	DealStagger    time.Duration
	DeckSlide      time.Duration
	TableDeal      time.Duration
	Take           time.Duration
	TakeDelay      time.Duration
	SwapHeld       time.Duration
	SwapTable      time.Duration
	SwapTableDelay time.Duration
	Discard        time.Duration
	Wiggle         time.Duration
	WiggleDistance float64
	WiggleRepeats  int
}

func DefaultTimings() Timings {
	return Timings{
		Deal:           800 * time.Millisecond,
		DealStagger:    180 * time.Millisecond,
		DeckSlide:      200 * time.Millisecond,
		TableDeal:      400 * time.Millisecond,
		Take:           800 * time.Millisecond,
		TakeDelay:      150 * time.Millisecond,
		SwapHeld:       500 * time.Millisecond,
		SwapTable:      700 * time.Millisecond,
		SwapTableDelay: 200 * time.Millisecond,
		Discard:        800 * time.Millisecond,
		Wiggle:         150 * time.Millisecond,
		WiggleDistance: 1,
		WiggleRepeats:  2,
	}
}

// Scaled divides every duration by speed. Speeds of zero or less leave the
// timings unchanged.
func (t Timings) Scaled(speed float64) Timings {
	if speed <= 0 || speed == 1 {
		return t
	}
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) / speed)
	}
	t.Deal = scale(t.Deal)
	t.DealStagger = scale(t.DealStagger)
	t.DeckSlide = scale(t.DeckSlide)
	t.TableDeal = scale(t.TableDeal)
	t.Take = scale(t.Take)
	t.TakeDelay = scale(t.TakeDelay)
	t.SwapHeld = scale(t.SwapHeld)
	t.SwapTable = scale(t.SwapTable)
	t.SwapTableDelay = scale(t.SwapTableDelay)
	t.Discard = scale(t.Discard)
	t.Wiggle = scale(t.Wiggle)
	return t
}

// Instant has zero durations, so every animation lands on its first tick.
func (t Timings) Instant() Timings {
	return Timings{WiggleDistance: t.WiggleDistance, WiggleRepeats: t.WiggleRepeats}
}
