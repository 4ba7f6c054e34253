package table

import (
	"time"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/sprite"
	"voyager.com/golfclient/internal/tween"
)

const (
	stepDeckSlide   = "deck-slide"
	stepTableReveal = "table-reveal"
	stepTableDeal   = "table-deal"
)

// onGameStarted deals every hand from the deck. Cards go out highest index
// first, one stagger apart. The last card of the last seat starts the deal
// timeline, so the deck slides and the pile appears exactly once.
func (c *Context) onGameStarted(m *game.GameStarted) error {
	c.state = &m.Game
	start := layout.Deck(game.StatusInit)
	t := c.timings

	var last *tween.Tween
	for i := range c.state.Players {
		p := &c.state.Players[i]
		if err := c.addHand(p, start, true); err != nil {
			return err
		}
		for order := 0; order < len(p.Hand); order++ {
			index := len(p.Hand) - 1 - order
			s, _ := c.reg.Get(sprite.Hand(p.Position, index))
			to := layout.Hand(p.Position, index)
			last = c.sched.New(s).
				To(tween.Props{tween.PropX: to.X, tween.PropY: to.Y, tween.PropRotation: to.Rotation}, t.Deal).
				Delay(t.DealStagger * time.Duration(order)).
				Easing(tween.CubicInOut).
				Start()
		}
	}

	tl := c.dealTimeline()
	c.deal = tl
	if last == nil {
		tl.Start()
		return nil
	}
	tl.After(last)
	return nil
}

func (c *Context) dealTimeline() *tween.Timeline {
	t := c.timings
	return tween.NewTimeline(c.sched, "deal").
		Then(stepDeckSlide, func() *tween.Tween {
			c.dealChains++
			deck, ok := c.reg.Get(sprite.Deck())
			if !ok {
				return nil
			}
			return c.sched.New(deck).
				To(tween.Props{tween.PropX: layout.DeckX}, t.DeckSlide).
				Easing(tween.QuadraticOut)
		}).
		Do(stepTableReveal, func() {
			// a mid-game snapshot already put the pile on the board
			if c.tableRevealed {
				return
			}
			if err := c.addTableCards(); err != nil {
				c.fail(err)
				return
			}
			c.tableRevealed = true
			c.applyAffordances()
		}).
		Then(stepTableDeal, func() *tween.Tween {
			top, ok := c.reg.Get(sprite.Table(0))
			if !ok || c.Frozen() {
				return nil
			}
			deck, ok := c.reg.Get(sprite.Deck())
			if !ok {
				return nil
			}
			to := layout.Table()
			top.X, top.Y = deck.X, deck.Y
			return c.sched.New(top).
				To(tween.Props{tween.PropX: to.X, tween.PropY: to.Y}, t.TableDeal).
				Easing(tween.QuadraticOut)
		}).
		OnStep(func(name string) {
			c.logger.Debug().Str("step", name).Msg("Deal timeline")
		})
}
