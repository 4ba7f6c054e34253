package table

import (
	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/affordance"
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/sprite"
	"voyager.com/golfclient/internal/tween"
)

func handCard(p *game.Player, index int) (game.HandCard, error) {
	if index >= len(p.Hand) {
		return game.HandCard{}, errors.Wrapf(game.ErrProtocol, "Player %d has no card at hand_%d", p.ID, index)
	}
	return p.Hand[index], nil
}

func heldCard(p *game.Player) (game.CardName, error) {
	if p.HeldCard == nil {
		return "", errors.Wrapf(game.ErrProtocol, "Player %d holds no card after taking one", p.ID)
	}
	return *p.HeldCard, nil
}

func (c *Context) topTableCard() (game.CardName, error) {
	name, ok := c.state.TableCard(0)
	if !ok {
		return "", errors.Wrap(game.ErrProtocol, "Table pile is empty after a card was put on it")
	}
	return name, nil
}

// onFlip reveals a hand card in place. It is the same physical card, so the
// sprite keeps its identity and only its texture changes.
func (c *Context) onFlip(p *game.Player, m game.Flip) error {
	card, err := handCard(p, m.HandIndex)
	if err != nil {
		return err
	}
	if !card.FaceUp {
		return errors.Wrapf(game.ErrProtocol, "Player %d flipped hand_%d but it is still face down", p.ID, m.HandIndex)
	}
	tex, err := c.texture(card.Name)
	if err != nil {
		return err
	}
	home := layout.Hand(p.Position, m.HandIndex)
	s, created := c.reg.Materialize(sprite.Hand(p.Position, m.HandIndex), tex, home)
	if created {
		s.SetOwner(p.ID)
	}
	s.Texture = tex
	c.wiggle(s, home.X)
	return nil
}

// wiggle shakes s around homeX and leaves it exactly on homeX.
func (c *Context) wiggle(s *sprite.Sprite, homeX float64) {
	t := c.timings
	half := t.Wiggle / 2
	settle := c.sched.New(s).
		To(tween.Props{tween.PropX: homeX}, half).
		Easing(tween.QuadraticOut)

	s.X = homeX - t.WiggleDistance
	c.sched.New(s).
		To(tween.Props{tween.PropX: homeX + t.WiggleDistance}, half).
		Easing(tween.QuinticInOut).
		Repeat(t.WiggleRepeats).
		Yoyo(true).
		Chain(settle).
		Start()
}

// onTakeFromDeck flies a new held card from the deck to the seat.
func (c *Context) onTakeFromDeck(p *game.Player) error {
	name, err := heldCard(p)
	if err != nil {
		return err
	}
	tex, err := c.texture(name)
	if err != nil {
		return err
	}
	from := layout.Deck(c.state.Status)
	if deck, ok := c.reg.Get(sprite.Deck()); ok {
		from = deck.Coord()
	}
	from.Rotation = 0

	held := c.reg.Replace(sprite.Held(), tex, from)
	held.SetOwner(p.ID)
	to := layout.Held(p.Position)
	c.sched.New(held).
		To(tween.Props{tween.PropX: to.X, tween.PropY: to.Y, tween.PropRotation: to.Rotation}, c.timings.Take).
		Delay(c.timings.TakeDelay).
		Easing(tween.QuadraticInOut).
		Start()

	if c.state.IsViewer(p.ID) {
		c.revokePiles()
	}
	return nil
}

// onTakeFromTable flies the top of the pile to the seat. The consumed table
// sprite leaves its slot at once but stays visible until the flight starts.
func (c *Context) onTakeFromTable(p *game.Player) error {
	name, err := heldCard(p)
	if err != nil {
		return err
	}
	tex, err := c.texture(name)
	if err != nil {
		return err
	}

	from := layout.Table()
	top, hadTop := c.reg.Take(sprite.Table(0))
	if hadTop {
		affordance.Revoke(top)
		from = top.Coord()
	}
	from.Rotation = 0
	c.reg.Rebind(sprite.Table(1), sprite.Table(0))

	held := c.reg.Replace(sprite.Held(), tex, from)
	held.SetOwner(p.ID)
	to := layout.Held(p.Position)
	fly := c.sched.New(held).
		To(tween.Props{tween.PropX: to.X, tween.PropY: to.Y, tween.PropRotation: to.Rotation}, c.timings.Take).
		Easing(tween.QuadraticInOut)
	if hadTop {
		fly.OnStart(func() { top.Visible = false })
	}
	fly.Start()

	if c.state.IsViewer(p.ID) {
		c.revokePiles()
	}
	return nil
}

func (c *Context) revokePiles() {
	if deck, ok := c.reg.Get(sprite.Deck()); ok {
		affordance.Revoke(deck)
	}
	if top, ok := c.reg.Get(sprite.Table(0)); ok {
		affordance.Revoke(top)
	}
}

// onSwap moves the held card into a hand slot and the old hand card onto the
// pile. The hand slot gets a fresh hidden sprite that shows once the held card
// lands, and the pile gets a fresh top that flies in from the hand slot.
func (c *Context) onSwap(p *game.Player, m game.Swap) error {
	card, err := handCard(p, m.HandIndex)
	if err != nil {
		return err
	}
	handTex, err := c.texture(card.Visible())
	if err != nil {
		return err
	}
	topName, err := c.topTableCard()
	if err != nil {
		return err
	}
	topTex, err := c.texture(topName)
	if err != nil {
		return err
	}
	held, ok := c.reg.Take(sprite.Held())
	if !ok {
		return errors.Wrapf(game.ErrProtocol, "Player %d swapped without a held card on the board", p.ID)
	}
	affordance.Revoke(held)

	handKey := sprite.Hand(p.Position, m.HandIndex)
	slot := layout.Hand(p.Position, m.HandIndex)
	hand := c.reg.Replace(handKey, handTex, slot)
	hand.SetOwner(p.ID)
	hand.Visible = false

	c.reg.Rebind(sprite.Table(0), sprite.Table(1))
	top := c.reg.Replace(sprite.Table(0), topTex, slot)
	c.reg.Raise(top)

	c.sched.New(held).
		To(tween.Props{tween.PropX: slot.X, tween.PropY: slot.Y}, c.timings.SwapHeld).
		Easing(tween.QuadraticInOut).
		OnComplete(func() {
			held.Visible = false
			// a later swap may have replaced the slot already
			if cur, ok := c.reg.Get(handKey); ok && cur == hand {
				hand.Visible = true
			}
		}).
		Start()

	pile := layout.Table()
	c.sched.New(top).
		To(tween.Props{tween.PropX: pile.X, tween.PropY: pile.Y, tween.PropRotation: 0}, c.timings.SwapTable).
		Delay(c.timings.SwapTableDelay).
		Easing(tween.QuadraticInOut).
		Start()
	return nil
}

// onDiscard throws the held card onto the pile.
func (c *Context) onDiscard(p *game.Player) error {
	topName, err := c.topTableCard()
	if err != nil {
		return err
	}
	tex, err := c.texture(topName)
	if err != nil {
		return err
	}

	from := layout.Held(p.Position)
	held, hadHeld := c.reg.Take(sprite.Held())
	if hadHeld {
		affordance.Revoke(held)
		from = held.Coord()
	}
	from.Rotation = layout.SeatRotation(p.Position)

	c.reg.Rebind(sprite.Table(0), sprite.Table(1))
	top := c.reg.Replace(sprite.Table(0), tex, from)
	c.reg.Raise(top)

	pile := layout.Table()
	fly := c.sched.New(top).
		To(tween.Props{tween.PropX: pile.X, tween.PropY: pile.Y, tween.PropRotation: 0}, c.timings.Discard).
		Easing(tween.QuadraticInOut)
	if hadHeld {
		fly.OnStart(func() { held.Visible = false })
	}
	fly.Start()
	return nil
}
