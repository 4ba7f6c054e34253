package table

import (
	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/metrics"
	"voyager.com/golfclient/internal/sprite"
)

func (c *Context) clickHandler(key sprite.Key, s *sprite.Sprite) func() {
	return func() {
		if err := c.click(key, s); err != nil && errors.Cause(err) == ErrWrongPlayer {
			c.fail(err)
		}
	}
}

// action builds the outbound action for a click on the sprite at key.
func (c *Context) action(key sprite.Key, s *sprite.Sprite) (game.ClientAction, error) {
	viewer, ok := c.state.ViewerID()
	if !ok {
		return nil, errors.Wrapf(ErrWrongPlayer, "Click on %s while spectating", key)
	}
	switch key.Kind {
	case sprite.KindHand:
		if !s.Owned || s.Owner != viewer {
			return nil, errors.Wrapf(ErrWrongPlayer, "Click on %s owned by player %d, viewer is %d", key, s.Owner, viewer)
		}
		return game.HandClick{PlayerID: viewer, HandIndex: key.Index}, nil
	case sprite.KindHeld:
		if !s.Owned || s.Owner != viewer {
			return nil, errors.Wrapf(ErrWrongPlayer, "Click on held card owned by player %d, viewer is %d", s.Owner, viewer)
		}
		return game.HeldClick{PlayerID: viewer}, nil
	case sprite.KindDeck:
		return game.DeckClick{PlayerID: viewer}, nil
	case sprite.KindTable:
		return game.TableClick{PlayerID: viewer}, nil
	}
	return nil, errors.Errorf("No action for slot %s", key)
}

// click sends one action for the sprite. Transport failures are logged and
// dropped; the server state will tell the player to try again.
func (c *Context) click(key sprite.Key, s *sprite.Sprite) error {
	act, err := c.action(key, s)
	if err != nil {
		return err
	}
	c.logger.Debug().
		Str(logging.ActionKey, act.Name()).
		Str(logging.SlotKey, key.String()).
		Int64(logging.PlayerIDKey, act.Actor()).
		Msg("Click")
	if err := c.sink.Send(act); err != nil {
		metrics.Metrics.ActionDropped()
		c.logger.Warn().Err(err).Str(logging.ActionKey, act.Name()).Msg("Could not send action")
		return err
	}
	metrics.Metrics.OutboundAction(act.Name())
	return nil
}

// Click clicks the sprite bound at key as if the pointer had hit it. It
// returns false when the slot is empty or takes no input.
func (c *Context) Click(key sprite.Key) bool {
	if c.Frozen() {
		return false
	}
	s, ok := c.reg.Get(key)
	if !ok || !s.Visible {
		return false
	}
	return s.Click()
}
