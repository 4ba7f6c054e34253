package table

import (
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/sprite"
)

// addTableCards puts the snapshot's pile on the board, second card first so
// the top is drawn above it.
func (c *Context) addTableCards() error {
	for i := game.MaxTableCards - 1; i >= 0; i-- {
		name, ok := c.state.TableCard(i)
		if !ok {
			continue
		}
		tex, err := c.texture(name)
		if err != nil {
			return err
		}
		c.reg.Replace(sprite.Table(i), tex, layout.Table())
	}
	return nil
}

// reconcilePile brings the pile slots in line with the snapshot. Slots that
// already show the right card are left alone, even mid-flight; anything else
// is hidden and replaced.
func (c *Context) reconcilePile() error {
	for i := game.MaxTableCards - 1; i >= 0; i-- {
		key := sprite.Table(i)
		name, want := c.state.TableCard(i)
		cur, have := c.reg.Get(key)
		switch {
		case !want && have:
			c.reg.Take(key)
			cur.Visible = false
			cur.Disarm()
		case want && (!have || cur.Texture == nil || cur.Texture.Name != name):
			tex, err := c.texture(name)
			if err != nil {
				return err
			}
			c.logger.Debug().Str("slot", key.String()).Str("card", string(name)).Msg("Pile out of step with snapshot")
			c.reg.Replace(key, tex, layout.Table())
		}
	}

	top, hasTop := c.reg.Get(sprite.Table(0))
	second, hasSecond := c.reg.Get(sprite.Table(1))
	if hasTop && hasSecond && top.Z < second.Z {
		c.reg.Raise(top)
	}
	return nil
}
