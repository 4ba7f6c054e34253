// Package table keeps the card table on screen in step with the server. It
// turns snapshots and game events into sprite changes and animations, decides
// which cards take input, and sends the viewer's clicks back.
//
// A Context is not safe for concurrent use. Everything except Pump runs on
// the render loop; other goroutines reach it through the loop inbox.
package table

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/affordance"
	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/metrics"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/sprite"
	"voyager.com/golfclient/internal/tween"
)

// Sink takes the viewer's outbound actions.
type Sink interface {
	Send(action game.ClientAction) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(action game.ClientAction) error

func (f SinkFunc) Send(action game.ClientAction) error {
	return f(action)
}

type Options struct {
	Timings       Timings
	Logger        *zerolog.Logger
	InboxSize     int
	PrintGameMsg  bool
	PrintStateMsg bool
}

type Context struct {
	logger *zerolog.Logger

	state   *game.State
	bundle  assets.Bundle
	sink    Sink
	loop    *render.Loop
	reg     *sprite.Registry
	sched   *tween.Scheduler
	sm      *fsm.FSM
	timings Timings

	// set once the table pile is on the board; until then the deal
	// timeline owns it
	tableRevealed bool
	dealChains    int
	deal          *tween.Timeline
	failure       error

	printGameMsg  bool
	printStateMsg bool
}

// New builds the board for the initial snapshot, waits for the texture
// bundle, and attaches the render loop to mount.
func New(ctx context.Context, initial game.State, mount render.Mount, sink Sink, bundle assets.Bundle, opts Options) (*Context, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.GetZeroLogger("table::Context", nil)
	}
	l := logger.With().Int64(logging.GameIDKey, initial.ID).Logger()

	timings := opts.Timings
	if timings == (Timings{}) {
		timings = DefaultTimings()
	}

	c := &Context{
		logger:        &l,
		state:         &initial,
		bundle:        bundle,
		sink:          sink,
		reg:           sprite.NewRegistry(),
		sched:         tween.NewScheduler(),
		timings:       timings,
		printGameMsg:  opts.PrintGameMsg,
		printStateMsg: opts.PrintStateMsg,
	}
	c.sm = fsm.NewFSM(
		TableState__LOADING,
		fsm.Events{
			{
				Name: TableEvent__MOUNTED,
				Src:  []string{TableState__LOADING},
				Dst:  TableState__RUNNING,
			},
			{
				Name: TableEvent__FAIL,
				Src:  []string{TableState__LOADING, TableState__RUNNING},
				Dst:  TableState__FROZEN,
			},
		},
		fsm.Callbacks{
			"enter_state": func(e *fsm.Event) { c.enterState(e) },
		},
	)
	c.loop = render.NewLoop(c, opts.InboxSize)

	if err := initial.Validate(); err != nil {
		return nil, c.fail(err)
	}
	if err := bundle.Load(ctx); err != nil {
		return nil, c.fail(errors.Wrap(err, "Unable to load card textures"))
	}
	if err := c.materialize(); err != nil {
		return nil, c.fail(err)
	}
	c.applyAffordances()

	if err := mount.Attach(c.loop); err != nil {
		return nil, c.fail(errors.Wrap(err, "Unable to attach render loop"))
	}
	c.event(TableEvent__MOUNTED)
	c.logger.Info().
		Str(logging.StatusKey, string(initial.Status)).
		Int("players", len(initial.Players)).
		Int("sprites", c.reg.Len()).
		Msg("Table mounted")
	return c, nil
}

func (c *Context) enterState(e *fsm.Event) {
	if c.printStateMsg {
		c.logger.Info().Msgf("[%s] ===> [%s]", e.Src, e.Dst)
	}
}

func (c *Context) event(event string) error {
	err := c.sm.Event(event)
	if err != nil {
		c.logger.Warn().Msgf("Error from state machine: %s", err.Error())
	}
	return err
}

// fail freezes the board. The first error is the one reported.
func (c *Context) fail(err error) error {
	if c.sm.Current() == TableState__FROZEN {
		return err
	}
	c.failure = err
	if game.IsProtocolError(err) {
		metrics.Metrics.ProtocolError()
	}
	c.logger.Error().Err(err).Msg("Table frozen")
	c.event(TableEvent__FAIL)
	return err
}

// Loop returns the render loop driving this context.
func (c *Context) Loop() *render.Loop {
	return c.loop
}

// State is the current snapshot.
func (c *Context) State() *game.State {
	return c.state
}

// Status is the lifecycle state name.
func (c *Context) Status() string {
	return c.sm.Current()
}

func (c *Context) Frozen() bool {
	return c.sm.Current() == TableState__FROZEN
}

// Err is the error that froze the table, if any.
func (c *Context) Err() error {
	return c.failure
}

// Advance implements render.Scene.
func (c *Context) Advance(now time.Duration) {
	if c.Frozen() {
		return
	}
	c.sched.Update(now)
	metrics.Metrics.SetActiveTweens(c.sched.Active())
	metrics.Metrics.SetSprites(c.reg.Len())
}

// Frame implements render.Scene.
func (c *Context) Frame() render.Frame {
	f := render.Frame{Sprites: c.reg.Sprites()}
	if c.Frozen() {
		f.Frozen = true
		if c.failure != nil {
			f.Message = c.failure.Error()
		}
	}
	return f
}

// PointerDown implements render.Scene.
func (c *Context) PointerDown(x, y float64) {
	if c.Frozen() {
		return
	}
	s, ok := c.reg.HitTest(x, y)
	if !ok {
		return
	}
	if key, bound := c.reg.KeyOf(s); bound {
		c.logger.Debug().Str("slot", key.String()).Msg("Pointer down")
	}
	s.Click()
}

// Pump forwards server messages into the loop until msgs closes or ctx ends.
// Messages are handled in arrival order.
func (c *Context) Pump(ctx context.Context, msgs <-chan game.ServerMessage) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			err := c.loop.Post(ctx, func() { _ = c.Handle(msg) })
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}

// Handle applies one server message. It must run on the render loop.
func (c *Context) Handle(msg game.ServerMessage) error {
	if c.Frozen() {
		c.logger.Debug().Str(logging.MsgTypeKey, msg.Type()).Msg("Ignoring message on frozen table")
		return ErrFrozen
	}
	metrics.Metrics.InboundMessage(msg.Type())
	if c.printGameMsg {
		c.logger.Info().Str(logging.MsgTypeKey, msg.Type()).Msgf("Received %s", describe(msg))
	}

	snapshot := msg.Snapshot()
	if err := snapshot.Validate(); err != nil {
		return c.fail(err)
	}

	var err error
	switch m := msg.(type) {
	case *game.GameLoaded:
		err = c.onGameLoaded(m)
	case *game.GameStarted:
		err = c.onGameStarted(m)
	case *game.PlayerJoined:
		c.state = &m.Game
	case *game.GameEventMessage:
		err = c.onGameEvent(m)
	default:
		err = errors.Wrapf(game.ErrProtocol, "Unhandled message type %s", msg.Type())
	}
	if err != nil {
		return c.fail(err)
	}

	if c.tableRevealed {
		if err := c.reconcilePile(); err != nil {
			return c.fail(err)
		}
	}
	c.applyAffordances()
	return nil
}

func describe(msg game.ServerMessage) string {
	if m, ok := msg.(*game.GameEventMessage); ok {
		idx := "-"
		if m.Event.HandIndex != nil {
			idx = fmt.Sprint(*m.Event.HandIndex)
		}
		return fmt.Sprintf("%s player=%d action=%s hand_index=%s", msg.Type(), m.Event.PlayerID, m.Event.Action, idx)
	}
	s := msg.Snapshot()
	return fmt.Sprintf("%s status=%s players=%d", msg.Type(), s.Status, len(s.Players))
}

func (c *Context) onGameLoaded(m *game.GameLoaded) error {
	c.logger.Info().Msg("Game reloaded, rebuilding the table")
	c.sched.Reset()
	c.reg.Reset()
	c.deal = nil
	c.state = &m.Game
	return c.materialize()
}

func (c *Context) onGameEvent(m *game.GameEventMessage) error {
	move, err := m.Event.Move()
	if err != nil {
		return err
	}
	if m.Event.GameID != 0 && m.Event.GameID != m.Game.ID {
		return errors.Wrapf(game.ErrProtocol, "Event for game %d arrived with snapshot of game %d", m.Event.GameID, m.Game.ID)
	}
	c.state = &m.Game
	player, ok := c.state.FindPlayer(move.Actor())
	if !ok {
		return errors.Wrapf(game.ErrProtocol, "%s by player %d who is not in the game", move.Action(), move.Actor())
	}

	switch mv := move.(type) {
	case game.Flip:
		return c.onFlip(player, mv)
	case game.TakeFromDeck:
		return c.onTakeFromDeck(player)
	case game.TakeFromTable:
		return c.onTakeFromTable(player)
	case game.Swap:
		return c.onSwap(player, mv)
	case game.Discard:
		return c.onDiscard(player)
	}
	return errors.Wrapf(game.ErrProtocol, "Unhandled move %s", move.Action())
}

// texture looks up a card's art. A miss freezes the table.
func (c *Context) texture(name game.CardName) (*assets.Texture, error) {
	t, err := c.bundle.Texture(name)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// materialize builds the board for the current snapshot from nothing.
func (c *Context) materialize() error {
	back, err := c.texture(game.DownCard)
	if err != nil {
		return err
	}
	c.reg.Materialize(sprite.Deck(), back, layout.Deck(c.state.Status))

	// past init the pile is on the board and follows every snapshot
	c.tableRevealed = c.state.Status != game.StatusInit
	if !c.tableRevealed {
		return nil
	}
	if err := c.addTableCards(); err != nil {
		return err
	}
	for i := range c.state.Players {
		p := &c.state.Players[i]
		if err := c.addHand(p, layout.Coord{}, false); err != nil {
			return err
		}
		if p.HeldCard != nil {
			tex, err := c.texture(*p.HeldCard)
			if err != nil {
				return err
			}
			held := c.reg.Replace(sprite.Held(), tex, layout.Held(p.Position))
			held.SetOwner(p.ID)
		}
	}
	return nil
}

// addHand binds a sprite to every hand slot of p. With fromDeck set the
// sprites start on the deck instead of their slots.
func (c *Context) addHand(p *game.Player, deck layout.Coord, fromDeck bool) error {
	for i, card := range p.Hand {
		tex, err := c.texture(card.Visible())
		if err != nil {
			return err
		}
		at := layout.Hand(p.Position, i)
		if fromDeck {
			at = deck
		}
		s := c.reg.Replace(sprite.Hand(p.Position, i), tex, at)
		s.SetOwner(p.ID)
	}
	return nil
}

func (c *Context) applyAffordances() {
	affordance.Apply(c.reg, c.state, affordance.HandlersFunc(c.clickHandler))
}
