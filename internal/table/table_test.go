package table

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/golfclient/internal/affordance"
	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/sprite"
)

var (
	bundleOnce sync.Once
	bundle     *assets.GeneratedBundle
)

func testBundle(t *testing.T) assets.Bundle {
	bundleOnce.Do(func() {
		bundle = assets.NewGeneratedBundle()
		if err := bundle.Load(context.Background()); err != nil {
			panic(err)
		}
	})
	return bundle
}

type fakeMount struct {
	loop *render.Loop
	err  error
}

func (m *fakeMount) Attach(l *render.Loop) error {
	m.loop = l
	return m.err
}

type recordingSink struct {
	actions []game.ClientAction
	err     error
}

func (s *recordingSink) Send(a game.ClientAction) error {
	if s.err != nil {
		return s.err
	}
	s.actions = append(s.actions, a)
	return nil
}

// holeyBundle is missing one card.
type holeyBundle struct {
	assets.Bundle
	hole game.CardName
}

func (b holeyBundle) Texture(name game.CardName) (*assets.Texture, error) {
	if name == b.hole {
		return nil, errors.Wrapf(assets.ErrMissingAsset, "No texture for card %q", name)
	}
	return b.Bundle.Texture(name)
}

const ms = time.Millisecond

// players seats n players clockwise from the bottom. Player i+1 holds
// 2..7 of the i-th suit, all face down.
func players(n int) []game.Player {
	var out []game.Player
	for i := 0; i < n; i++ {
		p := game.Player{
			ID:       int64(i + 1),
			UserID:   int64(100 + i),
			Username: fmt.Sprintf("player%d", i+1),
			Position: game.Positions[i],
		}
		for j := 0; j < game.HandSize; j++ {
			p.Hand = append(p.Hand, game.HandCard{Name: game.CardName([]byte{"234567"[j], game.Suits[i]})})
		}
		out = append(out, p)
	}
	return out
}

// snapshot is a fresh state with player 1 as the viewer.
func snapshot(status game.Status, n int, pile []game.CardName, playable ...game.Place) game.State {
	viewer := int64(1)
	return game.State{
		ID:            7,
		Status:        status,
		Players:       players(n),
		TableCards:    pile,
		PlayerID:      &viewer,
		PlayableCards: playable,
	}
}

func allHands() []game.Place {
	var places []game.Place
	for i := 0; i < game.HandSize; i++ {
		places = append(places, game.HandPlace(i))
	}
	return places
}

func withHeld(st game.State, playerIdx int, card game.CardName) game.State {
	st.Players[playerIdx].HeldCard = &card
	return st
}

func event(st game.State, player int64, action game.Action, idx ...int) *game.GameEventMessage {
	e := game.GameEvent{GameID: st.ID, PlayerID: player, Action: action}
	if len(idx) > 0 {
		i := idx[0]
		e.HandIndex = &i
	}
	return &game.GameEventMessage{Game: st, Event: e}
}

type harness struct {
	t    *testing.T
	c    *Context
	sink *recordingSink
	now  time.Duration
}

func newHarness(t *testing.T, initial game.State) *harness {
	sink := &recordingSink{}
	c, err := New(context.Background(), initial, &fakeMount{}, sink, testBundle(t), Options{Logger: logging.Nop()})
	require.NoError(t, err)
	return &harness{t: t, c: c, sink: sink}
}

func (h *harness) handle(msg game.ServerMessage) {
	h.t.Helper()
	require.NoError(h.t, h.c.Handle(msg))
}

func (h *harness) advanceTo(at time.Duration) {
	for h.now < at {
		h.now += 10 * ms
		if h.now > at {
			h.now = at
		}
		h.c.Advance(h.now)
	}
}

func (h *harness) settle() {
	h.advanceTo(h.now + 3*time.Second)
}

func (h *harness) sprite(key sprite.Key) *sprite.Sprite {
	h.t.Helper()
	s, ok := h.c.reg.Get(key)
	require.True(h.t, ok, "no sprite at %s", key)
	return s
}

func (h *harness) interactive() []sprite.Key {
	return affordance.Interactive(h.c.reg)
}

func bottomHands(indexes ...int) []sprite.Key {
	var keys []sprite.Key
	for _, i := range indexes {
		keys = append(keys, sprite.Hand(game.PositionBottom, i))
	}
	return keys
}

func assertAt(t *testing.T, expected layout.Coord, s *sprite.Sprite) {
	t.Helper()
	assert.InDelta(t, expected.X, s.X, 1e-9, "x")
	assert.InDelta(t, expected.Y, s.Y, 1e-9, "y")
	assert.InDelta(t, expected.Rotation, s.Rotation, 1e-9, "rotation")
}

type slotView struct {
	Card     game.CardName
	X, Y     float64
	Rotation float64
	Visible  bool
	Owner    int64
}

// settled describes the bound sprites the way a fresh board would.
func settled(c *Context) map[string]slotView {
	out := make(map[string]slotView)
	for _, key := range c.reg.Keys() {
		s, _ := c.reg.Get(key)
		out[key.String()] = slotView{
			Card:     s.Texture.Name,
			X:        s.X,
			Y:        s.Y,
			Rotation: s.Rotation,
			Visible:  s.Visible,
			Owner:    s.Owner,
		}
	}
	return out
}

func TestInitialSnapshotWithoutPlayers(t *testing.T) {
	viewer := int64(1)
	h := newHarness(t, game.State{ID: 7, Status: game.StatusInit, PlayerID: &viewer})

	assert.Equal(t, []sprite.Key{sprite.Deck()}, h.c.reg.Keys())
	assert.Equal(t, 1, h.c.reg.Len())
	deck := h.sprite(sprite.Deck())
	assert.Equal(t, 300.0, deck.X)
	assert.Equal(t, 300.0, deck.Y)
	assert.Equal(t, game.DownCard, deck.Texture.Name)
	assert.Equal(t, TableState__RUNNING, h.c.Status())
}

func TestInitialSnapshotMidGame(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D", "9C"}, append(allHands(), game.PlaceHeld)...), 0, "AS")
	st.Players[1].Hand[3].FaceUp = true
	h := newHarness(t, st)

	assert.Equal(t, 1+2+1+12, h.c.reg.Len())
	assert.Equal(t, 270.0, h.sprite(sprite.Deck()).X)
	top := h.sprite(sprite.Table(0))
	second := h.sprite(sprite.Table(1))
	assert.Equal(t, game.CardName("5D"), top.Texture.Name)
	assert.Equal(t, game.CardName("9C"), second.Texture.Name)
	assert.Greater(t, top.Z, second.Z)

	// face down cards never show their identity
	assert.Equal(t, game.DownCard, h.sprite(sprite.Hand(game.PositionLeft, 0)).Texture.Name)
	assert.Equal(t, game.CardName("5D"), h.sprite(sprite.Hand(game.PositionLeft, 3)).Texture.Name)

	held := h.sprite(sprite.Held())
	assertAt(t, layout.Held(game.PositionBottom), held)
	assert.Equal(t, int64(1), held.Owner)

	expected := append([]sprite.Key{sprite.Held()}, bottomHands(0, 1, 2, 3, 4, 5)...)
	assert.Equal(t, expected, h.interactive())
}

func TestGameStartedDealsOnceForAllSeats(t *testing.T) {
	lobby := snapshot(game.StatusInit, 4, nil)
	h := newHarness(t, lobby)
	assert.Equal(t, 1, h.c.reg.Len(), "hands wait for the deal")

	h.handle(&game.GameStarted{Game: snapshot(game.StatusFlip2, 4, []game.CardName{"5D"}, allHands()...)})

	hands := 0
	for _, key := range h.c.reg.Keys() {
		if key.Kind == sprite.KindHand {
			hands++
			assertAt(t, layout.Coord{X: 300, Y: 300}, h.sprite(key))
		}
	}
	assert.Equal(t, 24, hands)
	_, ok := h.c.reg.Get(sprite.Table(0))
	assert.False(t, ok, "the pile appears after the deal")

	h.advanceTo(1690 * ms)
	assert.Equal(t, 0, h.c.dealChains)
	h.advanceTo(1700 * ms)
	assert.Equal(t, 1, h.c.dealChains)

	h.settle()
	assert.Equal(t, 1, h.c.dealChains)
	assert.Equal(t, 270.0, h.sprite(sprite.Deck()).X)
	top := h.sprite(sprite.Table(0))
	assertAt(t, layout.Table(), top)
	assert.Equal(t, game.CardName("5D"), top.Texture.Name)
	for _, seat := range game.Positions {
		for i := 0; i < game.HandSize; i++ {
			assertAt(t, layout.Hand(seat, i), h.sprite(sprite.Hand(seat, i)))
		}
	}
	assert.Equal(t, 26, h.c.reg.Len())
	assert.Equal(t, bottomHands(0, 1, 2, 3, 4, 5), h.interactive())
	assert.Equal(t, 0, h.c.sched.Active())
}

func TestGameStartedDealsInReverseOrder(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusInit, 1, nil))
	h.handle(&game.GameStarted{Game: snapshot(game.StatusFlip2, 1, []game.CardName{"5D"})})

	h.advanceTo(100 * ms)
	last := h.sprite(sprite.Hand(game.PositionBottom, 5))
	first := h.sprite(sprite.Hand(game.PositionBottom, 0))
	assert.NotEqual(t, 300.0, last.Y, "hand_5 leaves first")
	assert.Equal(t, 300.0, first.Y, "hand_0 waits its turn")
}

func TestGameStartedWithoutPlayersRevealsPile(t *testing.T) {
	viewer := int64(1)
	h := newHarness(t, game.State{ID: 7, Status: game.StatusInit, PlayerID: &viewer})
	h.handle(&game.GameStarted{Game: game.State{ID: 7, Status: game.StatusFlip2, PlayerID: &viewer, TableCards: []game.CardName{"KD"}}})
	assert.Equal(t, 1, h.c.dealChains)

	h.settle()
	assertAt(t, layout.Table(), h.sprite(sprite.Table(0)))
	assert.Equal(t, 270.0, h.sprite(sprite.Deck()).X)
}

func TestFlipRevealsAndWiggles(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}, allHands()...))
	before := h.sprite(sprite.Hand(game.PositionBottom, 2))
	assert.Equal(t, game.DownCard, before.Texture.Name)

	st := snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}, game.HandPlace(0), game.HandPlace(1))
	st.Players[0].Hand[2] = game.HandCard{Name: "KH", FaceUp: true}
	h.handle(event(st, 1, game.ActionFlip, 2))

	after := h.sprite(sprite.Hand(game.PositionBottom, 2))
	assert.Same(t, before, after)
	assert.Equal(t, game.CardName("KH"), after.Texture.Name)
	assert.Equal(t, 362.0, after.X)
	assert.Equal(t, bottomHands(0, 1), h.interactive())
	for i := 2; i < game.HandSize; i++ {
		assert.False(t, h.sprite(sprite.Hand(game.PositionBottom, i)).HasHandler())
	}

	h.advanceTo(40 * ms)
	assert.NotEqual(t, 363.0, after.X)
	h.settle()
	assert.Equal(t, 363.0, after.X)
}

func TestFlipOfFaceDownCardIsProtocolError(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}, allHands()...))
	err := h.c.Handle(event(snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}), 1, game.ActionFlip, 2))
	require.Error(t, err)
	assert.True(t, game.IsProtocolError(err))
	assert.True(t, h.c.Frozen())
}

func TestTakeFromDeckByOtherSeat(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}))
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}), 1, "AS")
	h.handle(event(st, 2, game.ActionTakeFromDeck))

	held := h.sprite(sprite.Held())
	assertAt(t, layout.Deck(game.StatusTake), held)
	assert.Equal(t, int64(2), held.Owner)

	h.advanceTo(140 * ms)
	assertAt(t, layout.Deck(game.StatusTake), held)

	h.settle()
	assertAt(t, layout.Coord{X: 94, Y: 450, Rotation: math.Pi / 2}, held)
	assert.Empty(t, h.interactive())
}

func TestTakeFromDeckByViewer(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck, game.PlaceTable))
	assert.Equal(t, []sprite.Key{sprite.Deck(), sprite.Table(0)}, h.interactive())

	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}, append(allHands(), game.PlaceHeld)...), 0, "AS")
	h.handle(event(st, 1, game.ActionTakeFromDeck))

	assert.False(t, h.sprite(sprite.Deck()).Interactive)
	assert.False(t, h.sprite(sprite.Table(0)).Interactive)
	expected := append([]sprite.Key{sprite.Held()}, bottomHands(0, 1, 2, 3, 4, 5)...)
	assert.Equal(t, expected, h.interactive())

	h.settle()
	assertAt(t, layout.Held(game.PositionBottom), h.sprite(sprite.Held()))
}

func TestTakeFromTableAdvancesPile(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D", "9C"}, game.PlaceDeck, game.PlaceTable))
	oldTop := h.sprite(sprite.Table(0))
	oldSecond := h.sprite(sprite.Table(1))
	assert.True(t, oldTop.Interactive)

	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"9C"}, append(allHands(), game.PlaceHeld)...), 0, "5D")
	h.handle(event(st, 1, game.ActionTakeFromTable))

	_, ok := h.c.reg.Get(sprite.Table(1))
	assert.False(t, ok)
	assert.Same(t, oldSecond, h.sprite(sprite.Table(0)))
	assert.True(t, oldTop.Visible, "hidden when the flight starts, not before")
	assert.False(t, oldTop.Interactive)
	assert.False(t, oldTop.HasHandler())

	held := h.sprite(sprite.Held())
	assertAt(t, layout.Table(), held)
	assert.Equal(t, game.CardName("5D"), held.Texture.Name)

	h.advanceTo(10 * ms)
	assert.False(t, oldTop.Visible)

	h.settle()
	assertAt(t, layout.Held(game.PositionBottom), held)
	expected := append([]sprite.Key{sprite.Held()}, bottomHands(0, 1, 2, 3, 4, 5)...)
	assert.Equal(t, expected, h.interactive())
}

func TestSwapRestacksPile(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D", "9C"}, append(allHands(), game.PlaceHeld)...), 0, "AS")
	h := newHarness(t, st)
	held := h.sprite(sprite.Held())
	oldHand := h.sprite(sprite.Hand(game.PositionBottom, 4))
	oldTop := h.sprite(sprite.Table(0))
	oldSecond := h.sprite(sprite.Table(1))

	after := snapshot(game.StatusTake, 2, []game.CardName{"6C", "5D"})
	after.Players[0].Hand[4] = game.HandCard{Name: "AS", FaceUp: true}
	h.handle(event(after, 1, game.ActionSwap, 4))

	hand := h.sprite(sprite.Hand(game.PositionBottom, 4))
	assert.NotSame(t, oldHand, hand)
	assert.False(t, oldHand.Visible)
	assert.False(t, hand.Visible)
	assert.Equal(t, game.CardName("AS"), hand.Texture.Name)

	top := h.sprite(sprite.Table(0))
	assert.Equal(t, game.CardName("6C"), top.Texture.Name)
	assertAt(t, layout.Hand(game.PositionBottom, 4), top)
	assert.Same(t, oldTop, h.sprite(sprite.Table(1)))
	assert.False(t, oldSecond.Visible)
	assert.Greater(t, top.Z, oldTop.Z)

	_, ok := h.c.reg.Get(sprite.Held())
	assert.False(t, ok)
	assert.True(t, held.Visible)

	h.advanceTo(190 * ms)
	assertAt(t, layout.Hand(game.PositionBottom, 4), top)

	h.advanceTo(500 * ms)
	assert.False(t, held.Visible)
	assert.True(t, hand.Visible)

	h.settle()
	assertAt(t, layout.Table(), top)
	assert.Empty(t, h.interactive())
}

func TestDiscardThrowsHeldOnPile(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}, append(allHands(), game.PlaceHeld)...), 0, "AS")
	h := newHarness(t, st)
	held := h.sprite(sprite.Held())
	oldTop := h.sprite(sprite.Table(0))

	after := snapshot(game.StatusFlip, 2, []game.CardName{"AS", "5D"}, game.PlaceDeck, game.HandPlace(0))
	h.handle(event(after, 1, game.ActionDiscard))

	top := h.sprite(sprite.Table(0))
	assertAt(t, layout.Held(game.PositionBottom), top)
	assert.Equal(t, game.CardName("AS"), top.Texture.Name)
	assert.Same(t, oldTop, h.sprite(sprite.Table(1)))
	assert.True(t, held.Visible)
	assert.False(t, held.Interactive)

	h.advanceTo(10 * ms)
	assert.False(t, held.Visible)

	h.settle()
	assertAt(t, layout.Table(), top)
	assert.Greater(t, top.Z, oldTop.Z)
	assert.Equal(t, append([]sprite.Key{sprite.Deck()}, bottomHands(0)...), h.interactive())
}

func TestDiscardFromSideSeatStartsRotated(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}), 1, "AS")
	h := newHarness(t, st)
	h.handle(event(snapshot(game.StatusFlip, 2, []game.CardName{"AS", "5D"}), 2, game.ActionDiscard))

	top := h.sprite(sprite.Table(0))
	assertAt(t, layout.Held(game.PositionLeft), top)
	h.settle()
	assertAt(t, layout.Table(), top)
}

func TestBackToBackEventsSettleLikeFreshBoard(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck, game.PlaceTable))

	first := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}, allHands()...), 0, "AS")
	h.handle(event(first, 1, game.ActionTakeFromDeck))

	swapped := snapshot(game.StatusTake, 2, []game.CardName{"4C", "5D"}, game.PlaceDeck, game.PlaceTable)
	swapped.Players[0].Hand[2] = game.HandCard{Name: "AS", FaceUp: true}
	h.handle(event(swapped, 1, game.ActionSwap, 2))
	firstHand := h.sprite(sprite.Hand(game.PositionBottom, 2))

	h.advanceTo(50 * ms)

	second := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"4C", "5D"}, allHands()...), 0, "7H")
	second.Players[0].Hand[2] = game.HandCard{Name: "AS", FaceUp: true}
	h.handle(event(second, 1, game.ActionTakeFromDeck))

	final := snapshot(game.StatusTake, 2, []game.CardName{"AS", "4C"}, game.PlaceDeck, game.PlaceTable)
	final.Players[0].Hand[2] = game.HandCard{Name: "7H", FaceUp: true}
	h.handle(event(final, 1, game.ActionSwap, 2))

	h.settle()
	assert.False(t, firstHand.Visible, "the first swap must not reveal a replaced sprite")
	for _, s := range h.c.reg.Unbound() {
		assert.False(t, s.Visible, "abandoned sprite %s still visible", s)
	}

	fresh := newHarness(t, final)
	if diff := cmp.Diff(settled(fresh.c), settled(h.c)); diff != "" {
		t.Errorf("board differs from a fresh board (-fresh +animated):\n%s", diff)
	}
	assert.Equal(t, fresh.interactive(), h.interactive())
}

func TestAffordanceMatchesPlayableOwnedSlots(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 3, []game.CardName{"5D"}, game.PlaceDeck, game.PlaceHeld, game.HandPlace(1)), 0, "AS")
	h := newHarness(t, st)
	expected := []sprite.Key{sprite.Deck(), sprite.Held(), sprite.Hand(game.PositionBottom, 1)}
	assert.Equal(t, expected, h.interactive())

	h.c.applyAffordances()
	h.c.applyAffordances()
	assert.Equal(t, expected, h.interactive())

	for _, seat := range []game.Position{game.PositionLeft, game.PositionTop} {
		assert.False(t, h.sprite(sprite.Hand(seat, 1)).Interactive)
	}
}

func TestSpectatorNeverGetsInput(t *testing.T) {
	st := snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck, game.PlaceTable)
	st.PlayerID = nil
	h := newHarness(t, st)
	assert.Empty(t, h.interactive())
}

func TestClicksSendViewerActions(t *testing.T) {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}, game.PlaceDeck, game.PlaceTable, game.PlaceHeld, game.HandPlace(3)), 0, "AS")
	h := newHarness(t, st)

	assert.True(t, h.c.Click(sprite.Deck()))
	assert.True(t, h.c.Click(sprite.Table(0)))
	assert.True(t, h.c.Click(sprite.Held()))
	assert.True(t, h.c.Click(sprite.Hand(game.PositionBottom, 3)))
	assert.False(t, h.c.Click(sprite.Hand(game.PositionBottom, 2)))
	assert.False(t, h.c.Click(sprite.Hand(game.PositionLeft, 3)))

	h.c.PointerDown(237, 548)

	expected := []game.ClientAction{
		game.DeckClick{PlayerID: 1},
		game.TableClick{PlayerID: 1},
		game.HeldClick{PlayerID: 1},
		game.HandClick{PlayerID: 1, HandIndex: 3},
		game.HandClick{PlayerID: 1, HandIndex: 3},
	}
	assert.Equal(t, expected, h.sink.actions)
	assert.False(t, h.c.Frozen())
}

func TestSinkFailureDoesNotFreeze(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck))
	h.sink.err = errors.New("outbox full")
	assert.True(t, h.c.Click(sprite.Deck()))
	assert.Empty(t, h.sink.actions)
	assert.False(t, h.c.Frozen())
}

func TestWrongPlayerClickFreezes(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, allHands()...))
	key := sprite.Hand(game.PositionLeft, 0)
	s := h.sprite(key)
	s.Arm(h.c.clickHandler(key, s))

	assert.True(t, h.c.Click(key))
	assert.Empty(t, h.sink.actions)
	assert.True(t, h.c.Frozen())
	assert.Equal(t, ErrWrongPlayer, errors.Cause(h.c.Err()))

	err := h.c.Handle(&game.PlayerJoined{Game: snapshot(game.StatusTake, 2, nil), PlayerID: 2})
	assert.True(t, IsFrozen(err))
	assert.False(t, h.c.Click(sprite.Hand(game.PositionBottom, 0)))
}

func TestProtocolErrorFreezesBoard(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck))
	deck := h.sprite(sprite.Deck())
	held := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"5D"}), 1, "AS")
	h.handle(event(held, 2, game.ActionTakeFromDeck))

	err := h.c.Handle(event(snapshot(game.StatusHold, 2, []game.CardName{"5D"}), 9, game.ActionDiscard))
	require.Error(t, err)
	assert.True(t, game.IsProtocolError(err))
	assert.Equal(t, TableState__FROZEN, h.c.Status())

	f := h.c.Frame()
	assert.True(t, f.Frozen)
	assert.Contains(t, f.Message, "player 9")

	// animations stop on a frozen board
	heldSprite := h.sprite(sprite.Held())
	h.settle()
	assertAt(t, layout.Deck(game.StatusTake), heldSprite)
	assert.Equal(t, 270.0, deck.X)
}

func TestInvalidSnapshotFreezes(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}))
	bad := snapshot(game.StatusTake, 2, []game.CardName{"5D", "6D", "7D"})
	err := h.c.Handle(&game.PlayerJoined{Game: bad, PlayerID: 2})
	assert.True(t, game.IsProtocolError(err))
	assert.True(t, h.c.Frozen())
}

func TestMissingAssetFreezes(t *testing.T) {
	sink := &recordingSink{}
	b := holeyBundle{Bundle: testBundle(t), hole: "KH"}
	c, err := New(context.Background(), snapshot(game.StatusFlip2, 1, []game.CardName{"5D"}), &fakeMount{}, sink, b, Options{Logger: logging.Nop()})
	require.NoError(t, err)

	st := snapshot(game.StatusFlip2, 1, []game.CardName{"5D"})
	st.Players[0].Hand[0] = game.HandCard{Name: "KH", FaceUp: true}
	err = c.Handle(event(st, 1, game.ActionFlip, 0))
	assert.True(t, assets.IsMissingAsset(err))
	assert.True(t, c.Frozen())
}

func TestNewFailures(t *testing.T) {
	sink := &recordingSink{}
	_, err := New(context.Background(), snapshot(game.StatusTake, 1, []game.CardName{"5D"}), &fakeMount{}, sink,
		holeyBundle{Bundle: testBundle(t), hole: game.DownCard}, Options{Logger: logging.Nop()})
	assert.True(t, assets.IsMissingAsset(err))

	_, err = New(context.Background(), snapshot(game.StatusTake, 1, nil), &fakeMount{err: errors.New("no surface")}, sink,
		testBundle(t), Options{Logger: logging.Nop()})
	assert.Error(t, err)

	bad := snapshot(game.StatusTake, 1, nil)
	bad.Status = "paused"
	_, err = New(context.Background(), bad, &fakeMount{}, sink, testBundle(t), Options{Logger: logging.Nop()})
	assert.True(t, game.IsProtocolError(err))
}

func TestGameLoadedRebuilds(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusInit, 2, nil))
	h.handle(&game.GameStarted{Game: snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}, allHands()...)})
	h.advanceTo(300 * ms)
	assert.Greater(t, h.c.sched.Active(), 0)

	h.handle(&game.GameLoaded{Game: snapshot(game.StatusInit, 2, nil)})
	assert.Equal(t, 0, h.c.sched.Active())
	assert.Equal(t, []sprite.Key{sprite.Deck()}, h.c.reg.Keys())
	assert.Equal(t, 1, h.c.reg.Len())
	assert.Equal(t, 300.0, h.sprite(sprite.Deck()).X)

	h.settle()
	assert.Equal(t, 0, h.c.dealChains)
}

func TestPlayerJoinedOnlyReplacesState(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusInit, 1, nil))
	h.handle(&game.PlayerJoined{Game: snapshot(game.StatusInit, 3, nil), PlayerID: 3})
	assert.Len(t, h.c.State().Players, 3)
	assert.Equal(t, 1, h.c.reg.Len())
}

func TestPumpFeedsLoop(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusInit, 1, nil))
	msgs := make(chan game.ServerMessage, 1)
	msgs <- &game.PlayerJoined{Game: snapshot(game.StatusInit, 2, nil), PlayerID: 2}
	close(msgs)

	require.NoError(t, h.c.Pump(context.Background(), msgs))
	assert.Len(t, h.c.State().Players, 1, "nothing happens until the loop ticks")

	h.c.Loop().Tick(0)
	assert.Len(t, h.c.State().Players, 2)
}

func TestBoardDump(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusTake, 2, []game.CardName{"5D"}, game.PlaceDeck))
	b := h.c.Board()
	assert.Equal(t, int64(7), b.GameID)
	assert.Equal(t, TableState__RUNNING, b.State)
	assert.Equal(t, []string{"deck"}, b.Interactive)
	assert.Len(t, b.Sprites, 1+1+12)
	assert.Equal(t, "deck", b.Sprites[0].Slot)
	assert.Nil(t, b.Sprites[0].Owner)
	assert.Empty(t, b.Error)
}

func TestTimingsScaled(t *testing.T) {
	d := DefaultTimings()
	fast := d.Scaled(2)
	assert.Equal(t, 400*ms, fast.Deal)
	assert.Equal(t, 90*ms, fast.DealStagger)
	assert.Equal(t, d.WiggleDistance, fast.WiggleDistance)
	assert.Equal(t, d, d.Scaled(0))
	assert.Equal(t, time.Duration(0), d.Instant().Take)
	assert.Equal(t, 2, d.Instant().WiggleRepeats)
}

// takeTopOfPile has player 1 take AH from a pile of AH, KS. The server's
// next snapshot shows QD moved up under KS.
func takeTopOfPile(h *harness) game.State {
	st := withHeld(snapshot(game.StatusHold, 2, []game.CardName{"KS", "QD"}, append(allHands(), game.PlaceHeld)...), 0, "AH")
	h.handle(event(st, 1, game.ActionTakeFromTable))
	h.settle()
	return st
}

func TestPileFollowsSnapshotWhateverBuiltTheBoard(t *testing.T) {
	midGame := snapshot(game.StatusTake, 2, []game.CardName{"AH", "KS"}, game.PlaceDeck, game.PlaceTable)
	cases := map[string]func(t *testing.T) *harness{
		"mounted mid-game": func(t *testing.T) *harness {
			return newHarness(t, midGame)
		},
		"dealt": func(t *testing.T) *harness {
			h := newHarness(t, snapshot(game.StatusInit, 2, nil))
			h.handle(&game.GameStarted{Game: midGame})
			h.settle()
			return h
		},
		"reloaded mid-game": func(t *testing.T) *harness {
			h := newHarness(t, snapshot(game.StatusInit, 2, nil))
			h.handle(&game.GameLoaded{Game: midGame})
			return h
		},
		"reloaded during the deal": func(t *testing.T) *harness {
			h := newHarness(t, snapshot(game.StatusInit, 2, nil))
			h.handle(&game.GameStarted{Game: snapshot(game.StatusFlip2, 2, []game.CardName{"5D"}, allHands()...)})
			h.advanceTo(300 * ms)
			h.handle(&game.GameLoaded{Game: midGame})
			h.settle()
			return h
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			h := build(t)
			st := takeTopOfPile(h)

			top := h.sprite(sprite.Table(0))
			second := h.sprite(sprite.Table(1))
			assert.Equal(t, game.CardName("KS"), top.Texture.Name)
			assert.Equal(t, game.CardName("QD"), second.Texture.Name)
			assert.True(t, second.Visible)
			assertAt(t, layout.Table(), second)
			assert.Greater(t, top.Z, second.Z)

			fresh := newHarness(t, st)
			if diff := cmp.Diff(settled(fresh.c), settled(h.c)); diff != "" {
				t.Errorf("board differs from a fresh board (-fresh +got):\n%s", diff)
			}
			assert.Equal(t, fresh.interactive(), h.interactive())
		})
	}
}

func TestBoardShowsDealProgress(t *testing.T) {
	h := newHarness(t, snapshot(game.StatusInit, 1, nil))
	assert.Nil(t, h.c.Board().Deal)

	h.handle(&game.GameStarted{Game: snapshot(game.StatusFlip2, 1, []game.CardName{"5D"}, allHands()...)})
	h.advanceTo(100 * ms)
	b := h.c.Board()
	require.NotNil(t, b.Deal)
	assert.Equal(t, "deal", b.Deal.Name)
	assert.Equal(t, []string{stepDeckSlide, stepTableReveal, stepTableDeal}, b.Deal.Steps)
	assert.False(t, b.Deal.Started)
	moving := 0
	for _, s := range b.Sprites {
		if s.Moving {
			moving++
		}
	}
	assert.Equal(t, game.HandSize, moving)

	h.settle()
	b = h.c.Board()
	assert.True(t, b.Deal.Started)
	assert.True(t, b.Deal.Done)
	for _, s := range b.Sprites {
		assert.False(t, s.Moving, s.Slot)
	}

	h.handle(&game.GameLoaded{Game: snapshot(game.StatusInit, 1, nil)})
	assert.Nil(t, h.c.Board().Deal)
}
