package debug

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/table"
)

func newTable(t *testing.T, mount render.Mount) *table.Context {
	viewer := int64(1)
	initial := game.State{
		ID:            7,
		Status:        game.StatusTake,
		TableCards:    []game.CardName{"5D"},
		PlayerID:      &viewer,
		PlayableCards: []game.Place{game.PlaceDeck},
		Players: []game.Player{{
			ID:       1,
			Position: game.PositionBottom,
			Hand:     []game.HandCard{{Name: "KH", FaceUp: true}, {Name: "2C"}},
		}},
	}
	c, err := table.New(context.Background(), initial, mount, table.SinkFunc(func(game.ClientAction) error { return nil }),
		assets.NewGeneratedBundle(), table.Options{Logger: logging.Nop()})
	require.NoError(t, err)
	return c
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestReady(t *testing.T) {
	s := NewServer(0, newTable(t, render.NewHeadless(100, nil)))
	rec := get(t, s.Handler(), "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"OK"}`, rec.Body.String())
}

func TestBoard(t *testing.T) {
	headless := render.NewHeadless(200, nil)
	c := newTable(t, headless)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go headless.Run(ctx)

	s := NewServer(0, c)
	rec := get(t, s.Handler(), "/board")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var view table.BoardView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(7), view.GameID)
	assert.Equal(t, game.StatusTake, view.Status)
	assert.Equal(t, table.TableState__RUNNING, view.State)
	assert.Equal(t, []string{"deck"}, view.Interactive)
	assert.Len(t, view.Sprites, 4)
}

func TestBoardWithoutLoop(t *testing.T) {
	// nothing ticks this table, so the call times out
	s := NewServer(0, newTable(t, render.NewHeadless(100, nil)))
	start := time.Now()
	rec := get(t, s.Handler(), "/board")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Less(t, time.Since(start), 2*boardTimeout)
}

func TestMetrics(t *testing.T) {
	headless := render.NewHeadless(200, nil)
	newTable(t, headless)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go headless.Run(ctx)

	assert.Eventually(t, func() bool {
		rec := get(t, NewServer(0, nil).Handler(), "/metrics")
		return rec.Code == http.StatusOK && strings.Contains(rec.Body.String(), "golfclient_frames_total")
	}, 5*time.Second, 20*time.Millisecond)
}
