package replay

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/metrics"
	"voyager.com/golfclient/internal/transport"
)

// Replay plays a script as if a server were sending it. It implements
// transport.Transport.
type Replay struct {
	logger *zerolog.Logger
	script *Script
	speed  float64
	msgs   []game.ServerMessage
	dedupe *transport.Deduper
	ch     chan game.ServerMessage

	mu   sync.Mutex
	sent []game.ClientAction
}

// New decodes the script. Delays are divided by speed; a speed of zero or
// less plays in real time.
func New(script *Script, speed float64) (*Replay, error) {
	if speed <= 0 {
		speed = 1
	}
	msgs := make([]game.ServerMessage, 0, len(script.Steps))
	for i := range script.Steps {
		msg, err := script.Steps[i].Message()
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	logger := logging.GetZeroLogger("replay::Replay", nil).With().Str("script", script.Name).Logger()
	return &Replay{
		logger: &logger,
		script: script,
		speed:  speed,
		msgs:   msgs,
		dedupe: transport.NewDeduper(transport.DefaultDedupeSize),
		ch:     make(chan game.ServerMessage, len(msgs)),
	}, nil
}

// Initial is the snapshot of the first step, which mounts the table.
func (r *Replay) Initial() game.State {
	return *r.msgs[0].Snapshot()
}

func (r *Replay) Messages() <-chan game.ServerMessage {
	return r.ch
}

func (r *Replay) wait(ctx context.Context, d time.Duration) bool {
	d = time.Duration(float64(d) / r.speed)
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// Run plays every step after the first, then lingers and closes Messages.
// The first step is the one the table was built from.
func (r *Replay) Run(ctx context.Context) error {
	defer close(r.ch)
	r.logger.Info().Int("steps", len(r.msgs)).Msg("Replay started")
	r.dedupe.Seen(r.script.Steps[0].MsgID)
	for i := 1; i < len(r.msgs); i++ {
		step := &r.script.Steps[i]
		if !r.wait(ctx, step.Delay()) {
			return nil
		}
		if r.dedupe.Seen(step.MsgID) {
			metrics.Metrics.DuplicateMessage()
			r.logger.Info().Str(logging.MsgIDKey, step.MsgID).Msgf("Ignoring duplicate %s message", step.Type)
			continue
		}
		select {
		case r.ch <- r.msgs[i]:
		case <-ctx.Done():
			return nil
		}
	}
	r.wait(ctx, time.Duration(r.script.LingerMs)*time.Millisecond)
	r.logger.Info().Int("sent", len(r.Sent())).Msg("Replay finished")
	return nil
}

// Send records the action.
func (r *Replay) Send(_ context.Context, action game.ClientAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, action)
	return nil
}

// Sent returns every action received so far.
func (r *Replay) Sent() []game.ClientAction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]game.ClientAction(nil), r.sent...)
}

func (r *Replay) Close() error {
	return nil
}
