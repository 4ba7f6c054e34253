package transport

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/metrics"
)

// ErrOutboxFull is returned when actions arrive faster than they can be sent.
var ErrOutboxFull = errors.New("outbox is full")

const defaultOutboxSize = 16

// Outbox queues the viewer's actions so the render loop never waits on the
// network. A limiter spaces them out; a player hammering a card sends at most
// perSecond actions a second.
type Outbox struct {
	logger  *zerolog.Logger
	sender  Sender
	limiter *rate.Limiter
	queue   chan game.ClientAction
}

// NewOutbox sends through sender. A perSecond of zero or less disables the
// limit.
func NewOutbox(sender Sender, perSecond float64, burst int) *Outbox {
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	if burst <= 0 {
		burst = 1
	}
	return &Outbox{
		logger:  logging.GetZeroLogger("transport::Outbox", nil),
		sender:  sender,
		limiter: rate.NewLimiter(limit, burst),
		queue:   make(chan game.ClientAction, defaultOutboxSize),
	}
}

// Send queues action without blocking.
func (o *Outbox) Send(action game.ClientAction) error {
	select {
	case o.queue <- action:
		return nil
	default:
		return errors.Wrapf(ErrOutboxFull, "Dropping %s", action.Name())
	}
}

// Run sends queued actions until ctx is done. Send failures are logged; the
// next snapshot tells the player what actually happened.
func (o *Outbox) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case action := <-o.queue:
			if err := o.limiter.Wait(ctx); err != nil {
				return nil
			}
			if err := o.sender.Send(ctx, action); err != nil {
				metrics.Metrics.ActionDropped()
				o.logger.Error().Err(err).Str(logging.ActionKey, action.Name()).Msg("Could not send action")
			}
		}
	}
}

// Pending is the number of queued actions.
func (o *Outbox) Pending() int {
	return len(o.queue)
}
