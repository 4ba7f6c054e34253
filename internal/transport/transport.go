package transport

import (
	"context"

	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/metrics"
)

// Transport is one connection to the game server.
type Transport interface {
	// Run reads from the server until ctx is done or the connection fails.
	// Decoded messages are delivered on Messages in arrival order.
	Run(ctx context.Context) error
	Messages() <-chan game.ServerMessage
	// Send writes one action.
	Send(ctx context.Context, action game.ClientAction) error
	Close() error
}

// Sender is the outbound half of a Transport.
type Sender interface {
	Send(ctx context.Context, action game.ClientAction) error
}

const defaultInboundSize = 32

// receiver decodes inbound frames, drops repeats and queues the rest.
type receiver struct {
	logger *zerolog.Logger
	dedupe *Deduper
	ch     chan game.ServerMessage
}

func newReceiver(logger *zerolog.Logger, dedupeSize int) *receiver {
	return &receiver{
		logger: logger,
		dedupe: NewDeduper(dedupeSize),
		ch:     make(chan game.ServerMessage, defaultInboundSize),
	}
}

// deliver handles one raw frame. Frames that do not decode are logged and
// skipped; the table only ever sees well formed messages.
func (r *receiver) deliver(ctx context.Context, data []byte) error {
	msgID, msg, err := Decode(data)
	if err != nil {
		r.logger.Error().Err(err).Msgf("Dropping undecodable frame %s", string(data))
		return nil
	}
	return r.push(ctx, msgID, msg)
}

func (r *receiver) push(ctx context.Context, msgID string, msg game.ServerMessage) error {
	if r.dedupe.Seen(msgID) {
		// Duplicate message potentially due to server restart. Ignore it.
		metrics.Metrics.DuplicateMessage()
		r.logger.Info().Str(logging.MsgIDKey, msgID).Msgf("Ignoring duplicate %s message", msg.Type())
		return nil
	}
	select {
	case r.ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
