package transport

import (
	"context"
	"fmt"

	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
)

// GameSubject carries messages for everyone at the table.
func GameSubject(gameID int64) string {
	return fmt.Sprintf("game.%d.table", gameID)
}

// PlayerSubject carries messages meant for one player only.
func PlayerSubject(gameID int64, playerID int64) string {
	return fmt.Sprintf("game.%d.player.%d", gameID, playerID)
}

// ActionSubject is where clients publish their actions.
func ActionSubject(gameID int64) string {
	return fmt.Sprintf("game.%d.actions", gameID)
}

// natsConn is the part of *natsgo.Conn the transport uses.
type natsConn interface {
	ChanSubscribe(subj string, ch chan *natsgo.Msg) (*natsgo.Subscription, error)
	Publish(subj string, data []byte) error
	Close()
}

// Nats receives table and private messages from NATS subjects and publishes
// actions to the game's action subject.
type Nats struct {
	logger   *zerolog.Logger
	nc       natsConn
	gameID   int64
	playerID int64
	recv     *receiver
}

// ConnectNats connects to the NATS server at url. A zero playerID joins as a
// spectator and only subscribes to the table subject.
func ConnectNats(url string, token string, gameID int64, playerID int64) (*Nats, error) {
	opts := []natsgo.Option{natsgo.Name(fmt.Sprintf("golfclient-%d-%d", gameID, playerID))}
	if token != "" {
		opts = append(opts, natsgo.Token(token))
	}
	nc, err := natsgo.Connect(url, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to connect to NATS server at %s", url)
	}
	return newNats(nc, gameID, playerID), nil
}

func newNats(nc natsConn, gameID int64, playerID int64) *Nats {
	logger := logging.GetZeroLogger("transport::Nats", nil).With().
		Int64(logging.GameIDKey, gameID).
		Int64(logging.PlayerIDKey, playerID).
		Logger()
	return &Nats{
		logger:   &logger,
		nc:       nc,
		gameID:   gameID,
		playerID: playerID,
		recv:     newReceiver(&logger, DefaultDedupeSize),
	}
}

func (n *Nats) subjects() []string {
	subjects := []string{GameSubject(n.gameID)}
	if n.playerID != 0 {
		subjects = append(subjects, PlayerSubject(n.gameID, n.playerID))
	}
	return subjects
}

func (n *Nats) Messages() <-chan game.ServerMessage {
	return n.recv.ch
}

// Run subscribes to the table subjects and forwards their messages until ctx
// is done. Both subjects feed one channel so arrival order is kept.
func (n *Nats) Run(ctx context.Context) error {
	defer close(n.recv.ch)
	in := make(chan *natsgo.Msg, defaultInboundSize)
	var subs []*natsgo.Subscription
	defer func() {
		for _, sub := range subs {
			if err := sub.Unsubscribe(); err != nil {
				n.logger.Warn().Err(err).Msg("Error while unsubscribing")
			}
		}
	}()
	for _, subject := range n.subjects() {
		n.logger.Info().Msgf("Subscribing to %s", subject)
		sub, err := n.nc.ChanSubscribe(subject, in)
		if err != nil {
			return errors.Wrapf(err, "Unable to subscribe to the subject [%s]", subject)
		}
		subs = append(subs, sub)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-in:
			if err := n.recv.deliver(ctx, msg.Data); err != nil {
				return nil
			}
		}
	}
}

func (n *Nats) Send(_ context.Context, action game.ClientAction) error {
	data, err := Encode(action)
	if err != nil {
		return err
	}
	subject := ActionSubject(n.gameID)
	if err := n.nc.Publish(subject, data); err != nil {
		return errors.Wrapf(err, "Unable to publish %s to %s", action.Name(), subject)
	}
	return nil
}

func (n *Nats) Close() error {
	n.nc.Close()
	return nil
}
