package transport

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
)

const maxFrameSize = 1 << 20

// WebSocket talks to the server over a single websocket. Both directions use
// text frames holding an Envelope.
type WebSocket struct {
	logger *zerolog.Logger
	conn   *websocket.Conn
	recv   *receiver

	closeOnce sync.Once
}

// DialWebSocket connects to url. A non-empty token is sent as a bearer token.
func DialWebSocket(ctx context.Context, url string, token string) (*WebSocket, error) {
	header := http.Header{}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to connect to %s", url)
	}
	logger := logging.GetZeroLogger("transport::WebSocket", nil).With().Str("url", url).Logger()
	return NewWebSocket(conn, &logger), nil
}

// NewWebSocket wraps an established connection.
func NewWebSocket(conn *websocket.Conn, logger *zerolog.Logger) *WebSocket {
	conn.SetReadLimit(maxFrameSize)
	return &WebSocket{
		logger: logger,
		conn:   conn,
		recv:   newReceiver(logger, DefaultDedupeSize),
	}
}

func (w *WebSocket) Messages() <-chan game.ServerMessage {
	return w.recv.ch
}

func (w *WebSocket) Run(ctx context.Context) error {
	defer close(w.recv.ch)
	w.logger.Info().Msg("Reading server messages")
	for {
		typ, data, err := w.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				w.logger.Info().Msg("Connection closed")
				return nil
			}
			return errors.Wrap(err, "Error while reading from websocket")
		}
		if typ != websocket.MessageText {
			w.logger.Warn().Int("bytes", len(data)).Msg("Ignoring binary frame")
			continue
		}
		if err := w.recv.deliver(ctx, data); err != nil {
			return nil
		}
	}
}

func (w *WebSocket) Send(ctx context.Context, action game.ClientAction) error {
	data, err := Encode(action)
	if err != nil {
		return err
	}
	if err := w.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return errors.Wrapf(err, "Unable to send %s", action.Name())
	}
	return nil
}

func (w *WebSocket) Close() error {
	var err error
	w.closeOnce.Do(func() {
		err = w.conn.Close(websocket.StatusNormalClosure, "client closing")
	})
	return err
}
