// Package transport moves server messages and client actions over the wire.
// Every frame is a JSON envelope naming the message type, an optional message
// id and the payload.
package transport

import (
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/game"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Envelope is the frame around every message in both directions.
type Envelope struct {
	Type    string              `json:"type"`
	MsgID   string              `json:"msg_id,omitempty"`
	Payload jsoniter.RawMessage `json:"payload"`
}

// NewServerMessage returns an empty message of the given type.
func NewServerMessage(msgType string) (game.ServerMessage, error) {
	switch msgType {
	case game.MsgGameLoaded:
		return &game.GameLoaded{}, nil
	case game.MsgGameStarted:
		return &game.GameStarted{}, nil
	case game.MsgPlayerJoined:
		return &game.PlayerJoined{}, nil
	case game.MsgGameEvent:
		return &game.GameEventMessage{}, nil
	}
	return nil, errors.Wrapf(game.ErrProtocol, "Unknown server message type %q", msgType)
}

// DecodePayload decodes the payload of a message whose type is already known.
func DecodePayload(msgType string, payload []byte) (game.ServerMessage, error) {
	msg, err := NewServerMessage(msgType)
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, errors.Wrapf(game.ErrProtocol, "Message %s has no payload", msgType)
	}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, errors.Wrapf(game.ErrProtocol, "Unable to decode %s payload: %s", msgType, err)
	}
	return msg, nil
}

// Decode parses one inbound frame. It returns the message id, which is empty
// when the server did not set one.
func Decode(data []byte) (string, game.ServerMessage, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, errors.Wrapf(game.ErrProtocol, "Unable to decode envelope: %s", err)
	}
	msg, err := DecodePayload(env.Type, env.Payload)
	if err != nil {
		return "", nil, err
	}
	return env.MsgID, msg, nil
}

// Encode frames a client action with a fresh message id.
func Encode(action game.ClientAction) ([]byte, error) {
	payload, err := json.Marshal(action)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to encode %s", action.Name())
	}
	env := Envelope{
		Type:    action.Name(),
		MsgID:   uuid.New().String(),
		Payload: payload,
	}
	data, err := json.Marshal(&env)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to encode %s envelope", action.Name())
	}
	return data, nil
}

// EncodeServerMessage frames a server message. Replays and tests use it to
// produce what a server would send.
func EncodeServerMessage(msgID string, msg game.ServerMessage) ([]byte, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to encode %s", msg.Type())
	}
	return json.Marshal(&Envelope{Type: msg.Type(), MsgID: msgID, Payload: payload})
}
