// Package replay plays recorded server messages from a YAML script. A replay
// stands in for the server connection, so a table can be driven offline and
// the actions it sends back can be checked.
package replay

import (
	"fmt"
	"io/ioutil"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/transport"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	GameID      int64  `yaml:"game-id"`
	PlayerID    int64  `yaml:"player-id"`
	// LingerMs keeps the replay open after the last step so animations can
	// finish before the connection closes.
	LingerMs int    `yaml:"linger-ms"`
	Steps    []Step `yaml:"steps"`
}

// Step is one server message. The payload is written the way the server
// sends it on the wire.
type Step struct {
	Type    string                 `yaml:"type"`
	MsgID   string                 `yaml:"msg-id"`
	DelayMs int                    `yaml:"delay-ms"`
	Payload map[string]interface{} `yaml:"payload"`
}

func (s *Step) Delay() time.Duration {
	return time.Duration(s.DelayMs) * time.Millisecond
}

// Message decodes the step's payload.
func (s *Step) Message() (game.ServerMessage, error) {
	if s.Payload == nil {
		return nil, errors.Wrapf(game.ErrProtocol, "Step %s has no payload", s.Type)
	}
	data, err := json.Marshal(s.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to encode %s payload", s.Type)
	}
	return transport.DecodePayload(s.Type, data)
}

func ReadScript(fileName string) (*Script, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading replay script file [%s]", fileName)
	}
	script, err := ParseScript(bytes)
	if err != nil {
		return nil, errors.Wrapf(err, "Error in replay script [%s]", fileName)
	}
	return script, nil
}

func ParseScript(data []byte) (*Script, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, errors.Wrap(err, "Error parsing YAML")
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}
	return &script, nil
}

// Validate checks that every step decodes, that the first one mounts the
// table and that every snapshot belongs to the script's game.
func (s *Script) Validate() error {
	if len(s.Steps) == 0 {
		return errors.New("Replay script has no steps")
	}
	for i := range s.Steps {
		step := &s.Steps[i]
		if step.DelayMs < 0 {
			return fmt.Errorf("Step %d has a negative delay", i)
		}
		msg, err := step.Message()
		if err != nil {
			return errors.Wrapf(err, "Step %d", i)
		}
		if i == 0 && msg.Type() != game.MsgGameLoaded {
			return fmt.Errorf("First step must be %s, found %s", game.MsgGameLoaded, msg.Type())
		}
		if s.GameID != 0 && msg.Snapshot().ID != s.GameID {
			return fmt.Errorf("Step %d is for game %d, script is for game %d", i, msg.Snapshot().ID, s.GameID)
		}
	}
	return nil
}
