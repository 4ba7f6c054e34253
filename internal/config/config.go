// Package config reads the client configuration: a YAML file, then
// environment overrides.
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"voyager.com/golfclient/internal/util"
)

const (
	TransportWebSocket = "websocket"
	TransportNats      = "nats"
	TransportReplay    = "replay"
)

type Config struct {
	Transport    string    `yaml:"transport"`
	ServerURL    string    `yaml:"server-url"`
	NatsURL      string    `yaml:"nats-url"`
	AuthToken    string    `yaml:"auth-token"`
	GameID       int64     `yaml:"game-id"`
	PlayerID     int64     `yaml:"player-id"`
	ReplayScript string    `yaml:"replay-script"`
	AssetDir     string    `yaml:"asset-dir"`
	Display      Display   `yaml:"display"`
	Animation    Animation `yaml:"animation"`
	Actions      Actions   `yaml:"actions"`
	DebugPort    uint      `yaml:"debug-port"`
	LogLevel     string    `yaml:"log-level"`
}

type Display struct {
	Headless  bool   `yaml:"headless"`
	FrameRate int    `yaml:"frame-rate"`
	Scale     int    `yaml:"scale"`
	Title     string `yaml:"title"`
}

type Animation struct {
	// Speed divides every animation duration. 2 plays twice as fast.
	Speed float64 `yaml:"speed"`
	// Instant skips animations altogether.
	Instant bool `yaml:"instant"`
}

type Actions struct {
	PerSecond float64 `yaml:"per-second"`
	Burst     int     `yaml:"burst"`
}

func Default() *Config {
	return &Config{
		Transport: TransportWebSocket,
		ServerURL: "ws://localhost:4000/games/socket",
		NatsURL:   "nats://localhost:4222",
		Display: Display{
			FrameRate: 60,
			Scale:     1,
			Title:     "Golf",
		},
		Animation: Animation{Speed: 1},
		Actions:   Actions{PerSecond: 5, Burst: 2},
		LogLevel:  "info",
	}
}

// ReadConfig reads fileName over the defaults. Keys missing from the file keep
// their default values.
func ReadConfig(fileName string) (*Config, error) {
	bytes, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrapf(err, "Error reading config file [%s]", fileName)
	}
	cfg := Default()
	if err := yaml.Unmarshal(bytes, cfg); err != nil {
		return nil, errors.Wrapf(err, "Error parsing YAML file [%s]", fileName)
	}
	return cfg, nil
}

// ApplyEnv lets the environment override the file.
func (c *Config) ApplyEnv() {
	if v := util.Env.GetServerURL(); v != "" {
		c.ServerURL = v
	}
	if v := util.Env.GetNatsURL(); v != "" {
		c.NatsURL = v
	}
	if v := util.Env.GetAssetDir(); v != "" {
		c.AssetDir = v
	}
	if v := util.Env.GetDebugPort(); v != 0 {
		c.DebugPort = v
	}
	if v := util.Env.GetLogLevel(); v != "" {
		c.LogLevel = v
	}
	if util.Env.ShouldDisableDelays() {
		c.Animation.Instant = true
	}
}

func (c *Config) Validate() error {
	switch c.Transport {
	case TransportWebSocket:
		if c.ServerURL == "" {
			return fmt.Errorf("server-url is required for the %s transport", c.Transport)
		}
	case TransportNats:
		if c.NatsURL == "" {
			return fmt.Errorf("nats-url is required for the %s transport", c.Transport)
		}
		if c.GameID == 0 {
			return fmt.Errorf("game-id is required for the %s transport", c.Transport)
		}
	case TransportReplay:
		if c.ReplayScript == "" {
			return fmt.Errorf("replay-script is required for the %s transport", c.Transport)
		}
	default:
		return fmt.Errorf("Unknown transport %q", c.Transport)
	}
	if c.Display.FrameRate <= 0 {
		return fmt.Errorf("Invalid frame-rate %d", c.Display.FrameRate)
	}
	if c.Display.Scale <= 0 {
		return fmt.Errorf("Invalid display scale %d", c.Display.Scale)
	}
	if c.Animation.Speed <= 0 {
		return fmt.Errorf("Invalid animation speed %v", c.Animation.Speed)
	}
	if c.Actions.PerSecond < 0 {
		return fmt.Errorf("Invalid action rate %v", c.Actions.PerSecond)
	}
	if c.DebugPort > 65535 {
		return fmt.Errorf("Invalid debug-port %d", c.DebugPort)
	}
	return nil
}
