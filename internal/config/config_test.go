package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig("testdata/nats.yaml")
	require.NoError(t, err)

	expected := &Config{
		Transport: TransportNats,
		ServerURL: "ws://localhost:4000/games/socket",
		NatsURL:   "nats://nats.internal:4222",
		AuthToken: "s3cret",
		GameID:    42,
		PlayerID:  3,
		AssetDir:  "/srv/golf/cards",
		Display: Display{
			Headless:  true,
			FrameRate: 30,
			Scale:     1,
			Title:     "Golf",
		},
		Animation: Animation{Speed: 2},
		Actions:   Actions{PerSecond: 10, Burst: 2},
		DebugPort: 9090,
		LogLevel:  "info",
	}
	if diff := cmp.Diff(expected, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	assert.NoError(t, cfg.Validate())
}

func TestReadConfigErrors(t *testing.T) {
	_, err := ReadConfig("testdata/missing.yaml")
	assert.Error(t, err)
	_, err = ReadConfig("testdata/bad.yaml")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GOLF_SERVER_URL", "wss://golf.example.com/socket")
	t.Setenv("NATS_URL", "")
	t.Setenv("GOLF_ASSET_DIR", "/tmp/cards")
	t.Setenv("GOLF_DEBUG_PORT", "8081")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DISABLE_DELAYS", "true")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, "wss://golf.example.com/socket", cfg.ServerURL)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
	assert.Equal(t, "/tmp/cards", cfg.AssetDir)
	assert.Equal(t, uint(8081), cfg.DebugPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Animation.Instant)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	cases := map[string]func(c *Config){
		"unknown transport":   func(c *Config) { c.Transport = "carrier-pigeon" },
		"websocket no url":    func(c *Config) { c.ServerURL = "" },
		"nats no game":        func(c *Config) { c.Transport = TransportNats },
		"replay no script":    func(c *Config) { c.Transport = TransportReplay },
		"zero frame rate":     func(c *Config) { c.Display.FrameRate = 0 },
		"zero scale":          func(c *Config) { c.Display.Scale = 0 },
		"zero speed":          func(c *Config) { c.Animation.Speed = 0 },
		"negative rate limit": func(c *Config) { c.Actions.PerSecond = -1 },
		"debug port too high": func(c *Config) { c.DebugPort = 70000 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
