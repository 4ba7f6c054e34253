package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type environment struct {
	ServerURL     string
	NatsURL       string
	AssetDir      string
	DebugPort     string
	LogLevel      string
	PrintGameMsg  string
	PrintStateMsg string
	DisableDelays string
}

// Env is a helper object for accessing environment variables.
var Env = &environment{
	ServerURL:     "GOLF_SERVER_URL",
	NatsURL:       "NATS_URL",
	AssetDir:      "GOLF_ASSET_DIR",
	DebugPort:     "GOLF_DEBUG_PORT",
	LogLevel:      "LOG_LEVEL",
	PrintGameMsg:  "PRINT_GAME_MSG",
	PrintStateMsg: "PRINT_STATE_MSG",
	DisableDelays: "DISABLE_DELAYS",
}

func (e *environment) GetServerURL() string {
	return os.Getenv(e.ServerURL)
}

func (e *environment) GetNatsURL() string {
	return os.Getenv(e.NatsURL)
}

func (e *environment) GetAssetDir() string {
	return os.Getenv(e.AssetDir)
}

// GetDebugPort returns the debug server port, or 0 if it is not set.
func (e *environment) GetDebugPort() uint {
	portStr := os.Getenv(e.DebugPort)
	if portStr == "" {
		return 0
	}
	portNum, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		msg := fmt.Sprintf("Invalid debug port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return uint(portNum)
}

func (e *environment) GetLogLevel() string {
	return os.Getenv(e.LogLevel)
}

func (e *environment) ShouldPrintGameMsg() bool {
	return e.isTrue(e.PrintGameMsg)
}

func (e *environment) ShouldPrintStateMsg() bool {
	return e.isTrue(e.PrintStateMsg)
}

// ShouldDisableDelays makes every animation finish on its first tick.
func (e *environment) ShouldDisableDelays() bool {
	return e.isTrue(e.DisableDelays)
}

func (e *environment) isTrue(name string) bool {
	v := os.Getenv(name)
	return v == "1" || strings.ToLower(v) == "true"
}
