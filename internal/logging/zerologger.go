package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	GameIDKey   string = "gameID"
	PlayerIDKey string = "playerID"
	ViewerKey   string = "viewer"
	MsgTypeKey  string = "msgType"
	MsgIDKey    string = "msgID"
	ActionKey   string = "action"
	SlotKey     string = "slot"
	StatusKey   string = "status"
)

func getEnableColorLog() string {
	v := os.Getenv("COLORIZE_LOG")
	if v == "" {
		// Use colorized logging by default.
		return "true"
	}
	return v
}

func IsColorLoggingEnabled() bool {
	return getEnableColorLog() == "1" || strings.ToLower(getEnableColorLog()) == "true"
}

func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	noColor := !IsColorLoggingEnabled()
	output := zerolog.ConsoleWriter{Out: out, NoColor: noColor, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}

// SetGlobalLevel parses a level name such as "debug" or "warn". An empty or
// unknown name leaves the level at info.
func SetGlobalLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// Nop returns a logger that discards everything. Handy for tests.
func Nop() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
