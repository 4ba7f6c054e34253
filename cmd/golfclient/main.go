package main

import (
	"flag"
	"os"

	"voyager.com/golfclient/internal/config"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/util"
)

var (
	cmdArgs    arg
	mainLogger = logging.GetZeroLogger("main::main", nil)
)

type arg struct {
	configFile string
	transport  string
	serverURL  string
	replay     string
	gameID     int64
	playerID   int64
	headless   bool
	debugPort  uint
}

func init() {
	flag.StringVar(&cmdArgs.configFile, "config", "", "Client config YAML file")
	flag.StringVar(&cmdArgs.transport, "transport", "", "Transport to use: websocket, nats or replay")
	flag.StringVar(&cmdArgs.serverURL, "server-url", "", "Websocket URL of the game")
	flag.StringVar(&cmdArgs.replay, "replay", "", "Replay script YAML file. Implies -transport replay.")
	flag.Int64Var(&cmdArgs.gameID, "game-id", 0, "Game to join")
	flag.Int64Var(&cmdArgs.playerID, "player-id", 0, "Player to join as. Leave out to spectate.")
	flag.BoolVar(&cmdArgs.headless, "headless", false, "Run without a window")
	flag.UintVar(&cmdArgs.debugPort, "debug-port", 0, "Port for the debug server. 0 disables it.")
}

func main() {
	flag.Parse()
	os.Exit(golfclient())
}

func golfclient() int {
	cfg := config.Default()
	if cmdArgs.configFile != "" {
		var err error
		cfg, err = config.ReadConfig(cmdArgs.configFile)
		if err != nil {
			mainLogger.Error().Msgf("Error while reading config: %+v", err)
			return 1
		}
	}
	cfg.ApplyEnv()
	applyFlags(cfg)
	logging.SetGlobalLevel(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		mainLogger.Error().Msgf("Invalid config: %s", err)
		return 1
	}
	mainLogger.Info().
		Str("transport", cfg.Transport).
		Int64(logging.GameIDKey, cfg.GameID).
		Int64(logging.PlayerIDKey, cfg.PlayerID).
		Bool("headless", cfg.Display.Headless).
		Msg("Starting golf client")

	app := &app{
		cfg:           cfg,
		printGameMsg:  util.Env.ShouldPrintGameMsg(),
		printStateMsg: util.Env.ShouldPrintStateMsg(),
	}
	if err := app.run(); err != nil {
		mainLogger.Error().Msgf("Golf client stopped: %+v", err)
		return 1
	}
	return 0
}

// applyFlags lets command line flags override the config file and the
// environment.
func applyFlags(cfg *config.Config) {
	if cmdArgs.transport != "" {
		cfg.Transport = cmdArgs.transport
	}
	if cmdArgs.serverURL != "" {
		cfg.ServerURL = cmdArgs.serverURL
	}
	if cmdArgs.replay != "" {
		cfg.Transport = config.TransportReplay
		cfg.ReplayScript = cmdArgs.replay
	}
	if cmdArgs.gameID != 0 {
		cfg.GameID = cmdArgs.gameID
	}
	if cmdArgs.playerID != 0 {
		cfg.PlayerID = cmdArgs.playerID
	}
	if cmdArgs.headless {
		cfg.Display.Headless = true
	}
	if cmdArgs.debugPort != 0 {
		cfg.DebugPort = cmdArgs.debugPort
	}
}
