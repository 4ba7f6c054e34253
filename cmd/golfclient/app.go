package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/config"
	"voyager.com/golfclient/internal/debug"
	"voyager.com/golfclient/internal/game"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/replay"
	"voyager.com/golfclient/internal/screen"
	"voyager.com/golfclient/internal/table"
	"voyager.com/golfclient/internal/transport"
)

const (
	connectTimeout = 10 * time.Second
	loadTimeout    = 30 * time.Second
	textureCache   = 64
)

type app struct {
	cfg           *config.Config
	printGameMsg  bool
	printStateMsg bool
}

// mount is a surface that also owns the main loop.
type mount interface {
	render.Mount
	Run(ctx context.Context) error
}

func (a *app) run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	conn, rep, err := a.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	errs := make(chan error, 4)
	go func() {
		err := conn.Run(ctx)
		if rep != nil {
			// a finished replay ends the session
			cancel()
		}
		errs <- errors.Wrap(err, "Transport stopped")
	}()

	var initial game.State
	if rep != nil {
		initial = rep.Initial()
	} else {
		initial, err = awaitGameLoaded(ctx, conn.Messages())
		if err != nil {
			return err
		}
	}

	bundle, err := a.bundle()
	if err != nil {
		return err
	}
	surface, err := a.mount()
	if err != nil {
		return err
	}

	outbox := transport.NewOutbox(conn, a.cfg.Actions.PerSecond, a.cfg.Actions.Burst)
	go outbox.Run(ctx)

	loadCtx, loadCancel := context.WithTimeout(ctx, loadTimeout)
	defer loadCancel()
	c, err := table.New(loadCtx, initial, surface, outbox, bundle, table.Options{
		Timings:       a.timings(),
		Logger:        logging.GetZeroLogger("table::Context", nil),
		PrintGameMsg:  a.printGameMsg,
		PrintStateMsg: a.printStateMsg,
	})
	if err != nil {
		return errors.Wrap(err, "Unable to mount the table")
	}

	go func() {
		if err := c.Pump(ctx, conn.Messages()); err != nil {
			errs <- errors.Wrap(err, "Message pump stopped")
		}
	}()

	if a.cfg.DebugPort != 0 {
		srv := debug.NewServer(a.cfg.DebugPort, c)
		go func() {
			if err := srv.Run(); err != nil {
				mainLogger.Error().Err(err).Msg("Debug server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				if err != nil && errors.Cause(err) != context.Canceled {
					mainLogger.Error().Msgf("%+v", err)
				}
				cancel()
			}
		}
	}()

	if err := surface.Run(ctx); err != nil {
		return err
	}
	if rep != nil {
		mainLogger.Info().Int("actions", len(rep.Sent())).Msg("Replay done")
	}
	if c.Frozen() {
		return errors.Wrap(c.Err(), "Table froze")
	}
	return nil
}

// connect opens the configured transport. For replays the replay itself is
// returned too.
func (a *app) connect(ctx context.Context) (transport.Transport, *replay.Replay, error) {
	cfg := a.cfg
	switch cfg.Transport {
	case config.TransportWebSocket:
		dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		defer cancel()
		url := cfg.ServerURL
		if cfg.GameID != 0 {
			url = fmt.Sprintf("%s?game_id=%d&player_id=%d", url, cfg.GameID, cfg.PlayerID)
		}
		ws, err := transport.DialWebSocket(dialCtx, url, cfg.AuthToken)
		return ws, nil, err
	case config.TransportNats:
		n, err := transport.ConnectNats(cfg.NatsURL, cfg.AuthToken, cfg.GameID, cfg.PlayerID)
		return n, nil, err
	case config.TransportReplay:
		script, err := replay.ReadScript(cfg.ReplayScript)
		if err != nil {
			return nil, nil, err
		}
		r, err := replay.New(script, cfg.Animation.Speed)
		return r, r, err
	}
	return nil, nil, fmt.Errorf("Unknown transport %q", cfg.Transport)
}

// awaitGameLoaded waits for the mount signal. Anything before it is dropped.
func awaitGameLoaded(ctx context.Context, msgs <-chan game.ServerMessage) (game.State, error) {
	for {
		select {
		case <-ctx.Done():
			return game.State{}, errors.Wrap(ctx.Err(), "Gave up waiting for the game to load")
		case msg, ok := <-msgs:
			if !ok {
				return game.State{}, errors.New("Connection closed before the game loaded")
			}
			if loaded, ok := msg.(*game.GameLoaded); ok {
				return loaded.Game, nil
			}
			mainLogger.Warn().Str(logging.MsgTypeKey, msg.Type()).Msg("Ignoring message that arrived before the game loaded")
		}
	}
}

func (a *app) bundle() (assets.Bundle, error) {
	if a.cfg.AssetDir == "" {
		mainLogger.Info().Msg("No asset directory configured, drawing placeholder cards")
		return assets.NewGeneratedBundle(), nil
	}
	return assets.NewDirBundle(a.cfg.AssetDir, textureCache)
}

func (a *app) mount() (mount, error) {
	d := a.cfg.Display
	if d.Headless {
		painter := render.NewLogPainter(logging.GetZeroLogger("render::LogPainter", nil))
		return render.NewHeadless(d.FrameRate, painter), nil
	}
	return screen.NewWindow(d.Title, d.Scale, d.FrameRate)
}

func (a *app) timings() table.Timings {
	t := table.DefaultTimings()
	if a.cfg.Animation.Instant {
		return t.Instant()
	}
	return t.Scaled(a.cfg.Animation.Speed)
}
