package render

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/logging"
)

// Headless drives a loop from a ticker with no window. It serves CI runs,
// replays and bots.
type Headless struct {
	frameRate int
	painter   Painter
	logger    *zerolog.Logger

	mu   sync.Mutex
	loop *Loop
}

func NewHeadless(frameRate int, painter Painter) *Headless {
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Headless{
		frameRate: frameRate,
		painter:   painter,
		logger:    logging.GetZeroLogger("render::Headless", nil),
	}
}

func (h *Headless) Attach(loop *Loop) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.loop != nil {
		return errors.New("Headless mount already has a loop")
	}
	h.loop = loop
	return nil
}

// Run ticks the attached loop until ctx is done.
func (h *Headless) Run(ctx context.Context) error {
	h.mu.Lock()
	loop := h.loop
	h.mu.Unlock()
	if loop == nil {
		return errors.New("Nothing attached to headless mount")
	}

	ticker := time.NewTicker(time.Second / time.Duration(h.frameRate))
	defer ticker.Stop()
	start := time.Now()
	h.logger.Info().Int("fps", h.frameRate).Msg("Headless render loop started")
	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Uint64("ticks", loop.Ticks()).Msg("Headless render loop stopped")
			return nil
		case <-ticker.C:
			loop.Tick(time.Since(start))
			if h.painter != nil {
				h.painter.Paint(loop.Frame())
			}
		}
	}
}

// LogPainter logs the frame state when it changes.
type LogPainter struct {
	logger  *zerolog.Logger
	visible int
	frozen  bool
}

func NewLogPainter(logger *zerolog.Logger) *LogPainter {
	return &LogPainter{logger: logger, visible: -1}
}

func (p *LogPainter) Paint(f Frame) {
	visible := 0
	for _, s := range f.Sprites {
		if s.Visible {
			visible++
		}
	}
	if visible == p.visible && f.Frozen == p.frozen {
		return
	}
	p.visible = visible
	p.frozen = f.Frozen
	ev := p.logger.Debug()
	if f.Frozen {
		ev = p.logger.Error().Str("error", f.Message)
	}
	ev.Int("visible", visible).Int("sprites", len(f.Sprites)).Bool("frozen", f.Frozen).Msg("Frame")
}
