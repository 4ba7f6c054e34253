// Package screen shows the table in a desktop window. The window is a mount:
// the table attaches its render loop, and Ebitengine calls back once per
// frame to tick it and paint the result.
package screen

import (
	"context"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"voyager.com/golfclient/internal/assets"
	"voyager.com/golfclient/internal/layout"
	"voyager.com/golfclient/internal/logging"
	"voyager.com/golfclient/internal/render"
	"voyager.com/golfclient/internal/sprite"
)

var (
	background   = color.RGBA{0x2e, 0x8b, 0x57, 0xff}
	outlineColor = color.RGBA{0xff, 0x00, 0xff, 0xff}
	frozenShade  = color.RGBA{0x00, 0x00, 0x00, 0x99}
)

const (
	outlineWidth = 2
	// 52 card faces and the back
	imageCacheSize = 64
)

type Window struct {
	logger    *zerolog.Logger
	title     string
	scale     int
	frameRate int

	mu   sync.Mutex
	loop *render.Loop

	ctx    context.Context
	start  time.Time
	frame  render.Frame
	images *lru.Cache
	pixel  *ebiten.Image
}

func NewWindow(title string, scale int, frameRate int) (*Window, error) {
	images, err := lru.New(imageCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize texture cache")
	}
	if scale <= 0 {
		scale = 1
	}
	if frameRate <= 0 {
		frameRate = 60
	}
	return &Window{
		logger:    logging.GetZeroLogger("screen::Window", nil),
		title:     title,
		scale:     scale,
		frameRate: frameRate,
		images:    images,
	}, nil
}

func (w *Window) Attach(loop *render.Loop) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loop != nil {
		return errors.New("Window already has a loop")
	}
	w.loop = loop
	return nil
}

// Run opens the window and blocks until it is closed or ctx is done. It must
// be called from the main goroutine.
func (w *Window) Run(ctx context.Context) error {
	w.mu.Lock()
	attached := w.loop != nil
	w.mu.Unlock()
	if !attached {
		return errors.New("Nothing attached to window")
	}

	w.ctx = ctx
	w.start = time.Now()
	w.pixel = ebiten.NewImage(1, 1)
	w.pixel.Fill(color.White)

	ebiten.SetWindowSize(layout.BoardWidth*w.scale, layout.BoardHeight*w.scale)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetTPS(w.frameRate)
	w.logger.Info().Int("fps", w.frameRate).Msg("Opening window")
	if err := ebiten.RunGame(w); err != nil && err != ebiten.Termination {
		return errors.Wrap(err, "Window closed with error")
	}
	w.logger.Info().Msg("Window closed")
	return nil
}

// Update runs once per tick: pointer input first, then the loop.
func (w *Window) Update() error {
	if w.ctx.Err() != nil {
		return ebiten.Termination
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		w.loop.PointerDown(float64(x), float64(y))
	}
	w.loop.Tick(time.Since(w.start))
	w.frame = w.loop.Frame()

	shape := ebiten.CursorShapeDefault
	x, y := ebiten.CursorPosition()
	if hovering(w.frame.Sprites, float64(x), float64(y)) {
		shape = ebiten.CursorShapePointer
	}
	ebiten.SetCursorShape(shape)
	return nil
}

func hovering(sprites []*sprite.Sprite, x, y float64) bool {
	for _, s := range sprites {
		if s.Visible && s.Cursor && s.Contains(x, y) {
			return true
		}
	}
	return false
}

func (w *Window) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	for _, s := range w.frame.Sprites {
		if !s.Visible || s.Texture == nil {
			continue
		}
		if s.Outline {
			w.drawOutline(screen, s)
		}
		img := w.image(s.Texture)
		iw, ih := s.Texture.Size()
		op := &ebiten.DrawImageOptions{Filter: ebiten.FilterLinear}
		op.GeoM = place(s, float64(iw), float64(ih), 0)
		screen.DrawImage(img, op)
	}
	if w.frame.Frozen {
		vector.DrawFilledRect(screen, 0, 0, layout.BoardWidth, layout.BoardHeight, frozenShade, false)
		ebitenutil.DebugPrintAt(screen, "Table stopped: "+w.frame.Message, 8, 8)
	}
}

func (w *Window) drawOutline(screen *ebiten.Image, s *sprite.Sprite) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM = place(s, 1, 1, outlineWidth)
	op.ColorScale.ScaleWithColor(outlineColor)
	screen.DrawImage(w.pixel, op)
}

// place maps an iw by ih image onto the sprite's rectangle grown by pad on
// every side, rotated about the card centre.
func place(s *sprite.Sprite, iw, ih, pad float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-iw/2, -ih/2)
	g.Scale((s.W+2*pad)/iw, (s.H+2*pad)/ih)
	g.Rotate(s.Rotation)
	g.Translate(s.X, s.Y)
	return g
}

func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return layout.BoardWidth, layout.BoardHeight
}

// image converts a texture once and keeps the result.
func (w *Window) image(t *assets.Texture) *ebiten.Image {
	if v, ok := w.images.Get(t.Name); ok {
		return v.(*ebiten.Image)
	}
	img := ebiten.NewImageFromImage(t.Image)
	w.images.Add(t.Name, img)
	return img
}
