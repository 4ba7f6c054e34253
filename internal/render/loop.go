// Package render runs the frame loop. All scene mutation happens on the loop:
// other goroutines hand work over through Post and Call.
package render

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"voyager.com/golfclient/internal/metrics"
	"voyager.com/golfclient/internal/sprite"
)

// Scene is what the loop drives.
type Scene interface {
	// Advance moves animations to now.
	Advance(now time.Duration)
	// Frame is the paint list for the current instant.
	Frame() Frame
	// PointerDown delivers a click in board coordinates.
	PointerDown(x, y float64)
}

// Frame is everything a painter needs for one frame.
type Frame struct {
	Sprites []*sprite.Sprite
	Frozen  bool
	Message string
}

// Mount is a surface the loop can be attached to.
type Mount interface {
	Attach(loop *Loop) error
}

// Painter draws a frame.
type Painter interface {
	Paint(f Frame)
}

const defaultInboxSize = 64

type Loop struct {
	scene Scene
	inbox chan func()
	ticks uint64
	last  int64
}

func NewLoop(scene Scene, inboxSize int) *Loop {
	if inboxSize <= 0 {
		inboxSize = defaultInboxSize
	}
	return &Loop{
		scene: scene,
		inbox: make(chan func(), inboxSize),
	}
}

// Post queues fn to run on the loop at the start of the next tick. Work runs
// in the order it was posted. Post blocks while the inbox is full.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.inbox <- fn:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "Unable to post to render loop")
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	err := l.Post(ctx, func() {
		defer close(done)
		fn()
	})
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "Render loop did not run the call")
	}
}

// Tick drains the inbox and then advances the scene.
func (l *Loop) Tick(now time.Duration) {
	for {
		select {
		case fn := <-l.inbox:
			fn()
			continue
		default:
		}
		break
	}
	l.scene.Advance(now)
	atomic.AddUint64(&l.ticks, 1)
	atomic.StoreInt64(&l.last, int64(now))
	metrics.Metrics.Frame()
}

// PointerDown forwards a click. Call it from the loop goroutine only.
func (l *Loop) PointerDown(x, y float64) {
	l.scene.PointerDown(x, y)
}

// Frame returns the current paint list. Call it from the loop goroutine only.
func (l *Loop) Frame() Frame {
	return l.scene.Frame()
}

// Ticks is the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return atomic.LoadUint64(&l.ticks)
}

// LastTick is the clock time passed to the latest tick.
func (l *Loop) LastTick() time.Duration {
	return time.Duration(atomic.LoadInt64(&l.last))
}
