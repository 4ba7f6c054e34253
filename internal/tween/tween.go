// Package tween is a small time-driven interpolation engine. Tweens move
// numeric properties of a Target from their current values to fixed end values
// and are advanced by a Scheduler from a single clock.
package tween

import (
	"time"
)

// Property names an animatable property of a Target.
type Property int

const (
	PropX Property = iota
	PropY
	PropRotation
)

func (p Property) String() string {
	switch p {
	case PropX:
		return "x"
	case PropY:
		return "y"
	case PropRotation:
		return "rotation"
	}
	return "unknown"
}

// Target is anything with animatable properties.
type Target interface {
	Get(p Property) float64
	Set(p Property, v float64)
}

// Props maps properties to values.
type Props map[Property]float64

// Tween is a single interpolation. Configure it with the builder methods, then
// call Start. A started tween must not be reconfigured.
type Tween struct {
	sched  *Scheduler
	target Target

	to       Props
	from     Props
	duration time.Duration
	delay    time.Duration
	easing   Easing
	repeat   int
	yoyo     bool
	chained  []*Tween

	onStart    []func()
	onComplete []func()

	startTime   time.Duration
	repeatsLeft int
	scheduled   bool
	started     bool
	finished    bool
	abandoned   bool
}

// To sets the end values and the duration of one pass.
func (t *Tween) To(props Props, duration time.Duration) *Tween {
	t.to = make(Props, len(props))
	for p, v := range props {
		t.to[p] = v
	}
	t.duration = duration
	return t
}

func (t *Tween) Delay(d time.Duration) *Tween {
	t.delay = d
	return t
}

func (t *Tween) Easing(e Easing) *Tween {
	t.easing = e
	return t
}

// Repeat plays the tween n more times after the first pass.
func (t *Tween) Repeat(n int) *Tween {
	t.repeat = n
	return t
}

// Yoyo makes every repeat run backwards from the previous pass.
func (t *Tween) Yoyo(on bool) *Tween {
	t.yoyo = on
	return t
}

// Chain starts the given tweens when this one completes.
func (t *Tween) Chain(next ...*Tween) *Tween {
	t.chained = append(t.chained, next...)
	return t
}

// OnStart runs when the tween begins, after its delay.
func (t *Tween) OnStart(fn func()) *Tween {
	t.onStart = append(t.onStart, fn)
	return t
}

// OnComplete runs once when the tween finishes or is abandoned.
func (t *Tween) OnComplete(fn func()) *Tween {
	t.onComplete = append(t.onComplete, fn)
	return t
}

// Start schedules the tween at the scheduler's current time.
func (t *Tween) Start() *Tween {
	return t.StartAt(t.sched.now)
}

// StartAt schedules the tween at the given clock time. Starting a tween takes
// its properties away from every other unfinished tween on the same target.
func (t *Tween) StartAt(at time.Duration) *Tween {
	if t.scheduled {
		return t
	}
	t.scheduled = true
	t.started = false
	t.finished = false
	t.abandoned = false
	t.startTime = at + t.delay
	t.repeatsLeft = t.repeat
	t.sched.add(t)
	return t
}

// Target returns the animated object.
func (t *Tween) Target() Target {
	return t.target
}

// Props returns a copy of the properties the tween still owns.
func (t *Tween) Props() Props {
	props := make(Props, len(t.to))
	for p, v := range t.to {
		props[p] = v
	}
	return props
}

func (t *Tween) Finished() bool {
	return t.finished
}

// Abandoned reports whether another tween took all of this one's properties.
func (t *Tween) Abandoned() bool {
	return t.abandoned
}

// release drops properties now owned by a newer tween.
func (t *Tween) release(props Props) {
	for p := range props {
		delete(t.to, p)
		if t.from != nil {
			delete(t.from, p)
		}
	}
	if len(t.to) == 0 {
		t.abandoned = true
	}
}

func (t *Tween) begin() {
	t.started = true
	t.from = make(Props, len(t.to))
	for p := range t.to {
		t.from[p] = t.target.Get(p)
	}
	for _, fn := range t.onStart {
		fn()
	}
}

func (t *Tween) complete() {
	t.finished = true
	t.scheduled = false
	for _, fn := range t.onComplete {
		fn()
	}
}

// update advances the tween and reports whether it is still active.
func (t *Tween) update(now time.Duration) bool {
	if t.abandoned {
		if !t.started {
			t.started = true
			for _, fn := range t.onStart {
				fn()
			}
		}
		t.complete()
		return false
	}
	if now < t.startTime {
		return true
	}
	if !t.started {
		t.begin()
	}

	progress := 1.0
	if t.duration > 0 {
		progress = float64(now-t.startTime) / float64(t.duration)
		if progress > 1 {
			progress = 1
		}
	}
	ease := t.easing
	if ease == nil {
		ease = Linear
	}
	value := ease(progress)
	for p, end := range t.to {
		start := t.from[p]
		if progress == 1 {
			t.target.Set(p, end)
			continue
		}
		t.target.Set(p, start+(end-start)*value)
	}
	if progress < 1 {
		return true
	}

	if t.repeatsLeft > 0 {
		t.repeatsLeft--
		if t.yoyo {
			t.from, t.to = t.to, t.from
		}
		t.startTime += t.duration
		// the clock may already be past the next pass
		return t.update(now)
	}

	end := t.startTime + t.duration
	t.complete()
	for _, next := range t.chained {
		next.StartAt(end)
	}
	return false
}
