package tween

import (
	"time"
)

// Scheduler owns the active tweens and advances them from one clock. It is not
// safe for concurrent use; it lives on the render loop.
type Scheduler struct {
	now    time.Duration
	tweens []*Tween
}

func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// New creates an unscheduled tween on target.
func (s *Scheduler) New(target Target) *Tween {
	return &Tween{
		sched:  s,
		target: target,
		easing: Linear,
	}
}

// Now is the clock time of the last update.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Active is the number of tweens that are pending or running.
func (s *Scheduler) Active() int {
	n := 0
	for _, t := range s.tweens {
		if !t.finished {
			n++
		}
	}
	return n
}

// Busy reports whether any tween on target is still pending or running.
func (s *Scheduler) Busy(target Target) bool {
	for _, t := range s.tweens {
		if !t.finished && t.target == target {
			return true
		}
	}
	return false
}

func (s *Scheduler) add(t *Tween) {
	for _, other := range s.tweens {
		if other == t || other.finished || other.target != t.target {
			continue
		}
		other.release(t.to)
	}
	s.tweens = append(s.tweens, t)
}

// Update advances every tween to now. The clock never runs backwards. Tweens
// started while updating, chained ones included, are advanced in the same call.
func (s *Scheduler) Update(now time.Duration) {
	if now > s.now {
		s.now = now
	}
	for i := 0; i < len(s.tweens); i++ {
		t := s.tweens[i]
		if t.finished {
			continue
		}
		if !t.update(s.now) {
			t.finished = true
		}
	}

	active := s.tweens[:0]
	for _, t := range s.tweens {
		if !t.finished {
			active = append(active, t)
		}
	}
	for i := len(active); i < len(s.tweens); i++ {
		s.tweens[i] = nil
	}
	s.tweens = active
}

// Reset drops every tween without running callbacks.
func (s *Scheduler) Reset() {
	for _, t := range s.tweens {
		t.finished = true
		t.scheduled = false
	}
	s.tweens = nil
}
