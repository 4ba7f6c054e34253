package tween

// Timeline is an ordered list of named steps run one after another. A tween
// step is built only when the timeline reaches it, so it sees the state left
// by the steps before it. A timeline runs at most once.
type Timeline struct {
	sched   *Scheduler
	name    string
	steps   []step
	next    int
	started bool
	done    bool

	onStep func(name string)
}

type step struct {
	name   string
	build  func() *Tween
	action func()
}

func NewTimeline(s *Scheduler, name string) *Timeline {
	return &Timeline{sched: s, name: name}
}

// Then appends a tween step. A nil tween from build skips the step.
func (tl *Timeline) Then(name string, build func() *Tween) *Timeline {
	tl.steps = append(tl.steps, step{name: name, build: build})
	return tl
}

// Do appends an instant step.
func (tl *Timeline) Do(name string, action func()) *Timeline {
	tl.steps = append(tl.steps, step{name: name, action: action})
	return tl
}

// OnStep is called with each step name as the step begins.
func (tl *Timeline) OnStep(fn func(name string)) *Timeline {
	tl.onStep = fn
	return tl
}

// After starts the timeline when trigger completes.
func (tl *Timeline) After(trigger *Tween) *Timeline {
	trigger.OnComplete(tl.Start)
	return tl
}

// Start runs the timeline from its first step. Later calls do nothing.
func (tl *Timeline) Start() {
	if tl.started {
		return
	}
	tl.started = true
	tl.advance()
}

func (tl *Timeline) advance() {
	for tl.next < len(tl.steps) {
		st := tl.steps[tl.next]
		tl.next++
		if tl.onStep != nil {
			tl.onStep(st.name)
		}
		if st.action != nil {
			st.action()
			continue
		}
		t := st.build()
		if t == nil {
			continue
		}
		t.OnComplete(tl.advance)
		t.Start()
		return
	}
	tl.done = true
}

func (tl *Timeline) Name() string {
	return tl.name
}

// Steps lists the step names in order.
func (tl *Timeline) Steps() []string {
	names := make([]string, len(tl.steps))
	for i, st := range tl.steps {
		names[i] = st.name
	}
	return names
}

func (tl *Timeline) Started() bool {
	return tl.started
}

func (tl *Timeline) Done() bool {
	return tl.done
}
