package scheduler

import (
	"sync"
	"time"

	"strudel-go/pattern"
)

const (
	defaultLookAhead = 100 * time.Millisecond
	defaultInterval  = 50 * time.Millisecond
)

// command is a single scheduler mutation, enqueued by callers (REPL,
// tempo controls) and applied only from inside the tick loop — the
// single-consumer command queue spec.md §5 requires in place of locks
// around the hot state.
type command func(*Scheduler)

// Scheduler is the clock-driven look-ahead loop described in spec.md
// §4.4. All of its hot fields (cps, active/pending pattern,
// lastScheduledTo) are mutated only by the goroutine running Run; callers
// only ever enqueue commands.
type Scheduler struct {
	clock Clock
	sink  Sink

	cps             pattern.Rational
	active          pattern.Pattern
	pending         *pattern.Pattern
	lookAhead       time.Duration
	interval        time.Duration
	lastScheduledTo pattern.Rational

	commands chan command
	stopCh   chan struct{}
	stopOnce sync.Once

	statusMu sync.RWMutex
	status   Status
}

// Status is a snapshot of scheduler state safe to read from any
// goroutine (e.g. a TUI polling for a display refresh).
type Status struct {
	Cps   pattern.Rational
	Cycle pattern.Rational
	Ticks uint64
}

// New builds a Scheduler with spec.md's default look-ahead/interval,
// starting silent at cps=1.
func New(clock Clock, sink Sink) *Scheduler {
	return &Scheduler{
		clock:     clock,
		sink:      sink,
		cps:       pattern.One,
		active:    pattern.Silence,
		lookAhead: defaultLookAhead,
		interval:  defaultInterval,
		commands:  make(chan command, 64),
		stopCh:    make(chan struct{}),

		// The zero Rational{} has a zero denominator; start at cycle 0.
		lastScheduledTo: pattern.Zero,
	}
}

// Play schedules p to become the active pattern at the next integer
// cycle boundary (sync-on-cycle semantics).
func (s *Scheduler) Play(p pattern.Pattern) {
	s.enqueue(func(s *Scheduler) { s.pending = &p })
}

// Stop clears any pending pattern and silences playback immediately.
// Already-emitted events keep their timestamps; the sink is responsible
// for dropping anything it hasn't fired yet past the grace period.
func (s *Scheduler) Stop() {
	s.enqueue(func(s *Scheduler) {
		s.pending = nil
		s.active = pattern.Silence
	})
}

// SetCps applies at the current tick; phase (lastScheduledTo) is left
// untouched so there is no jump.
func (s *Scheduler) SetCps(cps pattern.Rational) {
	s.enqueue(func(s *Scheduler) { s.cps = cps })
}

// Seek jumps pattern-time to an arbitrary cycle position, e.g. for a
// host-driven transport control. Takes effect at the next tick.
func (s *Scheduler) Seek(cyclePos pattern.Rational) {
	s.enqueue(func(s *Scheduler) { s.lastScheduledTo = cyclePos })
}

func (s *Scheduler) enqueue(cmd command) {
	select {
	case s.commands <- cmd:
	case <-s.stopCh:
	}
}

// Status returns a thread-safe snapshot of tempo and cycle position.
func (s *Scheduler) Status() Status {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	return s.status
}

// Close stops the Run loop. Safe to call multiple times and from any
// goroutine.
func (s *Scheduler) Close() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Run drives the scheduler's tick loop until Close is called. It owns
// every hot field — nothing outside this goroutine touches cps, active,
// pending, or lastScheduledTo directly.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	var ticks uint64
	for {
		select {
		case <-s.stopCh:
			return
		case cmd := <-s.commands:
			cmd(s)
		case <-ticker.C:
			ticks++
			s.tick()
			s.publishStatus(ticks)
		}
	}
}

func (s *Scheduler) publishStatus(ticks uint64) {
	s.statusMu.Lock()
	s.status = Status{Cps: s.cps, Cycle: s.lastScheduledTo, Ticks: ticks}
	s.statusMu.Unlock()
}

// tick runs one iteration of the main loop in spec.md §4.4: compute the
// query window, split it at a cycle boundary if a pattern swap is
// pending, query, and deliver.
func (s *Scheduler) tick() {
	now := s.clock.Now()
	begin := s.lastScheduledTo
	end := s.timeToCycles(now.Add(s.lookAhead))
	if !end.Gt(begin) {
		return
	}

	if s.pending != nil {
		boundary := nextCycleBoundary(begin)
		if boundary.Lt(end) {
			s.query(pattern.Arc{Begin: begin, End: boundary})
			s.active = *s.pending
			s.pending = nil
			s.query(pattern.Arc{Begin: boundary, End: end})
			s.lastScheduledTo = end
			return
		}
	}

	s.query(pattern.Arc{Begin: begin, End: end})
	s.lastScheduledTo = end
}

// nextCycleBoundary returns the smallest integer cycle >= t: if t is
// already an integer, a pending swap takes effect immediately.
func nextCycleBoundary(t pattern.Rational) pattern.Rational {
	if t.Eq(t.Sam()) {
		return t.Sam()
	}
	return t.NextSam()
}

func (s *Scheduler) query(arc pattern.Arc) {
	if arc.IsEmpty() {
		return
	}
	haps := s.queryGuarded(arc)
	for _, h := range haps {
		// Only onset Haps (or analog Haps with no Whole) trigger a new
		// event — a continuation fragment of a longer note re-queried in
		// a later window must not re-fire it.
		if h.Whole != nil && !h.HasOnset() {
			continue
		}
		t := s.clock.Epoch().Add(s.cyclesToDuration(h.Part.Begin))
		dur := s.cyclesToDuration(h.Part.Duration())
		s.sink.Emit(t, h.Value, dur, h.Context)
	}
}

// queryGuarded runs active.Query, reporting (rather than propagating) a
// panic as a TimingError diagnostic and short-circuiting to no events —
// spec.md §5's "no panics across the tick boundary" contract, and §7's
// "pattern query exceeded tick budget" treatment for the degenerate case
// of a combinator bug rather than a slow query.
func (s *Scheduler) queryGuarded(arc pattern.Arc) (haps []pattern.Hap) {
	defer func() {
		if r := recover(); r != nil {
			pattern.Report(pattern.Diagnostic{Kind: pattern.KindTimingError, Message: "pattern query panicked; window skipped"})
			haps = nil
		}
	}()
	return s.active.Query(arc)
}

func (s *Scheduler) timeToCycles(t time.Time) pattern.Rational {
	secs := t.Sub(s.clock.Epoch()).Seconds()
	return pattern.FromFloat(secs).Mul(s.cps)
}

func (s *Scheduler) cyclesToDuration(r pattern.Rational) time.Duration {
	secs := r.Div(s.cps).Float64()
	return time.Duration(secs * float64(time.Second))
}
