// Package timer implements the interval workout state machine: a fixed
// ready countdown, then alternating work/rest phases per round, ending in
// complete. The timer owns all mutable state and is advanced only by an
// external once-per-second Tick and by explicit Start/Pause/Reset commands;
// side effects leave through an events.Emitter.
package timer

import (
	"errors"
	"fmt"

	"github.com/mwhitt/pulse/internal/events"
)

// Default product choices. Both are overridable through Config.
const (
	// DefaultReadySeconds is the warm-up countdown before the first work
	// phase, so users are not caught mid-motion when the timer begins.
	DefaultReadySeconds = 5
	// DefaultCueWindow is the number of trailing seconds in each phase
	// that fire a countdown cue (the "3-2-1" anticipation signal).
	DefaultCueWindow = 3
)

// ErrInvalidConfig is returned by Start when any configured duration or
// the round count is non-positive.
var ErrInvalidConfig = errors.New("invalid timer configuration")

// Phase is one segment of the timer's cycle.
type Phase int

// Phases, in cycle order.
const (
	PhaseReady Phase = iota
	PhaseWork
	PhaseRest
	PhaseComplete
)

// String returns the human-readable phase label used by displays.
func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "get ready"
	case PhaseWork:
		return "work"
	case PhaseRest:
		return "rest"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Status is the run status, orthogonal to Phase.
type Status int

// Run statuses.
const (
	StatusStopped Status = iota
	StatusRunning
	StatusPaused
)

// String returns the lowercase status label.
func (s Status) String() string {
	switch s {
	case StatusStopped:
		return "stopped"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Config holds the user-supplied interval configuration. It is read at
// Start and not re-read mid-run; changes while running take effect only
// after the next Reset+Start.
type Config struct {
	WorkSeconds int `yaml:"work_seconds" mapstructure:"work_seconds"`
	RestSeconds int `yaml:"rest_seconds" mapstructure:"rest_seconds"`
	Rounds      int `yaml:"rounds" mapstructure:"rounds"`

	// ReadySeconds and CueWindow are optional; zero means the default.
	ReadySeconds int `yaml:"ready_seconds" mapstructure:"ready_seconds"`
	CueWindow    int `yaml:"cue_window" mapstructure:"cue_window"`
}

// Validate checks that all durations and the round count are positive.
func (c Config) Validate() error {
	if c.WorkSeconds <= 0 {
		return fmt.Errorf("%w: work seconds must be positive, got %d", ErrInvalidConfig, c.WorkSeconds)
	}
	if c.RestSeconds <= 0 {
		return fmt.Errorf("%w: rest seconds must be positive, got %d", ErrInvalidConfig, c.RestSeconds)
	}
	if c.Rounds <= 0 {
		return fmt.Errorf("%w: rounds must be positive, got %d", ErrInvalidConfig, c.Rounds)
	}
	if c.ReadySeconds < 0 {
		return fmt.Errorf("%w: ready seconds must not be negative, got %d", ErrInvalidConfig, c.ReadySeconds)
	}
	return nil
}

// withDefaults returns a copy with zero optional fields filled in.
func (c Config) withDefaults() Config {
	if c.ReadySeconds == 0 {
		c.ReadySeconds = DefaultReadySeconds
	}
	if c.CueWindow == 0 {
		c.CueWindow = DefaultCueWindow
	}
	return c
}

// TotalConfiguredSeconds is the cumulative configured workout duration,
// rounds x (work + rest), independent of elapsed time.
func (c Config) TotalConfiguredSeconds() int {
	return c.Rounds * (c.WorkSeconds + c.RestSeconds)
}

// TicksToComplete is the number of ticks from start to the complete phase:
// the ready countdown, every work phase, and the rests between rounds (the
// final round has no rest).
func (c Config) TicksToComplete() int {
	c = c.withDefaults()
	return c.ReadySeconds + c.Rounds*c.WorkSeconds + (c.Rounds-1)*c.RestSeconds
}

// IntervalTimer runs the phase sequence for one workout. It is not safe
// for concurrent use; all commands and ticks must be serialized onto one
// goroutine, which is how the TUI drives it.
type IntervalTimer struct {
	cfg     Config
	emitter events.Emitter

	phase     Phase
	status    Status
	round     int
	remaining int
	elapsed   int
}

// New creates a stopped timer that emits through the given emitter.
// A nil emitter is allowed; emissions are then discarded.
func New(emitter events.Emitter) *IntervalTimer {
	return &IntervalTimer{
		emitter: emitter,
		phase:   PhaseReady,
		status:  StatusStopped,
		round:   1,
	}
}

// Config returns the configuration captured at the last Start.
func (t *IntervalTimer) Config() Config { return t.cfg }

// Status returns the current run status.
func (t *IntervalTimer) Status() Status { return t.status }

// Phase returns the current phase.
func (t *IntervalTimer) Phase() Phase { return t.phase }

// Start begins a workout from stopped, or resumes from paused. Starting
// from stopped validates and captures cfg; resuming ignores cfg and picks
// up at the held countdown. Start is a no-op while already running.
func (t *IntervalTimer) Start(cfg Config) error {
	switch t.status {
	case StatusRunning:
		return nil

	case StatusPaused:
		t.status = StatusRunning
		t.emit(&events.TimerResumedEvent{
			BaseEvent: events.NewTimerEvent(events.EventTimerResumed),
			Phase:     t.phase.String(),
			Round:     t.round,
			Remaining: t.remaining,
		})
		return nil

	default: // StatusStopped
		if err := cfg.Validate(); err != nil {
			return err
		}
		t.cfg = cfg.withDefaults()
		t.phase = PhaseReady
		t.round = 1
		t.remaining = t.cfg.ReadySeconds
		t.elapsed = 0
		t.status = StatusRunning

		t.emit(&events.TimerStartedEvent{
			BaseEvent:    events.NewTimerEvent(events.EventTimerStarted),
			WorkSeconds:  t.cfg.WorkSeconds,
			RestSeconds:  t.cfg.RestSeconds,
			Rounds:       t.cfg.Rounds,
			ReadySeconds: t.cfg.ReadySeconds,
		})
		t.cue(events.CueStart)
		t.entryCue()

		// A zero-length ready phase goes straight to work.
		if t.remaining == 0 {
			t.advance()
		}
		return nil
	}
}

// Pause halts the countdown, preserving all state. It is a no-op unless
// the timer is running.
func (t *IntervalTimer) Pause() {
	if t.status != StatusRunning {
		return
	}
	t.status = StatusPaused
	t.emit(&events.TimerPausedEvent{
		BaseEvent: events.NewTimerEvent(events.EventTimerPaused),
		Phase:     t.phase.String(),
		Round:     t.round,
		Remaining: t.remaining,
	})
}

// Reset returns the timer to the stopped state from any state: ready
// phase, round one, all counters zeroed.
func (t *IntervalTimer) Reset() {
	elapsed := t.elapsed
	t.phase = PhaseReady
	t.status = StatusStopped
	t.round = 1
	t.remaining = 0
	t.elapsed = 0
	t.emit(&events.TimerResetEvent{
		BaseEvent:      events.NewTimerEvent(events.EventTimerReset),
		ElapsedSeconds: elapsed,
	})
}

// Tick advances the timer by one second. It is a no-op unless running.
// When the phase countdown reaches zero the phase transition happens
// within the same tick. In the last CueWindow seconds of every phase a
// countdown cue fires.
func (t *IntervalTimer) Tick() {
	if t.status != StatusRunning {
		return
	}

	t.remaining--
	t.elapsed++

	if t.remaining <= 0 {
		t.advance()
	} else if t.remaining <= t.cfg.CueWindow {
		t.cue(events.CueCountdown)
	}

	t.emit(&events.TimerTickEvent{
		BaseEvent: events.NewTimerEvent(events.EventTimerTick),
		Phase:     t.phase.String(),
		Round:     t.round,
		Remaining: t.remaining,
		Elapsed:   t.elapsed,
	})
}

// advance applies the phase transition table when a countdown hits zero.
func (t *IntervalTimer) advance() {
	from := t.phase

	switch t.phase {
	case PhaseReady:
		t.phase = PhaseWork
		t.remaining = t.cfg.WorkSeconds
		t.cue(events.CueWorkStart)
		t.entryCue()

	case PhaseWork:
		if t.round == t.cfg.Rounds {
			t.phase = PhaseComplete
			t.remaining = 0
			t.status = StatusStopped
			t.cue(events.CueComplete)
			t.emit(&events.TimerCompletedEvent{
				BaseEvent:      events.NewTimerEvent(events.EventTimerCompleted),
				Rounds:         t.cfg.Rounds,
				WorkSeconds:    t.cfg.Rounds * t.cfg.WorkSeconds,
				ElapsedSeconds: t.elapsed,
			})
		} else {
			t.phase = PhaseRest
			t.remaining = t.cfg.RestSeconds
			t.cue(events.CueRestStart)
			t.entryCue()
		}

	case PhaseRest:
		t.phase = PhaseWork
		t.remaining = t.cfg.WorkSeconds
		t.round++
		t.cue(events.CueWorkStart)
		t.entryCue()
	}

	t.emit(&events.PhaseChangedEvent{
		BaseEvent: events.NewTimerEvent(events.EventPhaseChanged),
		From:      from.String(),
		To:        t.phase.String(),
		Round:     t.round,
	})
}

// entryCue fires a countdown cue when a phase begins already inside the
// cue window (a phase of 3 seconds or shorter still announces every
// remaining value it will pass through).
func (t *IntervalTimer) entryCue() {
	if t.remaining > 0 && t.remaining <= t.cfg.CueWindow {
		t.cue(events.CueCountdown)
	}
}

func (t *IntervalTimer) cue(kind events.CueKind) {
	t.emit(&events.CueFiredEvent{
		BaseEvent: events.NewTimerEvent(events.EventCueFired),
		Cue:       kind,
	})
}

func (t *IntervalTimer) emit(event events.Event) {
	if t.emitter != nil {
		t.emitter.Emit(event)
	}
}
