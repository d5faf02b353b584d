package timer

import (
	"errors"
	"testing"

	"github.com/mwhitt/pulse/internal/events"
)

// captureEmitter records every emitted event for inspection.
type captureEmitter struct {
	events []events.Event
}

func (c *captureEmitter) Emit(e events.Event) {
	c.events = append(c.events, e)
}

func (c *captureEmitter) cues() []events.CueKind {
	var kinds []events.CueKind
	for _, e := range c.events {
		if ce, ok := e.(*events.CueFiredEvent); ok {
			kinds = append(kinds, ce.Cue)
		}
	}
	return kinds
}

func (c *captureEmitter) reset() {
	c.events = nil
}

func validConfig() Config {
	return Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 2}
}

func tick(t *IntervalTimer, n int) {
	for i := 0; i < n; i++ {
		t.Tick()
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 8}, false},
		{"minimal", Config{WorkSeconds: 1, RestSeconds: 1, Rounds: 1}, false},
		{"zero work", Config{WorkSeconds: 0, RestSeconds: 10, Rounds: 8}, true},
		{"zero rest", Config{WorkSeconds: 20, RestSeconds: 0, Rounds: 8}, true},
		{"zero rounds", Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 0}, true},
		{"negative work", Config{WorkSeconds: -5, RestSeconds: 10, Rounds: 8}, true},
		{"negative ready", Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 8, ReadySeconds: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestStartRejectsInvalidConfig(t *testing.T) {
	em := &captureEmitter{}
	it := New(em)

	err := it.Start(Config{WorkSeconds: 0, RestSeconds: 10, Rounds: 2})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("Start() = %v, want ErrInvalidConfig", err)
	}

	// State must be unchanged: still stopped, nothing emitted.
	if it.Status() != StatusStopped {
		t.Errorf("status = %v, want stopped", it.Status())
	}
	if len(em.events) != 0 {
		t.Errorf("emitted %d events, want 0", len(em.events))
	}
}

func TestStartInitializesState(t *testing.T) {
	em := &captureEmitter{}
	it := New(em)

	if err := it.Start(validConfig()); err != nil {
		t.Fatalf("Start() = %v", err)
	}

	snap := it.Snapshot()
	if snap.Phase != PhaseReady {
		t.Errorf("phase = %v, want ready", snap.Phase)
	}
	if snap.Status != StatusRunning {
		t.Errorf("status = %v, want running", snap.Status)
	}
	if snap.Round != 1 {
		t.Errorf("round = %d, want 1", snap.Round)
	}
	if snap.Remaining != DefaultReadySeconds {
		t.Errorf("remaining = %d, want %d", snap.Remaining, DefaultReadySeconds)
	}
	if snap.Elapsed != 0 {
		t.Errorf("elapsed = %d, want 0", snap.Elapsed)
	}

	cues := em.cues()
	if len(cues) != 1 || cues[0] != events.CueStart {
		t.Errorf("cues = %v, want [start]", cues)
	}
}

func TestStartWhileRunningIsNoop(t *testing.T) {
	it := New(nil)
	if err := it.Start(validConfig()); err != nil {
		t.Fatal(err)
	}
	tick(it, 3)
	before := it.Snapshot()

	if err := it.Start(Config{WorkSeconds: 99, RestSeconds: 99, Rounds: 99}); err != nil {
		t.Fatalf("Start() while running = %v, want nil", err)
	}
	if it.Snapshot() != before {
		t.Error("Start() while running mutated state")
	}
}

// TestFullSequence walks the concrete scenario from the design: work=20,
// rest=10, rounds=2 reaches complete after exactly 55 ticks.
func TestFullSequence(t *testing.T) {
	it := New(nil)
	cfg := validConfig()
	if err := it.Start(cfg); err != nil {
		t.Fatal(err)
	}

	// 5 ticks: ready countdown, transition to work on the 5th.
	tick(it, 5)
	if got := it.Snapshot(); got.Phase != PhaseWork || got.Round != 1 || got.Remaining != 20 {
		t.Fatalf("after ready: %+v", got)
	}

	// 20 ticks: work round 1 ends, rest begins, round stays 1.
	tick(it, 20)
	if got := it.Snapshot(); got.Phase != PhaseRest || got.Round != 1 || got.Remaining != 10 {
		t.Fatalf("after work 1: %+v", got)
	}

	// 10 ticks: rest ends, work round 2 begins.
	tick(it, 10)
	if got := it.Snapshot(); got.Phase != PhaseWork || got.Round != 2 || got.Remaining != 20 {
		t.Fatalf("after rest: %+v", got)
	}

	// 20 ticks: final work round ends, timer completes and stops.
	tick(it, 20)
	got := it.Snapshot()
	if got.Phase != PhaseComplete {
		t.Errorf("phase = %v, want complete", got.Phase)
	}
	if got.Status != StatusStopped {
		t.Errorf("status = %v, want stopped", got.Status)
	}
	if got.Elapsed != cfg.TicksToComplete() {
		t.Errorf("elapsed = %d, want %d", got.Elapsed, cfg.TicksToComplete())
	}

	// No further tick changes state.
	tick(it, 5)
	if it.Snapshot() != got {
		t.Error("tick after complete mutated state")
	}
}

// TestTicksToComplete drives several configurations to completion and
// checks the closed form: ready + rounds*work + (rounds-1)*rest.
func TestTicksToComplete(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"tabata", Config{WorkSeconds: 20, RestSeconds: 10, Rounds: 8}},
		{"single round", Config{WorkSeconds: 30, RestSeconds: 15, Rounds: 1}},
		{"one second everything", Config{WorkSeconds: 1, RestSeconds: 1, Rounds: 1}},
		{"short rest", Config{WorkSeconds: 10, RestSeconds: 2, Rounds: 3}},
		{"custom ready", Config{WorkSeconds: 5, RestSeconds: 5, Rounds: 2, ReadySeconds: 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := New(nil)
			if err := it.Start(tt.cfg); err != nil {
				t.Fatal(err)
			}

			n := tt.cfg.TicksToComplete()
			tick(it, n-1)
			if it.Phase() == PhaseComplete {
				t.Fatalf("complete after %d ticks, expected %d", n-1, n)
			}
			it.Tick()
			if it.Phase() != PhaseComplete {
				t.Fatalf("not complete after %d ticks: %+v", n, it.Snapshot())
			}
			if it.Status() != StatusStopped {
				t.Errorf("status = %v, want stopped", it.Status())
			}
		})
	}
}

// TestRoundNeverExceedsTotal runs a full workout and checks the round
// bound on every tick.
func TestRoundNeverExceedsTotal(t *testing.T) {
	it := New(nil)
	cfg := Config{WorkSeconds: 3, RestSeconds: 2, Rounds: 4}
	if err := it.Start(cfg); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < cfg.TicksToComplete(); i++ {
		it.Tick()
		snap := it.Snapshot()
		if snap.Phase != PhaseComplete && (snap.Round < 1 || snap.Round > cfg.Rounds) {
			t.Fatalf("tick %d: round %d out of [1,%d]", i+1, snap.Round, cfg.Rounds)
		}
	}
}

func TestPauseResume(t *testing.T) {
	t.Run("pause freezes state and resume picks up", func(t *testing.T) {
		it := New(nil)
		if err := it.Start(validConfig()); err != nil {
			t.Fatal(err)
		}
		tick(it, 12) // mid-work

		it.Pause()
		frozen := it.Snapshot()
		if frozen.Status != StatusPaused {
			t.Fatalf("status = %v, want paused", frozen.Status)
		}

		// Ticks while paused are not applied.
		tick(it, 30)
		after := it.Snapshot()
		after.Status = frozen.Status
		if after != frozen {
			t.Error("tick while paused mutated state")
		}

		// Resume via Start; config argument must be ignored.
		if err := it.Start(Config{}); err != nil {
			t.Fatalf("resume = %v", err)
		}
		if it.Status() != StatusRunning {
			t.Errorf("status = %v, want running", it.Status())
		}
		if got := it.Snapshot().Remaining; got != frozen.Remaining {
			t.Errorf("remaining after resume = %d, want %d", got, frozen.Remaining)
		}
	})

	t.Run("paused run matches uninterrupted run", func(t *testing.T) {
		cfg := Config{WorkSeconds: 7, RestSeconds: 4, Rounds: 3}

		straight := New(nil)
		if err := straight.Start(cfg); err != nil {
			t.Fatal(err)
		}
		tick(straight, cfg.TicksToComplete())

		interrupted := New(nil)
		if err := interrupted.Start(cfg); err != nil {
			t.Fatal(err)
		}
		tick(interrupted, 9)
		interrupted.Pause()
		tick(interrupted, 50) // lost, not applied
		if err := interrupted.Start(Config{}); err != nil {
			t.Fatal(err)
		}
		tick(interrupted, cfg.TicksToComplete()-9)

		if straight.Snapshot() != interrupted.Snapshot() {
			t.Errorf("final states differ:\n straight    %+v\n interrupted %+v",
				straight.Snapshot(), interrupted.Snapshot())
		}
	})

	t.Run("pause while stopped is a no-op", func(t *testing.T) {
		em := &captureEmitter{}
		it := New(em)
		it.Pause()
		if it.Status() != StatusStopped {
			t.Errorf("status = %v, want stopped", it.Status())
		}
		if len(em.events) != 0 {
			t.Errorf("emitted %d events, want 0", len(em.events))
		}
	})
}

func TestReset(t *testing.T) {
	states := map[string]func(*IntervalTimer){
		"stopped":  func(it *IntervalTimer) {},
		"mid work": func(it *IntervalTimer) { _ = it.Start(validConfig()); tick(it, 10) },
		"mid rest": func(it *IntervalTimer) { _ = it.Start(validConfig()); tick(it, 27) },
		"paused":   func(it *IntervalTimer) { _ = it.Start(validConfig()); tick(it, 10); it.Pause() },
		"complete": func(it *IntervalTimer) {
			cfg := validConfig()
			_ = it.Start(cfg)
			tick(it, cfg.TicksToComplete())
		},
	}

	for name, setup := range states {
		t.Run(name, func(t *testing.T) {
			it := New(nil)
			setup(it)
			it.Reset()

			snap := it.Snapshot()
			if snap.Status != StatusStopped {
				t.Errorf("status = %v, want stopped", snap.Status)
			}
			if snap.Phase != PhaseReady {
				t.Errorf("phase = %v, want ready", snap.Phase)
			}
			if snap.Round != 1 {
				t.Errorf("round = %d, want 1", snap.Round)
			}
			if snap.Remaining != 0 || snap.Elapsed != 0 {
				t.Errorf("counters = %d/%d, want 0/0", snap.Remaining, snap.Elapsed)
			}
		})
	}
}

// TestCountdownCues checks the cue fires exactly at remaining 3,2,1 in a
// full-length phase, and only at the values that occur in a short phase.
func TestCountdownCues(t *testing.T) {
	t.Run("full window", func(t *testing.T) {
		em := &captureEmitter{}
		it := New(em)
		if err := it.Start(Config{WorkSeconds: 10, RestSeconds: 10, Rounds: 1}); err != nil {
			t.Fatal(err)
		}
		tick(it, 5) // through the ready phase; start + 3 countdowns + work-start
		em.reset()

		var remainingAtCue []int
		for i := 0; i < 10; i++ {
			it.Tick()
			for _, e := range em.events {
				if ce, ok := e.(*events.CueFiredEvent); ok && ce.Cue == events.CueCountdown {
					remainingAtCue = append(remainingAtCue, it.Snapshot().Remaining)
				}
			}
			em.reset()
		}

		want := []int{3, 2, 1}
		if len(remainingAtCue) != len(want) {
			t.Fatalf("countdown cues at %v, want %v", remainingAtCue, want)
		}
		for i := range want {
			if remainingAtCue[i] != want[i] {
				t.Errorf("cue %d at remaining %d, want %d", i, remainingAtCue[i], want[i])
			}
		}
	})

	t.Run("short rest fires only occurring values", func(t *testing.T) {
		em := &captureEmitter{}
		it := New(em)
		if err := it.Start(Config{WorkSeconds: 5, RestSeconds: 2, Rounds: 2}); err != nil {
			t.Fatal(err)
		}
		tick(it, 5+4) // ready + most of work round 1
		em.reset()

		// Next tick enters rest at remaining=2 (inside the cue window, so
		// the entry itself cues), then one more reaches remaining=1.
		tick(it, 2)
		if it.Phase() != PhaseRest {
			t.Fatalf("phase = %v, want rest", it.Phase())
		}
		count := 0
		for _, k := range em.cues() {
			if k == events.CueCountdown {
				count++
			}
		}
		if count != 2 {
			t.Errorf("countdown cues = %d, want 2 (remaining 2 and 1)", count)
		}
	})

	t.Run("three second phase cues at 3 2 1", func(t *testing.T) {
		em := &captureEmitter{}
		it := New(em)
		if err := it.Start(Config{WorkSeconds: 3, RestSeconds: 5, Rounds: 1, ReadySeconds: 5}); err != nil {
			t.Fatal(err)
		}
		tick(it, 4)
		em.reset()

		// Tick 5 enters work at remaining=3 (entry cue), ticks 6 and 7
		// reach remaining 2 and 1.
		tick(it, 3)
		count := 0
		for _, k := range em.cues() {
			if k == events.CueCountdown {
				count++
			}
		}
		if count != 3 {
			t.Errorf("countdown cues = %d, want 3", count)
		}
	})
}

// TestCueSequence verifies phase boundary cues over a whole workout.
func TestCueSequence(t *testing.T) {
	em := &captureEmitter{}
	it := New(em)
	cfg := Config{WorkSeconds: 4, RestSeconds: 4, Rounds: 2}
	if err := it.Start(cfg); err != nil {
		t.Fatal(err)
	}
	tick(it, cfg.TicksToComplete())

	var boundary []events.CueKind
	for _, k := range em.cues() {
		if k != events.CueCountdown {
			boundary = append(boundary, k)
		}
	}

	want := []events.CueKind{
		events.CueStart,
		events.CueWorkStart,
		events.CueRestStart,
		events.CueWorkStart,
		events.CueComplete,
	}
	if len(boundary) != len(want) {
		t.Fatalf("boundary cues = %v, want %v", boundary, want)
	}
	for i := range want {
		if boundary[i] != want[i] {
			t.Errorf("cue %d = %v, want %v", i, boundary[i], want[i])
		}
	}
}

func TestZeroReadyGoesStraightToWork(t *testing.T) {
	it := New(nil)
	// ReadySeconds is defaulted when zero, so use the explicit config knob
	// via withDefaults bypass: a negative is invalid, so the smallest
	// configurable warm-up is 1 second; zero means "use default".
	if err := it.Start(Config{WorkSeconds: 5, RestSeconds: 5, Rounds: 1, ReadySeconds: 1}); err != nil {
		t.Fatal(err)
	}
	it.Tick()
	if it.Phase() != PhaseWork {
		t.Errorf("phase = %v, want work after 1-second ready", it.Phase())
	}
}
