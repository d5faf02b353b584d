package audio

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mwhitt/pulse/internal/events"
)

// recordBeeper captures every played tone.
type recordBeeper struct {
	mu    sync.Mutex
	tones []Tone
}

func (r *recordBeeper) Beep(tone Tone) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tones = append(r.tones, tone)
	return nil
}

func (r *recordBeeper) played() []Tone {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Tone(nil), r.tones...)
}

func cueEvent(kind events.CueKind) *events.CueFiredEvent {
	return &events.CueFiredEvent{
		BaseEvent: events.NewTimerEvent(events.EventCueFired),
		Cue:       kind,
	}
}

// runCueSink feeds events through a sink and waits for shutdown.
func runCueSink(t *testing.T, s *CueSink, evts []events.Event) {
	t.Helper()

	ch := make(chan events.Event, len(evts)+1)
	if err := s.Start(context.Background(), ch); err != nil {
		t.Fatalf("start cue sink: %v", err)
	}
	for _, e := range evts {
		ch <- e
	}
	close(ch)
	if err := s.Stop(); err != nil {
		t.Fatalf("stop cue sink: %v", err)
	}
}

func TestCueSinkPlaysMappedTones(t *testing.T) {
	beeper := &recordBeeper{}
	s := NewCueSink(beeper, nil)

	runCueSink(t, s, []events.Event{
		cueEvent(events.CueStart),
		cueEvent(events.CueComplete),
	})

	got := beeper.played()
	if len(got) != 2 {
		t.Fatalf("played %d tones, want 2", len(got))
	}
	if got[0].FrequencyHz != 1000 || got[0].Duration != 300*time.Millisecond {
		t.Errorf("start tone = %+v", got[0])
	}
	if got[1].FrequencyHz != 1500 || got[1].Duration != time.Second {
		t.Errorf("complete tone = %+v", got[1])
	}
}

func TestCueSinkIgnoresNonCueEvents(t *testing.T) {
	beeper := &recordBeeper{}
	s := NewCueSink(beeper, nil)

	runCueSink(t, s, []events.Event{
		&events.TimerTickEvent{BaseEvent: events.NewTimerEvent(events.EventTimerTick)},
		&events.PhaseChangedEvent{BaseEvent: events.NewTimerEvent(events.EventPhaseChanged)},
	})

	if got := beeper.played(); len(got) != 0 {
		t.Errorf("played %d tones, want 0", len(got))
	}
}

func TestCueSinkMute(t *testing.T) {
	beeper := &recordBeeper{}
	s := NewCueSink(beeper, nil)
	s.SetMuted(true)

	runCueSink(t, s, []events.Event{cueEvent(events.CueWorkStart)})

	if got := beeper.played(); len(got) != 0 {
		t.Errorf("played %d tones while muted, want 0", len(got))
	}
	if !s.Muted() {
		t.Error("Muted() = false after SetMuted(true)")
	}
}

func TestCueSinkCustomTones(t *testing.T) {
	beeper := &recordBeeper{}
	tones := map[events.CueKind]Tone{
		events.CueCountdown: {FrequencyHz: 880, Duration: 100 * time.Millisecond},
	}
	s := NewCueSink(beeper, tones)

	runCueSink(t, s, []events.Event{
		cueEvent(events.CueCountdown),
		cueEvent(events.CueStart), // not in the table, skipped
	})

	got := beeper.played()
	if len(got) != 1 {
		t.Fatalf("played %d tones, want 1", len(got))
	}
	if got[0].FrequencyHz != 880 {
		t.Errorf("frequency = %d, want 880", got[0].FrequencyHz)
	}
}

func TestCueSinkNilBeeper(t *testing.T) {
	s := NewCueSink(nil, nil)
	if err := s.Start(context.Background(), make(chan events.Event)); err == nil {
		t.Error("Start with nil beeper = nil, want error")
	}
}

func TestBellBeeper(t *testing.T) {
	var buf bytes.Buffer
	b := NewBellBeeper(&buf)

	if err := b.Beep(Tone{FrequencyHz: 1000, Duration: time.Second}); err != nil {
		t.Fatalf("Beep() = %v", err)
	}
	if got := buf.String(); got != "\a" {
		t.Errorf("wrote %q, want bell character", got)
	}
}
