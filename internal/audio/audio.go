// Package audio plays the timer's audio cues. The timer emits cue.fired
// events naming a cue kind; this package maps kinds to tones and plays
// them through a Beeper. The default Beeper writes the terminal bell,
// which is the only tone channel a plain terminal offers; the tone's
// frequency and duration still travel with the cue so a capable Beeper
// can honor them.
package audio

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/mwhitt/pulse/internal/events"
)

// Tone describes a cue sound. Values are cosmetic defaults and can be
// reconfigured without affecting timer correctness.
type Tone struct {
	FrequencyHz int           `yaml:"frequency_hz" mapstructure:"frequency_hz"`
	Duration    time.Duration `yaml:"duration" mapstructure:"duration"`
}

// DefaultTones maps each cue kind to its default tone.
func DefaultTones() map[events.CueKind]Tone {
	return map[events.CueKind]Tone{
		events.CueStart:     {FrequencyHz: 1000, Duration: 300 * time.Millisecond},
		events.CueCountdown: {FrequencyHz: 600, Duration: 150 * time.Millisecond},
		events.CueWorkStart: {FrequencyHz: 1200, Duration: 500 * time.Millisecond},
		events.CueRestStart: {FrequencyHz: 400, Duration: 300 * time.Millisecond},
		events.CueComplete:  {FrequencyHz: 1500, Duration: time.Second},
	}
}

// Beeper plays a single tone.
type Beeper interface {
	Beep(tone Tone) error
}

// BellBeeper writes the terminal bell character. Frequency and duration
// are ignored; terminals decide what a bell sounds like.
type BellBeeper struct {
	w  io.Writer
	mu sync.Mutex
}

// NewBellBeeper creates a Beeper that writes BEL to w.
func NewBellBeeper(w io.Writer) *BellBeeper {
	return &BellBeeper{w: w}
}

// Beep writes a single bell character.
func (b *BellBeeper) Beep(Tone) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.w.Write([]byte{'\a'}); err != nil {
		return fmt.Errorf("write bell: %w", err)
	}
	return nil
}

// CueSink subscribes to the event stream and plays a tone for every
// cue.fired event. Non-cue events are ignored.
type CueSink struct {
	beeper Beeper
	tones  map[events.CueKind]Tone
	mu     sync.Mutex
	muted  bool
	done   chan struct{}
}

// NewCueSink creates a CueSink playing through beeper with the given tone
// table. A nil tones map uses DefaultTones.
func NewCueSink(beeper Beeper, tones map[events.CueKind]Tone) *CueSink {
	if tones == nil {
		tones = DefaultTones()
	}
	return &CueSink{
		beeper: beeper,
		tones:  tones,
		done:   make(chan struct{}),
	}
}

// Start begins consuming events. It runs until the context is canceled or
// the events channel is closed.
func (s *CueSink) Start(ctx context.Context, evts <-chan events.Event) error {
	if s.beeper == nil {
		return fmt.Errorf("cue sink: nil beeper")
	}
	go s.run(ctx, evts)
	return nil
}

func (s *CueSink) run(ctx context.Context, evts <-chan events.Event) {
	defer close(s.done)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-evts:
			if !ok {
				return
			}
			cue, ok := event.(*events.CueFiredEvent)
			if !ok {
				continue
			}
			s.play(cue.Cue)
		}
	}
}

func (s *CueSink) play(kind events.CueKind) {
	s.mu.Lock()
	muted := s.muted
	tone, known := s.tones[kind]
	s.mu.Unlock()

	if muted || !known {
		return
	}
	// Playback errors are not fatal; a workout keeps running silently.
	_ = s.beeper.Beep(tone)
}

// SetMuted enables or disables playback.
func (s *CueSink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

// Muted reports whether playback is disabled.
func (s *CueSink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Stop waits for the run goroutine to finish.
func (s *CueSink) Stop() error {
	<-s.done
	return nil
}
