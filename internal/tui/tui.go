// Package tui provides the terminal UI for running a pulse workout using
// bubbletea. It owns the one interval timer of the session and is its
// single tick source.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
)

// Muter toggles audio cue playback. The audio sink satisfies this.
type Muter interface {
	SetMuted(muted bool)
	Muted() bool
}

// TUI is the terminal UI for a workout session.
type TUI struct {
	timer     *timer.IntervalTimer
	cfg       timer.Config
	eventChan <-chan events.Event
	emitter   events.Emitter
	muter     Muter
	autoStart bool
}

// Option configures the TUI.
type Option func(*TUI)

// New creates a new TUI driving the given timer with the given interval
// configuration. The event channel feeds the on-screen event feed.
func New(t *timer.IntervalTimer, cfg timer.Config, eventChan <-chan events.Event, opts ...Option) *TUI {
	ui := &TUI{
		timer:     t,
		cfg:       cfg,
		eventChan: eventChan,
	}

	for _, opt := range opts {
		opt(ui)
	}

	return ui
}

// WithEmitter sets the emitter used to publish UI-originated events
// (errors surfaced to the log sink).
func WithEmitter(e events.Emitter) Option {
	return func(ui *TUI) {
		ui.emitter = e
	}
}

// WithMuter sets the audio mute toggle bound to the 'm' key.
func WithMuter(m Muter) Option {
	return func(ui *TUI) {
		ui.muter = m
	}
}

// WithAutoStart makes the workout begin as soon as the UI is on screen
// instead of waiting for a key.
func WithAutoStart() Option {
	return func(ui *TUI) {
		ui.autoStart = true
	}
}

// Run starts the TUI and blocks until it exits.
func (ui *TUI) Run() error {
	m := newModel(ui.timer, ui.cfg, ui.eventChan, ui.emitter, ui.muter, ui.autoStart)

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
