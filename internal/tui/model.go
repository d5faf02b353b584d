package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
)

const (
	// maxFeedLines is the maximum number of feed lines to keep.
	maxFeedLines = 200
	// trimFeedLines is the number of lines removed when the buffer
	// exceeds the maximum.
	trimFeedLines = 50
	// visibleFeedLines is how many feed lines the view shows.
	visibleFeedLines = 5
)

// feedLine is a formatted event for the on-screen feed.
type feedLine struct {
	Time  time.Time
	Text  string
	Style lipgloss.Style
}

// model is the bubbletea model for the workout TUI.
type model struct {
	// The session's timer; this model is its single writer.
	timer *timer.IntervalTimer
	cfg   timer.Config

	// Event source for the feed
	eventChan <-chan events.Event

	// UI-originated events (errors) go out here; may be nil.
	emitter events.Emitter

	// Audio mute toggle; may be nil when sound is disabled.
	muter Muter

	// tickGen tags outstanding tick commands. Ticks carrying a stale
	// generation are discarded, so pausing or resetting and then
	// restarting can never stack a second tick loop.
	tickGen int

	// UI state
	width     int
	height    int
	feedLines []feedLine
	errText   string

	bar progress.Model
}

// eventMsg wraps a router event for the bubbletea message system.
type eventMsg events.Event

// channelClosedMsg signals that the event channel was closed.
type channelClosedMsg struct{}

// tickMsg is the once-per-second advancement signal, tagged with the
// generation that scheduled it.
type tickMsg struct {
	gen int
}

// newModel creates a new model.
func newModel(
	t *timer.IntervalTimer,
	cfg timer.Config,
	eventChan <-chan events.Event,
	emitter events.Emitter,
	muter Muter,
	autoStart bool,
) model {
	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithoutPercentage(),
	)
	m := model{
		timer:     t,
		cfg:       cfg,
		eventChan: eventChan,
		emitter:   emitter,
		muter:     muter,
		bar:       bar,
	}
	if autoStart {
		// Start here rather than in Init: Init runs on a copy, so the
		// tick generation bump would be lost there.
		m.startTimer()
	}
	return m
}

// snapshot is a read-only view of the timer for rendering.
func (m model) snapshot() timer.Snapshot {
	return m.timer.Snapshot()
}

// muted reports the audio state for the header.
func (m model) muted() bool {
	return m.muter != nil && m.muter.Muted()
}

// soundAvailable reports whether a mute toggle is wired at all.
func (m model) soundAvailable() bool {
	return m.muter != nil
}
