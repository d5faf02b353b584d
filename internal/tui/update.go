package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
)

// waitForEvent creates a command that waits for the next event from the
// channel. Returns channelClosedMsg if the channel is closed.
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return channelClosedMsg{}
		}
		return eventMsg(event)
	}
}

// scheduleTick creates the next one-second tick command, stamped with the
// generation that owns it.
func scheduleTick(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForEvent(m.eventChan),
	}
	if m.timer.Status() == timer.StatusRunning {
		// Auto-started in newModel; begin ticking.
		cmds = append(cmds, scheduleTick(m.tickGen))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = safeWidth(msg.Width - 6)
		return m, nil

	case eventMsg:
		m.handleEvent(events.Event(msg))
		return m, waitForEvent(m.eventChan)

	case channelClosedMsg:
		// Event channel closed - clean exit
		slog.Info("event channel closed, exiting TUI")
		return m, tea.Quit

	case tickMsg:
		return m.handleTick(msg)

	default:
		return m, nil
	}
}

// handleKey processes keyboard input.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.timer.Reset()
		return m, tea.Quit

	case " ":
		// Space toggles between running and paused/stopped.
		if m.timer.Status() == timer.StatusRunning {
			m.pauseTimer()
			return m, nil
		}
		return m, m.startTimer()

	case "s":
		return m, m.startTimer()

	case "p":
		m.pauseTimer()
		return m, nil

	case "r":
		m.timer.Reset()
		// Invalidate any outstanding tick registration.
		m.tickGen++
		m.errText = ""
		return m, nil

	case "m":
		if m.muter != nil {
			m.muter.SetMuted(!m.muter.Muted())
		}
		return m, nil

	default:
		return m, nil
	}
}

// startTimer starts or resumes the timer and, on success, schedules a
// fresh tick registration. Returns nil when nothing was started.
func (m *model) startTimer() tea.Cmd {
	if m.timer.Status() == timer.StatusRunning {
		return nil
	}

	if err := m.timer.Start(m.cfg); err != nil {
		m.errText = err.Error()
		if m.emitter != nil {
			m.emitter.Emit(&events.ErrorEvent{
				BaseEvent: events.NewUIEvent(events.EventError),
				Message:   err.Error(),
				Severity:  events.SeverityError,
			})
		}
		return nil
	}

	m.errText = ""
	m.tickGen++
	return scheduleTick(m.tickGen)
}

// pauseTimer pauses the timer and invalidates the outstanding tick.
func (m *model) pauseTimer() {
	if m.timer.Status() != timer.StatusRunning {
		return
	}
	m.timer.Pause()
	m.tickGen++
}

// handleTick applies a one-second advancement and reschedules while the
// timer keeps running.
func (m model) handleTick(msg tickMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.tickGen {
		// A tick from a superseded registration; drop it.
		return m, nil
	}
	if m.timer.Status() != timer.StatusRunning {
		return m, nil
	}

	m.timer.Tick()

	// Completion stops the timer; the registration ends with it.
	if m.timer.Status() != timer.StatusRunning {
		m.tickGen++
		return m, nil
	}
	return m, scheduleTick(msg.gen)
}

// handleEvent appends a formatted feed line for displayable events.
func (m *model) handleEvent(event events.Event) {
	text := events.Format(event)
	if text == "" {
		return
	}

	m.feedLines = append(m.feedLines, feedLine{
		Time:  event.Timestamp(),
		Text:  text,
		Style: styleForEvent(event),
	})

	if len(m.feedLines) > maxFeedLines {
		m.feedLines = m.feedLines[trimFeedLines:]
	}
}
