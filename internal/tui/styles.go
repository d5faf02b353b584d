package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
)

// styles contains all lipgloss styles used by the TUI.
var styles = struct {
	// Layout styles
	Container lipgloss.Style
	Divider   lipgloss.Style

	// Header styles
	Title lipgloss.Style
	Round lipgloss.Style
	Muted lipgloss.Style

	// Clock styles
	Clock   lipgloss.Style
	Elapsed lipgloss.Style

	// Phase banner styles
	PhaseReady    lipgloss.Style
	PhaseWork     lipgloss.Style
	PhaseRest     lipgloss.Style
	PhaseComplete lipgloss.Style

	// Status colors
	StatusStopped lipgloss.Style
	StatusRunning lipgloss.Style
	StatusPaused  lipgloss.Style

	// Footer style
	Footer lipgloss.Style

	// Event styles
	Timer lipgloss.Style
	Phase lipgloss.Style
	Cue   lipgloss.Style
	Error lipgloss.Style
}{
	// Layout styles
	Container: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")),

	Divider: lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")),

	// Header styles
	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("212")),

	Round: lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")),

	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	// Clock styles
	Clock: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("231")),

	Elapsed: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	// Phase banner styles
	PhaseReady: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("220")),

	PhaseWork: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	PhaseRest: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")),

	PhaseComplete: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("177")),

	// Status colors
	StatusStopped: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	StatusRunning: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("82")),

	StatusPaused: lipgloss.NewStyle().
		Foreground(lipgloss.Color("214")),

	// Footer style
	Footer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")),

	// Event styles
	Timer: lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")),

	Phase: lipgloss.NewStyle().
		Foreground(lipgloss.Color("114")),

	Cue: lipgloss.NewStyle().
		Foreground(lipgloss.Color("220")),

	Error: lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")),
}

// styleForEvent returns the feed style for an event type.
func styleForEvent(event events.Event) lipgloss.Style {
	if event == nil {
		return styles.Timer
	}

	switch event.(type) {
	case *events.PhaseChangedEvent:
		return styles.Phase
	case *events.CueFiredEvent:
		return styles.Cue
	case *events.ErrorEvent:
		return styles.Error
	default:
		return styles.Timer
	}
}

// phaseStyle returns the banner style for a phase.
func phaseStyle(p timer.Phase) lipgloss.Style {
	switch p {
	case timer.PhaseWork:
		return styles.PhaseWork
	case timer.PhaseRest:
		return styles.PhaseRest
	case timer.PhaseComplete:
		return styles.PhaseComplete
	default:
		return styles.PhaseReady
	}
}

// statusStyle returns the header style for a timer status.
func statusStyle(s timer.Status) lipgloss.Style {
	switch s {
	case timer.StatusRunning:
		return styles.StatusRunning
	case timer.StatusPaused:
		return styles.StatusPaused
	default:
		return styles.StatusStopped
	}
}
