package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwhitt/pulse/internal/timer"
)

const (
	minWidth  = 40
	minHeight = 14
)

// View implements tea.Model. This renders the full TUI display.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	// Handle too small terminal
	if m.width < minWidth || m.height < minHeight {
		return m.renderTooSmall()
	}

	snap := m.snapshot()

	var sections []string
	sections = append(sections, m.renderHeader(snap))
	sections = append(sections, m.renderDivider())
	sections = append(sections, m.renderClock(snap))
	sections = append(sections, m.renderProgress())
	sections = append(sections, m.renderRoundLine(snap))
	sections = append(sections, m.renderDivider())
	sections = append(sections, m.renderFeed())
	sections = append(sections, m.renderDivider())
	sections = append(sections, m.renderFooter(snap))

	content := strings.Join(sections, "\n")

	rendered := styles.Container.
		Width(safeWidth(m.width - 2)).
		Render(content)

	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, rendered)
}

// renderTooSmall renders a minimal message for terminals that are too small.
func (m model) renderTooSmall() string {
	return fmt.Sprintf("Terminal too small (%dx%d). Need %dx%d minimum.",
		m.width, m.height, minWidth, minHeight)
}

// renderHeader renders the title, timer status, and sound state.
func (m model) renderHeader(snap timer.Snapshot) string {
	w := safeWidth(m.width - 4) // Account for container borders

	title := styles.Title.Render("pulse")
	status := statusStyle(snap.Status).Render(strings.ToUpper(snap.Status.String()))

	var sound string
	if m.soundAvailable() {
		if m.muted() {
			sound = styles.Muted.Render("sound: off")
		} else {
			sound = styles.Muted.Render("sound: on")
		}
	} else {
		sound = styles.Muted.Render("sound: --")
	}

	left := title + "  " + status
	gap := max(1, w-lipgloss.Width(left)-lipgloss.Width(sound))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), sound)
}

// renderClock renders the phase banner and the big remaining countdown.
func (m model) renderClock(snap timer.Snapshot) string {
	w := safeWidth(m.width - 4)

	banner := phaseStyle(snap.Phase).Render(strings.ToUpper(snap.PhaseLabel))
	clock := styles.Clock.Render(snap.RemainingLabel)

	if snap.Phase == timer.PhaseComplete {
		// Nothing left to count down at the end.
		clock = styles.Clock.Render(snap.ElapsedLabel)
	}

	lines := []string{
		lipgloss.PlaceHorizontal(w, lipgloss.Center, banner),
		lipgloss.PlaceHorizontal(w, lipgloss.Center, clock),
	}
	if m.errText != "" {
		lines = append(lines, lipgloss.PlaceHorizontal(w, lipgloss.Center,
			styles.Error.Render(m.errText)))
	}
	return strings.Join(lines, "\n")
}

// renderProgress renders the phase progress bar.
func (m model) renderProgress() string {
	w := safeWidth(m.width - 4)
	return lipgloss.PlaceHorizontal(w, lipgloss.Center,
		m.bar.ViewAs(m.timer.PhaseProgress()))
}

// renderRoundLine renders round position and elapsed against the
// configured total.
func (m model) renderRoundLine(snap timer.Snapshot) string {
	w := safeWidth(m.width - 4)

	round := styles.Round.Render(fmt.Sprintf("round %d/%d", snap.Round, snap.Rounds))
	elapsed := styles.Elapsed.Render(
		fmt.Sprintf("elapsed %s / %s", snap.ElapsedLabel, snap.TotalLabel))

	gap := max(1, w-lipgloss.Width(round)-lipgloss.Width(elapsed))
	return lipgloss.JoinHorizontal(lipgloss.Top, round, strings.Repeat(" ", gap), elapsed)
}

// renderDivider renders a horizontal divider line.
func (m model) renderDivider() string {
	w := safeWidth(m.width - 4)
	return styles.Divider.Render(strings.Repeat("─", w))
}

// renderFeed renders the most recent event lines.
func (m model) renderFeed() string {
	w := safeWidth(m.width - 4)

	if len(m.feedLines) == 0 {
		placeholder := "Press space to begin"
		padding := strings.Repeat("\n", visibleFeedLines/2)
		return padding + lipgloss.PlaceHorizontal(w, lipgloss.Center, placeholder) +
			strings.Repeat("\n", visibleFeedLines-visibleFeedLines/2-1)
	}

	start := max(0, len(m.feedLines)-visibleFeedLines)
	recent := m.feedLines[start:]

	lines := make([]string, 0, visibleFeedLines)
	for _, fl := range recent {
		lines = append(lines, m.renderFeedLine(fl, w))
	}
	for len(lines) < visibleFeedLines {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderFeedLine renders a single feed entry with its timestamp.
func (m model) renderFeedLine(fl feedLine, maxWidth int) string {
	prefix := fl.Time.Format("15:04:05") + " "

	textWidth := maxWidth - len(prefix)
	if textWidth < 10 {
		textWidth = 10
	}

	text := fl.Text
	if len(text) > textWidth {
		text = text[:textWidth-3] + "..."
	}

	return styles.Muted.Render(prefix) + fl.Style.Render(text)
}

// renderFooter renders keyboard shortcuts matching the current status.
func (m model) renderFooter(snap timer.Snapshot) string {
	var help string
	switch snap.Status {
	case timer.StatusRunning:
		help = "space/p: pause  r: reset  m: mute  q: quit"
	case timer.StatusPaused:
		help = "space/s: resume  r: reset  m: mute  q: quit"
	default:
		if snap.Phase == timer.PhaseComplete {
			help = "r: reset  q: quit"
		} else {
			help = "space/s: start  m: mute  q: quit"
		}
	}
	return styles.Footer.Render(help)
}

// safeWidth returns a width that is at least 1 to prevent negative values.
func safeWidth(w int) int {
	if w < 1 {
		return 1
	}
	return w
}
