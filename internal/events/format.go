package events

import (
	"fmt"
	"strings"
	"unicode"
)

// Format converts an event to a human-readable string for the TUI feed and
// `pulse log`. Returns empty string for nil or unknown event types; tick
// events are deliberately not rendered (one line per second would drown
// the feed).
func Format(event Event) string {
	if event == nil {
		return ""
	}

	switch e := event.(type) {
	case *TimerStartedEvent:
		return fmt.Sprintf("workout started: %d rounds, %ds work / %ds rest",
			e.Rounds, e.WorkSeconds, e.RestSeconds)
	case *TimerPausedEvent:
		return fmt.Sprintf("paused during %s (round %d, %ds left)",
			e.Phase, e.Round, e.Remaining)
	case *TimerResumedEvent:
		return fmt.Sprintf("resumed in %s (round %d, %ds left)",
			e.Phase, e.Round, e.Remaining)
	case *TimerResetEvent:
		if e.ElapsedSeconds > 0 {
			return fmt.Sprintf("reset after %ds", e.ElapsedSeconds)
		}
		return "reset"
	case *TimerCompletedEvent:
		return fmt.Sprintf("[+] workout complete: %d rounds, %ds of work in %ds",
			e.Rounds, e.WorkSeconds, e.ElapsedSeconds)
	case *PhaseChangedEvent:
		return fmt.Sprintf("%s -> %s (round %d)", e.From, e.To, e.Round)
	case *CueFiredEvent:
		if e.Cue == CueCountdown {
			// The 3-2-1 beeps are audible; the feed does not repeat them.
			return ""
		}
		return fmt.Sprintf("cue: %s", e.Cue)
	case *ErrorEvent:
		severity := e.Severity
		if severity == "" {
			severity = SeverityError
		}
		return fmt.Sprintf("%s: %s", strings.ToUpper(severity), SafeString(e.Message))
	case *TimerTickEvent:
		return ""
	default:
		return ""
	}
}

// FormatWithTimestamp formats an event with a timestamp prefix.
// Used for the `pulse log` command output.
func FormatWithTimestamp(event Event) string {
	if event == nil {
		return ""
	}
	ts := event.Timestamp().Format("15:04:05")
	detail := Format(event)
	if detail == "" {
		return fmt.Sprintf("[%s] %s", ts, event.Type())
	}
	return fmt.Sprintf("[%s] %s", ts, detail)
}

// SafeString sanitizes a string for single-line display by removing
// control characters and collapsing whitespace.
func SafeString(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r == ' ' || !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}

	result := sb.String()
	for strings.Contains(result, "  ") {
		result = strings.ReplaceAll(result, "  ", " ")
	}

	return strings.TrimSpace(result)
}
