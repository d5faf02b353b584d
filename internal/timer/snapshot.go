package timer

import "fmt"

// Snapshot is the display contract: everything a rendering surface needs
// at any tick or transition, with labels preformatted.
type Snapshot struct {
	Phase          Phase
	PhaseLabel     string
	Status         Status
	Round          int
	Rounds         int
	Remaining      int
	RemainingLabel string
	Elapsed        int
	ElapsedLabel   string
	// TotalLabel is the cumulative configured workout duration,
	// rounds x (work + rest), recomputed from the captured config.
	TotalLabel string
}

// Snapshot returns the current display state.
func (t *IntervalTimer) Snapshot() Snapshot {
	return Snapshot{
		Phase:          t.phase,
		PhaseLabel:     t.phase.String(),
		Status:         t.status,
		Round:          t.round,
		Rounds:         t.cfg.Rounds,
		Remaining:      t.remaining,
		RemainingLabel: Clock(t.remaining),
		Elapsed:        t.elapsed,
		ElapsedLabel:   Clock(t.elapsed),
		TotalLabel:     Clock(t.cfg.TotalConfiguredSeconds()),
	}
}

// PhaseProgress reports how far through the current phase the countdown is,
// in [0,1]. A completed or stopped timer reports 1.
func (t *IntervalTimer) PhaseProgress() float64 {
	total := 0
	switch t.phase {
	case PhaseReady:
		total = t.cfg.ReadySeconds
	case PhaseWork:
		total = t.cfg.WorkSeconds
	case PhaseRest:
		total = t.cfg.RestSeconds
	case PhaseComplete:
		return 1
	}
	if total <= 0 {
		return 1
	}
	return float64(total-t.remaining) / float64(total)
}

// Clock formats a second count as a zero-padded mm:ss label. Negative
// values clamp to 00:00; durations of an hour or more keep accumulating
// minutes (90 minutes renders as 90:00).
func Clock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
