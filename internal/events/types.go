// Package events defines the event type taxonomy and base structures for the
// pulse event system. This is the foundation for all event-driven
// communication between the timer core and its sinks (log, history, audio,
// TUI feed).
package events

import "time"

// EventType identifies the category and nature of an event.
type EventType string

// Event types emitted over a timer session.
const (
	// Timer lifecycle events
	EventTimerStarted   EventType = "timer.started"
	EventTimerPaused    EventType = "timer.paused"
	EventTimerResumed   EventType = "timer.resumed"
	EventTimerReset     EventType = "timer.reset"
	EventTimerCompleted EventType = "timer.completed"

	// Per-second advancement
	EventTimerTick EventType = "timer.tick"

	// Phase boundary events
	EventPhaseChanged EventType = "phase.changed"

	// Audio cue events
	EventCueFired EventType = "cue.fired"

	// Error events
	EventError EventType = "error"
)

// Source constants identify the origin of events.
const (
	SourceTimer = "timer"
	SourceUI    = "ui"
	SourceAudio = "audio"
)

// Event is the base interface for all events in the system.
type Event interface {
	Type() EventType
	Timestamp() time.Time
	Source() string
}

// Emitter publishes events. The Router satisfies this; the timer core only
// depends on the interface so tests can capture emissions directly.
type Emitter interface {
	Emit(event Event)
}

// BaseEvent provides the common fields for all events.
type BaseEvent struct {
	EventType EventType `json:"type"`
	Time      time.Time `json:"timestamp"`
	Src       string    `json:"source"`
}

// Type returns the event type.
func (e BaseEvent) Type() EventType {
	return e.EventType
}

// Timestamp returns when the event occurred.
func (e BaseEvent) Timestamp() time.Time {
	return e.Time
}

// Source returns the origin of the event.
func (e BaseEvent) Source() string {
	return e.Src
}

// TimerStartedEvent is emitted when a workout starts from stopped.
type TimerStartedEvent struct {
	BaseEvent
	WorkSeconds  int `json:"work_seconds"`
	RestSeconds  int `json:"rest_seconds"`
	Rounds       int `json:"rounds"`
	ReadySeconds int `json:"ready_seconds"`
}

// TimerPausedEvent is emitted when a running workout is paused.
type TimerPausedEvent struct {
	BaseEvent
	Phase     string `json:"phase"`
	Round     int    `json:"round"`
	Remaining int    `json:"remaining_seconds"`
}

// TimerResumedEvent is emitted when a paused workout resumes.
type TimerResumedEvent struct {
	BaseEvent
	Phase     string `json:"phase"`
	Round     int    `json:"round"`
	Remaining int    `json:"remaining_seconds"`
}

// TimerResetEvent is emitted when the timer is reset to stopped.
type TimerResetEvent struct {
	BaseEvent
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// TimerCompletedEvent is emitted after the final work phase of the final
// round.
type TimerCompletedEvent struct {
	BaseEvent
	Rounds         int `json:"rounds"`
	WorkSeconds    int `json:"work_seconds"`
	ElapsedSeconds int `json:"elapsed_seconds"`
}

// TimerTickEvent is emitted once per second while running.
type TimerTickEvent struct {
	BaseEvent
	Phase     string `json:"phase"`
	Round     int    `json:"round"`
	Remaining int    `json:"remaining_seconds"`
	Elapsed   int    `json:"elapsed_seconds"`
}

// PhaseChangedEvent is emitted when the countdown crosses a phase boundary.
type PhaseChangedEvent struct {
	BaseEvent
	From  string `json:"from"`
	To    string `json:"to"`
	Round int    `json:"round"`
}

// CueKind identifies an audio cue.
type CueKind string

// Cue kinds emitted by the timer.
const (
	CueStart     CueKind = "start"
	CueCountdown CueKind = "countdown"
	CueWorkStart CueKind = "work-start"
	CueRestStart CueKind = "rest-start"
	CueComplete  CueKind = "complete"
)

// CueFiredEvent is emitted whenever the timer wants an audio cue played.
type CueFiredEvent struct {
	BaseEvent
	Cue CueKind `json:"cue"`
}

// Severity constants for error events.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ErrorEvent is emitted for any error condition.
type ErrorEvent struct {
	BaseEvent
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// NewEvent creates a BaseEvent with the given type and source.
func NewEvent(eventType EventType, source string) BaseEvent {
	return BaseEvent{
		EventType: eventType,
		Time:      time.Now(),
		Src:       source,
	}
}

// NewTimerEvent creates a BaseEvent with the timer as the source.
func NewTimerEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceTimer)
}

// NewUIEvent creates a BaseEvent with the UI as the source.
func NewUIEvent(eventType EventType) BaseEvent {
	return NewEvent(eventType, SourceUI)
}
