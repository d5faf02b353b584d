package main

// Flag names for Viper binding
const (
	// Global flags
	FlagVerbose     = "verbose"
	FlagConfig      = "config"
	FlagLogFile     = "log-file"
	FlagHistoryFile = "history-file"

	// Start command flags
	FlagPreset    = "preset"
	FlagWork      = "work"
	FlagRest      = "rest"
	FlagRounds    = "rounds"
	FlagReady     = "ready"
	FlagNoSound   = "no-sound"
	FlagAutoStart = "auto-start"

	// Log command flags
	FlagFollow = "follow"
	FlagCount  = "count"

	// Output format flags
	FlagJSON = "json"
)
