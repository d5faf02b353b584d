package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/mwhitt/pulse/internal/audio"
	"github.com/mwhitt/pulse/internal/config"
	"github.com/mwhitt/pulse/internal/events"
	"github.com/mwhitt/pulse/internal/timer"
	"github.com/mwhitt/pulse/internal/tui"
)

var version = "dev"

// tailLast reads and prints the last n lines from the session log.
func tailLast(path string, n int) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No sessions yet (log file does not exist)")
			return nil
		}
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Read all lines into a buffer (simple approach for reasonable file sizes)
	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}

	if len(lines) == 0 {
		fmt.Println("No events yet")
		return nil
	}

	start := 0
	if len(lines) > n {
		start = len(lines) - n
	}

	for _, line := range lines[start:] {
		printEventLine(line)
	}
	return nil
}

// waitForFile waits for a file to be created and returns the opened file.
func waitForFile(ctx context.Context, path string) (*os.File, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(500 * time.Millisecond):
			file, err := os.Open(path)
			if err == nil {
				return file, nil
			}
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("open file: %w", err)
			}
			// File still doesn't exist, continue waiting
		}
	}
}

// tailFollow follows the session log and prints new lines as they appear.
func tailFollow(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Waiting for log file to be created...")
			file, err = waitForFile(ctx, path)
			if err != nil {
				return err
			}
		} else {
			return fmt.Errorf("open log file: %w", err)
		}
	}
	defer func() { _ = file.Close() }()

	// Seek to end
	if _, err := file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	fmt.Println("Following events (Ctrl+C to stop)...")
	reader := bufio.NewReader(file)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			line, err := reader.ReadString('\n')
			if err != nil {
				if err == io.EOF {
					// No more data, wait a bit
					time.Sleep(100 * time.Millisecond)
					continue
				}
				return fmt.Errorf("read log: %w", err)
			}
			printEventLine(strings.TrimSuffix(line, "\n"))
		}
	}
}

// printEventLine prints a single event line in a human-readable format.
func printEventLine(line string) {
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(line), &event); err != nil {
		// Not JSON, print as-is
		fmt.Println(line)
		return
	}

	timestamp := ""
	if ts, ok := event["timestamp"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			timestamp = t.Format("15:04:05")
		} else {
			timestamp = ts
		}
	}

	eventType := ""
	if t, ok := event["type"].(string); ok {
		eventType = t
	}

	// Build output based on event type
	var detail string
	switch eventType {
	case "timer.started":
		work, _ := event["work_seconds"].(float64)
		rest, _ := event["rest_seconds"].(float64)
		rounds, _ := event["rounds"].(float64)
		detail = fmt.Sprintf("work=%ds rest=%ds rounds=%d", int(work), int(rest), int(rounds))
	case "timer.completed":
		rounds, _ := event["rounds"].(float64)
		elapsed, _ := event["elapsed_seconds"].(float64)
		detail = fmt.Sprintf("rounds=%d elapsed=%ds", int(rounds), int(elapsed))
	case "phase.changed":
		from, _ := event["from"].(string)
		to, _ := event["to"].(string)
		detail = fmt.Sprintf("%s -> %s", from, to)
	case "cue.fired":
		if cue, ok := event["cue"].(string); ok {
			detail = cue
		}
	case "error":
		if msg, ok := event["message"].(string); ok {
			detail = msg
		}
	default:
		if msg, ok := event["message"].(string); ok {
			detail = msg
		}
	}

	if detail != "" {
		fmt.Printf("[%s] %s: %s\n", timestamp, eventType, detail)
	} else {
		fmt.Printf("[%s] %s\n", timestamp, eventType)
	}
}

// applyTimerFlags overlays explicitly set CLI flags onto the timer config.
func applyTimerFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed(FlagPreset) {
		name := viper.GetString(FlagPreset)
		preset, ok := config.FindPreset(name)
		if !ok {
			return fmt.Errorf("unknown preset %q (run 'pulse presets' to list them)", name)
		}
		// Presets set the interval shape; warm-up and cue window keep
		// their configured values.
		cfg.Timer.WorkSeconds = preset.Timer.WorkSeconds
		cfg.Timer.RestSeconds = preset.Timer.RestSeconds
		cfg.Timer.Rounds = preset.Timer.Rounds
	}
	if cmd.Flags().Changed(FlagWork) {
		cfg.Timer.WorkSeconds = viper.GetInt(FlagWork)
	}
	if cmd.Flags().Changed(FlagRest) {
		cfg.Timer.RestSeconds = viper.GetInt(FlagRest)
	}
	if cmd.Flags().Changed(FlagRounds) {
		cfg.Timer.Rounds = viper.GetInt(FlagRounds)
	}
	if cmd.Flags().Changed(FlagReady) {
		cfg.Timer.ReadySeconds = viper.GetInt(FlagReady)
	}
	if cmd.Flags().Changed(FlagNoSound) {
		cfg.Sound.Enabled = !viper.GetBool(FlagNoSound)
	}
	return nil
}

func main() {
	logLevel := &slog.LevelVar{}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	viper.SetEnvPrefix("PULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:   "pulse",
		Short: "Interval workout timer for the terminal",
		Long: `pulse is an interval workout timer that runs in the terminal.

It cycles through warm-up, work, and rest phases for a configured number
of rounds, with audio cues on phase changes and a final countdown before
each transition. Sessions are logged and aggregate workout history is
kept under .pulse/.`,
		SilenceUsage: true,
	}

	// Persistent flags available to all commands
	rootCmd.PersistentFlags().Bool(FlagVerbose, false, "Enable verbose (debug) logging")
	rootCmd.PersistentFlags().String(FlagConfig, "", "Config file path (default: .pulse/config.yaml)")
	rootCmd.PersistentFlags().String(FlagLogFile, "", "Session log file path")
	rootCmd.PersistentFlags().String(FlagHistoryFile, "", "Workout history file path")

	// Bind all flags to viper
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("pulse %s\n", version)
		},
	}

	// Start command
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run a workout",
		Long: `Run an interval workout in the terminal UI.

The interval shape comes from config files, a named --preset, or the
--work/--rest/--rounds flags, with flags taking precedence. The workout
waits for a keypress unless --auto-start is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetBool(FlagVerbose) {
				logLevel.Set(slog.LevelDebug)
				logger.Debug("verbose logging enabled")
			}

			// Load config from files with defaults
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			// Apply CLI flag overrides (only if explicitly set)
			if err := applyTimerFlags(cmd, cfg); err != nil {
				return err
			}
			if cmd.Flags().Changed(FlagLogFile) {
				cfg.Paths.Log = viper.GetString(FlagLogFile)
			}
			if cmd.Flags().Changed(FlagHistoryFile) {
				cfg.Paths.History = viper.GetString(FlagHistoryFile)
			}

			// Reject a bad interval shape before opening the UI
			if err := cfg.Timer.Validate(); err != nil {
				return err
			}

			// The UI owns the terminal; it needs a real one
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return fmt.Errorf("pulse start needs an interactive terminal")
			}

			// Ensure the .pulse directory exists
			if err := os.MkdirAll(filepath.Dir(cfg.Paths.Log), 0755); err != nil {
				return fmt.Errorf("create state directory: %w", err)
			}

			// Redirect logging to a rotating file so slog output cannot
			// corrupt the display
			tuiLogResult, err := SetupTUILogger(filepath.Dir(cfg.Paths.Log), logLevel, cfg.LogRotation)
			if err != nil {
				return err
			}
			defer func() { _ = tuiLogResult.Close() }()
			slog.SetDefault(tuiLogResult.Logger)

			tuiLogResult.Logger.Info("pulse starting",
				"version", version,
				"work_seconds", cfg.Timer.WorkSeconds,
				"rest_seconds", cfg.Timer.RestSeconds,
				"rounds", cfg.Timer.Rounds,
				"sound", cfg.Sound.Enabled,
				"log_file", cfg.Paths.Log,
				"history_file", cfg.Paths.History,
			)

			// Create event router
			router := events.NewRouter(events.DefaultBufferSize)

			ctx := cmd.Context()
			sinkCtx, sinkCancel := context.WithCancel(ctx)

			// Session log sink
			logSink := events.NewLogSink(cfg.Paths.Log)
			logEvents := router.Subscribe()
			if err := logSink.Start(sinkCtx, logEvents); err != nil {
				sinkCancel()
				return fmt.Errorf("start log sink: %w", err)
			}

			// Workout history sink (loads existing history in Start)
			historySink := events.NewHistorySink(cfg.Paths.History)
			historyEvents := router.SubscribeBuffered(events.HistoryBufferSize)
			if err := historySink.Start(sinkCtx, historyEvents); err != nil {
				sinkCancel()
				_ = logSink.Stop()
				return fmt.Errorf("start history sink: %w", err)
			}

			// Audio cue sink, unless sound is disabled
			var cueSink *audio.CueSink
			if cfg.Sound.Enabled {
				cueSink = audio.NewCueSink(audio.NewBellBeeper(os.Stdout), cfg.Sound.ToneTable())
				cueEvents := router.Subscribe()
				if err := cueSink.Start(sinkCtx, cueEvents); err != nil {
					sinkCancel()
					_ = logSink.Stop()
					_ = historySink.Stop()
					return fmt.Errorf("start audio sink: %w", err)
				}
			}

			// Subscribe the UI feed with buffering
			tuiEvents := router.SubscribeBuffered(1024)
			defer router.Unsubscribe(tuiEvents)

			// The timer publishes through the router; the UI drives it
			workout := timer.New(router)

			opts := []tui.Option{tui.WithEmitter(router)}
			if cueSink != nil {
				opts = append(opts, tui.WithMuter(cueSink))
			}
			if viper.GetBool(FlagAutoStart) {
				opts = append(opts, tui.WithAutoStart())
			}

			ui := tui.New(workout, cfg.Timer, tuiEvents, opts...)

			// Run the UI in the foreground (blocks until quit)
			uiErr := ui.Run()

			// Clean up
			sinkCancel()
			router.Close()
			_ = logSink.Stop()
			_ = historySink.Stop()
			if cueSink != nil {
				_ = cueSink.Stop()
			}

			return uiErr
		},
	}

	// Start command specific flags
	startCmd.Flags().String(FlagPreset, "", "Named workout preset (see 'pulse presets')")
	startCmd.Flags().Int(FlagWork, 0, "Work interval in seconds")
	startCmd.Flags().Int(FlagRest, 0, "Rest interval in seconds")
	startCmd.Flags().Int(FlagRounds, 0, "Number of rounds")
	startCmd.Flags().Int(FlagReady, 0, "Warm-up countdown in seconds")
	startCmd.Flags().Bool(FlagNoSound, false, "Disable audio cues")
	startCmd.Flags().Bool(FlagAutoStart, false, "Begin the workout immediately")

	startCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Presets command
	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in workout presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.Presets()

			if viper.GetBool(FlagJSON) {
				data, err := json.MarshalIndent(presets, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal presets: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			for _, p := range presets {
				total := config.EstimatedDuration(p.Timer)
				fmt.Printf("%-10s %3ds work / %3ds rest x %2d rounds  (%s)\n",
					p.Name, p.Timer.WorkSeconds, p.Timer.RestSeconds,
					p.Timer.Rounds, total)
				fmt.Printf("           %s\n", p.Description)
			}
			return nil
		},
	}
	presetsCmd.Flags().Bool(FlagJSON, false, "Output presets as JSON")
	_ = viper.BindPFlag(FlagJSON, presetsCmd.Flags().Lookup(FlagJSON))

	// History command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show aggregate workout history",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed(FlagHistoryFile) {
				cfg.Paths.History = viper.GetString(FlagHistoryFile)
			}

			sink := events.NewHistorySink(cfg.Paths.History)
			if err := sink.Load(); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("load history: %w", err)
			}
			h := sink.History()

			if viper.GetBool(FlagJSON) {
				data, err := json.MarshalIndent(h, "", "  ")
				if err != nil {
					return fmt.Errorf("marshal history: %w", err)
				}
				fmt.Println(string(data))
				return nil
			}

			if h.TotalStarted == 0 {
				fmt.Println("No workouts recorded yet")
				return nil
			}

			fmt.Printf("Workouts started:   %d\n", h.TotalStarted)
			fmt.Printf("Workouts completed: %d\n", h.TotalCompleted)
			fmt.Printf("Rounds completed:   %d\n", h.TotalRounds)
			fmt.Printf("Total work time:    %s\n", timer.Clock(h.TotalWorkSeconds))
			if h.Last != nil {
				fmt.Printf("Last workout:\n")
				fmt.Printf("  Finished:  %s\n", h.Last.CompletedAt.Format(time.RFC1123))
				fmt.Printf("  Rounds:    %d\n", h.Last.Rounds)
				fmt.Printf("  Duration:  %s\n", timer.Clock(h.Last.ElapsedSeconds))
			}
			return nil
		},
	}
	historyCmd.Flags().Bool(FlagJSON, false, "Output history as JSON")
	_ = viper.BindPFlag(FlagJSON, historyCmd.Flags().Lookup(FlagJSON))

	// Log command
	logCmd := &cobra.Command{
		Use:   "log",
		Short: "View recent session events",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetViper())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logPath := cfg.Paths.Log
			if cmd.Flags().Changed(FlagLogFile) {
				logPath = viper.GetString(FlagLogFile)
			}

			if viper.GetBool(FlagFollow) {
				return tailFollow(cmd.Context(), logPath)
			}
			return tailLast(logPath, viper.GetInt(FlagCount))
		},
	}
	logCmd.Flags().Bool(FlagFollow, false, "Follow the event stream (like tail -f)")
	logCmd.Flags().Int(FlagCount, 20, "Number of recent events to show")
	logCmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	// Register all commands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(presetsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(logCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}
