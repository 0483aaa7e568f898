package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Database
		Global
		Gesture
		Selection
		Highlight
		Export
	}

	HTTP struct {
		Port int32
		Host string
	}
	Database struct {
		Path string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}

	// Gesture holds the swipe/selection disambiguation thresholds. These
	// are tunable heuristics, not invariants; the defaults are the values
	// observed to work across devices, but every one can be overridden
	// through the environment.
	Gesture struct {
		SwipeThreshold   float64       // min travel distance for a swipe
		SwipeRestraint   float64       // max perpendicular travel
		SwipeAllowedTime time.Duration // max elapsed time for a swipe

		MoveThreshold   float64 // movement that leaves tap territory
		VerticalRatio   float64 // vertical dominance cutoff for selection
		MoveCountCutoff int     // many small moves also mean selection
	}

	// Selection timing. Zero values defer to the detected platform
	// profile.
	Selection struct {
		LongPressDuration time.Duration
		SettleDelay       time.Duration
	}

	Highlight struct {
		SettleDelay time.Duration // wait for frame layout before overlay injection
		MaxRetries  int           // re-apply attempts while the surface has no frames
		AccentColor string
	}

	Export struct {
		Enabled   bool
		OutputDir string
		Schedule  string // cron format: "0 * * * *" = hourly
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8189)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Gesture defaults
	v.SetDefault("gesture_swipe_threshold", 50.0)
	v.SetDefault("gesture_swipe_restraint", 200.0)
	v.SetDefault("gesture_swipe_allowed_time", "500ms")
	v.SetDefault("gesture_move_threshold", 10.0)
	v.SetDefault("gesture_vertical_ratio", 1.5)
	v.SetDefault("gesture_move_count_cutoff", 5)

	// Selection timing overrides (zero = use platform profile)
	v.SetDefault("selection_long_press_duration", "0s")
	v.SetDefault("selection_settle_delay", "0s")

	// Highlight defaults
	v.SetDefault("highlight_settle_delay", "1s")
	v.SetDefault("highlight_max_retries", 3)
	v.SetDefault("highlight_accent_color", DefaultAccentColor)

	// Export defaults
	v.SetDefault("export_enabled", false)
	v.SetDefault("export_output_dir", "./markdown")
	v.SetDefault("export_schedule", "0 * * * *") // Hourly at :00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Gesture: Gesture{
			SwipeThreshold:   v.GetFloat64("GESTURE_SWIPE_THRESHOLD"),
			SwipeRestraint:   v.GetFloat64("GESTURE_SWIPE_RESTRAINT"),
			SwipeAllowedTime: v.GetDuration("GESTURE_SWIPE_ALLOWED_TIME"),
			MoveThreshold:    v.GetFloat64("GESTURE_MOVE_THRESHOLD"),
			VerticalRatio:    v.GetFloat64("GESTURE_VERTICAL_RATIO"),
			MoveCountCutoff:  v.GetInt("GESTURE_MOVE_COUNT_CUTOFF"),
		},
		Selection: Selection{
			LongPressDuration: v.GetDuration("SELECTION_LONG_PRESS_DURATION"),
			SettleDelay:       v.GetDuration("SELECTION_SETTLE_DELAY"),
		},
		Highlight: Highlight{
			SettleDelay: v.GetDuration("HIGHLIGHT_SETTLE_DELAY"),
			MaxRetries:  v.GetInt("HIGHLIGHT_MAX_RETRIES"),
			AccentColor: v.GetString("HIGHLIGHT_ACCENT_COLOR"),
		},
		Export: Export{
			Enabled:   v.GetBool("EXPORT_ENABLED"),
			OutputDir: v.GetString("EXPORT_OUTPUT_DIR"),
			Schedule:  v.GetString("EXPORT_SCHEDULE"),
		},
	}
}
