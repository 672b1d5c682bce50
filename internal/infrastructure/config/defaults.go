package config

import (
	"time"

	"github.com/spf13/viper"
)

// registerDefaults makes every key known to viper so that RTS_* environment
// variables are honored even when the config file does not mention the key
func registerDefaults(v *viper.Viper) {
	d := Default()
	defaults := map[string]interface{}{
		"bot.cadence_frames":          d.Bot.CadenceFrames,
		"bot.bootstrap_workers":       d.Bot.BootstrapWorkers,
		"bot.scouting_enabled":        true,
		"bot.placement_max_attempts":  d.Bot.PlacementMaxAttempts,
		"bot.latency_compensation":    false,
		"bot.build_order":             []string{},
		"bot.operator.overlay_keys":   d.Bot.Operator.OverlayKeys,
		"bot.operator.verbosity_keys": d.Bot.Operator.VerbosityKeys,
		"map.path":                    "",
		"replay.path":                 "",
		"simlink.url":                 d.SimLink.URL,
		"simlink.handshake_timeout":   d.SimLink.HandshakeTimeout,
		"simlink.command_rate":        d.SimLink.CommandRate,
		"simlink.command_burst":       d.SimLink.CommandBurst,
		"simlink.pid_file":            "",
		"database.type":               d.Database.Type,
		"database.path":               d.Database.Path,
		"database.url":                "",
		"database.host":               d.Database.Host,
		"database.port":               d.Database.Port,
		"database.user":               d.Database.User,
		"database.password":           "",
		"database.name":               d.Database.Name,
		"journal.enabled":             true,
		"journal.dedup_window":        d.Journal.DedupWindow,
		"logging.level":               d.Logging.Level,
		"logging.format":              d.Logging.Format,
		"logging.output":              d.Logging.Output,
		"metrics.enabled":             false,
		"metrics.namespace":           d.Metrics.Namespace,
		"metrics.port":                d.Metrics.Port,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Bot defaults
	if cfg.Bot.CadenceFrames == 0 {
		cfg.Bot.CadenceFrames = 5
	}
	if cfg.Bot.BootstrapWorkers == 0 {
		cfg.Bot.BootstrapWorkers = 4
	}
	if cfg.Bot.PlacementMaxAttempts == 0 {
		cfg.Bot.PlacementMaxAttempts = 12
	}
	if len(cfg.Bot.Operator.OverlayKeys) == 0 {
		cfg.Bot.Operator.OverlayKeys = []string{"CONTROL", "T"}
	}
	if len(cfg.Bot.Operator.VerbosityKeys) == 0 {
		cfg.Bot.Operator.VerbosityKeys = []string{"CONTROL", "R"}
	}

	// SimLink defaults
	if cfg.SimLink.URL == "" {
		cfg.SimLink.URL = "ws://localhost:8765/bot"
	}
	if cfg.SimLink.HandshakeTimeout == 0 {
		cfg.SimLink.HandshakeTimeout = 5 * time.Second
	}
	if cfg.SimLink.CommandRate == 0 {
		cfg.SimLink.CommandRate = 24
	}
	if cfg.SimLink.CommandBurst == 0 {
		cfg.SimLink.CommandBurst = 8
	}

	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Path == "" && cfg.Database.Type == "sqlite" {
		cfg.Database.Path = "rtsbot.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "rtsbot"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "rtsbot"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Journal defaults
	if cfg.Journal.DedupWindow == 0 {
		cfg.Journal.DedupWindow = 60 * time.Second
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "rtsbot"
	}
	if cfg.Metrics.Host == "" {
		cfg.Metrics.Host = "localhost"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
