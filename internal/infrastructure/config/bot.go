package config

// BotConfig tunes the orchestrator and the scheduler
type BotConfig struct {
	// Scheduling, scouting and operator polling run every CadenceFrames frames
	CadenceFrames int `mapstructure:"cadence_frames" validate:"min=1,max=240"`

	// Exact completed worker count that opens the bootstrap gate
	BootstrapWorkers int `mapstructure:"bootstrap_workers" validate:"min=1"`

	ScoutingEnabled bool `mapstructure:"scouting_enabled"`

	// Failed placement passes before a request releases its reservation
	PlacementMaxAttempts int `mapstructure:"placement_max_attempts" validate:"min=1"`

	// Ask the simulation to compensate for command latency
	LatencyCompensation bool `mapstructure:"latency_compensation"`

	// Buildings queued when the match bootstraps, highest priority first
	BuildOrder []string `mapstructure:"build_order"`

	Operator OperatorConfig `mapstructure:"operator"`
}

// OperatorConfig holds the key chords of the in-game operator toggles
type OperatorConfig struct {
	OverlayKeys   []string `mapstructure:"overlay_keys" validate:"min=1,dive,required"`
	VerbosityKeys []string `mapstructure:"verbosity_keys" validate:"min=1,dive,required"`
}

// MapConfig points at the terrain description of the map being played
type MapConfig struct {
	Path string `mapstructure:"path"`
}

// ReplayConfig points at a recorded event stream
type ReplayConfig struct {
	// .jsonl, .jsonl.zst or .jsonl.lz4
	Path string `mapstructure:"path"`
}
