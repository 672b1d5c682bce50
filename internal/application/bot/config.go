package bot

import domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"

// Config tunes the orchestrator
type Config struct {
	// Cadence is N: scouting, scheduling and operator polling run every Nth frame
	Cadence int
	// BootstrapWorkers is the exact completed worker count that opens the gate
	BootstrapWorkers int
	ScoutingEnabled  bool
	// MaxPlacementAttempts bounds failed placement passes per request
	MaxPlacementAttempts int
	OverlayKeys          []string
	VerbosityKeys        []string
}

// Defaults
const (
	DefaultCadence          = 5
	DefaultBootstrapWorkers = 4
)

// DefaultConfig returns the standard tuning
func DefaultConfig() Config {
	return Config{
		Cadence:              DefaultCadence,
		BootstrapWorkers:     DefaultBootstrapWorkers,
		ScoutingEnabled:      true,
		MaxPlacementAttempts: domainConstruction.DefaultMaxPlacementAttempts,
		OverlayKeys:          []string{"CONTROL", "T"},
		VerbosityKeys:        []string{"CONTROL", "R"},
	}
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.Cadence <= 0 {
		c.Cadence = d.Cadence
	}
	if c.BootstrapWorkers <= 0 {
		c.BootstrapWorkers = d.BootstrapWorkers
	}
	if c.MaxPlacementAttempts <= 0 {
		c.MaxPlacementAttempts = d.MaxPlacementAttempts
	}
	if len(c.OverlayKeys) == 0 {
		c.OverlayKeys = d.OverlayKeys
	}
	if len(c.VerbosityKeys) == 0 {
		c.VerbosityKeys = d.VerbosityKeys
	}
	return c
}
