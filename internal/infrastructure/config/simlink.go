package config

import "time"

// SimLinkConfig holds the websocket bridge to a live simulation
type SimLinkConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`

	HandshakeTimeout time.Duration `mapstructure:"handshake_timeout"`

	// Outbound commands per second
	CommandRate float64 `mapstructure:"command_rate" validate:"gt=0"`

	// Commands allowed in one burst
	CommandBurst int `mapstructure:"command_burst" validate:"min=1"`

	// PIDFile, when set, keeps a second bot from joining the same seat
	PIDFile string `mapstructure:"pid_file"`
}
