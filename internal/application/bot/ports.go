package bot

import (
	domainConstruction "github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// Totals are the authoritative resource values reported with every tick
type Totals struct {
	Minerals    int `json:"minerals"`
	Gas         int `json:"gas"`
	SupplyUsed  int `json:"supply_used"`
	SupplyTotal int `json:"supply_total"`
}

// Simulation is the external authoritative game as the bot sees it:
// outbound fire-and-forget commands plus a few synchronous lookups.
type Simulation interface {
	domainConstruction.CommandIssuer
	domainConstruction.BuildabilityChecker

	// Self is the player the bot controls
	Self() shared.PlayerID
	// StartLocation is the tile our main base started on
	StartLocation() shared.TilePosition
	// Latency is the command latency in frames
	Latency() int
	// KeyPressed reports whether a key is held this frame
	KeyPressed(key string) bool
	// SendText shows a message to the operator in game
	SendText(text string)
}

// Overlay draws debug text over the game screen
type Overlay interface {
	DrawTextScreen(x, y int, text string)
}

// FatalHandler receives errors that make the mirrored state untrustworthy.
// The default handler logs the error and exits the process.
type FatalHandler func(err error)

type noOverlay struct{}

func (noOverlay) DrawTextScreen(int, int, string) {}
