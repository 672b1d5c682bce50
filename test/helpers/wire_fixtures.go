package helpers

import (
	"fmt"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// TwoBaseMapPath is the only path TwoBaseMapSource knows
const TwoBaseMapPath = "two-base.yaml"

// TwoBaseStatics are the neutral resources of TwoBaseMap's main
func TwoBaseStatics() []unit.Observation {
	return []unit.Observation{
		Neutral(501, unit.MineralField, 4, 2),
		Neutral(502, unit.MineralField, 5, 2),
		Neutral(503, unit.MineralField, 6, 2),
		Neutral(504, unit.MineralField, 7, 2),
		Neutral(600, unit.VespeneGeyser, 12, 4),
	}
}

// TwoBaseMapSource serves TwoBaseMap under TwoBaseMapPath
func TwoBaseMapSource() wire.MapSource {
	return func(path string) (*mapdata.Map, error) {
		if path != TwoBaseMapPath {
			return nil, fmt.Errorf("unknown map %q", path)
		}
		return &mapdata.Map{Terrain: TwoBaseMap(), Statics: TwoBaseStatics(), Hash: "two-base-hash"}, nil
	}
}

// StartEnvelope opens a match on TwoBaseMap for SelfPlayer
func StartEnvelope() wire.Envelope {
	return wire.Envelope{
		Kind: wire.KindStart,
		Start: &wire.StartMsg{
			Self:          SelfPlayer.Value(),
			StartLocation: MainStart,
			Latency:       2,
			Map:           TwoBaseMapPath,
		},
	}
}

// FrameEnvelope reports a tick with the given resources
func FrameEnvelope(frame, minerals, gas int, keys ...string) wire.Envelope {
	return wire.Envelope{
		Kind:   wire.KindFrame,
		Frame:  frame,
		Totals: &bot.Totals{Minerals: minerals, Gas: gas, SupplyUsed: 4, SupplyTotal: 10},
		Keys:   keys,
	}
}

// UnitEnvelope wraps an observation in a lifecycle envelope
func UnitEnvelope(kind wire.Kind, frame int, obs unit.Observation) wire.Envelope {
	return wire.Envelope{Kind: kind, Frame: frame, Unit: wire.UnitMsgFrom(obs)}
}

// OpeningEnvelopes starts a match and completes a townhall plus four
// workers, which opens the bootstrap gate
func OpeningEnvelopes() []wire.Envelope {
	envs := []wire.Envelope{
		StartEnvelope(),
		UnitEnvelope(wire.KindCompleted, 1, Observed(100, unit.TerranCommandCenter, 8, 8)),
	}
	for id := unit.ID(1); id <= 4; id++ {
		envs = append(envs, UnitEnvelope(wire.KindCompleted, 1, Observed(id, unit.TerranSCV, 10, 12)))
	}
	return envs
}
