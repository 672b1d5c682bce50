package wire

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/mapdata"
	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// Handler receives the lifecycle callbacks of one match.
// *bot.Orchestrator satisfies it.
type Handler interface {
	OnStart(data terrain.Data, mapHash string, statics []unit.Observation) error
	OnEnd(won bool)
	Tick(frame shared.Frame, totals bot.Totals)
	OnUnitDiscovered(obs unit.Observation, frame shared.Frame)
	OnUnitCreated(obs unit.Observation, frame shared.Frame)
	OnUnitCompleted(obs unit.Observation, frame shared.Frame)
	OnUnitDestroyed(obs unit.Observation, frame shared.Frame)
	OnUnitMorphed(obs unit.Observation, frame shared.Frame)
}

// MapSource loads a map description by path
type MapSource func(path string) (*mapdata.Map, error)

// Session is the bot-side view of one simulation connection. It implements
// bot.Simulation on top of an Outbound channel and turns inbound envelopes
// into Handler callbacks.
type Session struct {
	out        Outbound
	maps       MapSource
	defaultMap string
	catalog    *unit.TypeCatalog
	logger     zerolog.Logger

	self      shared.PlayerID
	start     shared.TilePosition
	latency   int
	keys      map[string]bool
	frame     shared.Frame
	occupancy *Occupancy
	running   bool
	ended     bool
	sent      int
	dropped   int
	latCom    bool
}

var _ bot.Simulation = (*Session)(nil)

// NewSession creates a session. defaultMap is used when a start message
// does not name a map.
func NewSession(out Outbound, maps MapSource, defaultMap string, catalog *unit.TypeCatalog, logger zerolog.Logger) *Session {
	if maps == nil {
		maps = mapdata.Load
	}
	if catalog == nil {
		catalog = unit.DefaultCatalog()
	}
	return &Session{
		out:        out,
		maps:       maps,
		defaultMap: defaultMap,
		catalog:    catalog,
		logger:     logger.With().Str("component", "session").Logger(),
		keys:       make(map[string]bool),
	}
}

// Apply feeds one envelope to h
func (s *Session) Apply(h Handler, env Envelope) error {
	if env.Kind == KindStart {
		return s.begin(h, env)
	}
	if !s.running {
		return fmt.Errorf("%s envelope at frame %d outside a match", env.Kind, env.Frame)
	}
	frame := shared.Frame(env.Frame)

	switch env.Kind {
	case KindFrame:
		s.frame = frame
		s.keys = make(map[string]bool, len(env.Keys))
		for _, k := range env.Keys {
			s.keys[k] = true
		}
		var totals bot.Totals
		if env.Totals != nil {
			totals = *env.Totals
		}
		h.Tick(frame, totals)
	case KindDiscovered:
		obs := env.Unit.Observation()
		s.occupancy.Place(obs)
		h.OnUnitDiscovered(obs, frame)
	case KindCreated:
		obs := env.Unit.Observation()
		s.occupancy.Place(obs)
		h.OnUnitCreated(obs, frame)
	case KindCompleted:
		obs := env.Unit.Observation()
		s.occupancy.Place(obs)
		h.OnUnitCompleted(obs, frame)
	case KindMorphed:
		obs := env.Unit.Observation()
		s.occupancy.Place(obs)
		h.OnUnitMorphed(obs, frame)
	case KindDestroyed:
		obs := env.Unit.Observation()
		s.occupancy.Remove(obs.ID)
		h.OnUnitDestroyed(obs, frame)
	case KindEnd:
		h.OnEnd(env.Won)
		s.running = false
		s.ended = true
	default:
		return env.Validate()
	}
	return nil
}

func (s *Session) begin(h Handler, env Envelope) error {
	if s.running {
		return fmt.Errorf("start envelope at frame %d during a running match", env.Frame)
	}
	path := env.Start.Map
	if path == "" {
		path = s.defaultMap
	}
	m, err := s.maps(path)
	if err != nil {
		return fmt.Errorf("failed to load map: %w", err)
	}
	graph := terrain.NewGraph(m.Terrain)
	if err := graph.Analyze(); err != nil {
		return fmt.Errorf("failed to analyze map: %w", err)
	}

	s.self = shared.PlayerIDFromWire(env.Start.Self)
	s.start = env.Start.StartLocation
	s.latency = env.Start.Latency
	s.frame = shared.Frame(env.Frame)
	s.keys = make(map[string]bool)
	s.occupancy = NewOccupancy(s.catalog, graph)
	for _, obs := range m.Statics {
		s.occupancy.Place(obs)
	}

	if err := h.OnStart(m.Terrain, m.Hash, m.Statics); err != nil {
		return err
	}
	s.running = true
	s.ended = false
	if s.latCom {
		if err := s.send(Command{Kind: CommandSetting, Frame: env.Frame, Text: SettingLatencyCompensation}); err != nil {
			s.logger.Warn().Err(err).Msg("failed to enable latency compensation")
		}
	}
	s.logger.Info().
		Str("map", m.Terrain.Name).
		Str("self", s.self.String()).
		Msg("match opened")
	return nil
}

// SettingLatencyCompensation asks the simulation to hide command latency
const SettingLatencyCompensation = "latency_compensation"

// SetLatencyCompensation requests latency compensation at every match start
func (s *Session) SetLatencyCompensation(on bool) { s.latCom = on }

// Running reports whether a match is in progress
func (s *Session) Running() bool { return s.running }

// Ended reports whether the last match has received its end envelope
func (s *Session) Ended() bool { return s.ended }

// Frame is the last frame seen
func (s *Session) Frame() shared.Frame { return s.frame }

// Sent is the number of commands delivered
func (s *Session) Sent() int { return s.sent }

// Dropped is the number of commands the outbound channel refused
func (s *Session) Dropped() int { return s.dropped }

// Occupancy exposes the local buildability map
func (s *Session) Occupancy() *Occupancy { return s.occupancy }

func (s *Session) Self() shared.PlayerID              { return s.self }
func (s *Session) StartLocation() shared.TilePosition { return s.start }
func (s *Session) Latency() int                       { return s.latency }
func (s *Session) KeyPressed(key string) bool         { return s.keys[key] }

// Build dispatches a build order. The error reports only that the order
// could not be sent.
func (s *Session) Build(builder unit.ID, buildingType unit.TypeTag, tile shared.TilePosition) error {
	t := tile
	return s.send(Command{
		Kind:    CommandBuild,
		Frame:   int(s.frame),
		Builder: int(builder),
		Type:    string(buildingType),
		Tile:    &t,
	})
}

// CanBuildHere answers from the footprints seen so far
func (s *Session) CanBuildHere(tile shared.TilePosition, buildingType unit.TypeTag, builder unit.ID) bool {
	if s.occupancy == nil {
		return false
	}
	return s.occupancy.CanBuildHere(tile, buildingType, builder)
}

// SendText shows text to the operator; failures are logged only
func (s *Session) SendText(text string) {
	if err := s.send(Command{Kind: CommandText, Frame: int(s.frame), Text: text}); err != nil {
		s.logger.Warn().Err(err).Str("text", text).Msg("failed to send operator text")
	}
}

func (s *Session) send(cmd Command) error {
	if err := s.out.Send(cmd); err != nil {
		s.dropped++
		return err
	}
	s.sent++
	return nil
}
