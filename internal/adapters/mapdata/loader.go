package mapdata

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"lukechampine.com/blake3"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/terrain"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

// StaticSpec is a neutral resource present from frame 0
type StaticSpec struct {
	ID   int                 `yaml:"id" validate:"min=1"`
	Type string              `yaml:"type" validate:"required"`
	Tile shared.TilePosition `yaml:"tile"`
}

// File is the on-disk layout of a map description
type File struct {
	Terrain terrain.Data `yaml:",inline"`
	Statics []StaticSpec `yaml:"statics" validate:"dive"`
}

// Map is a loaded, validated map
type Map struct {
	Terrain terrain.Data
	Statics []unit.Observation
	// Hash is the hex blake3 digest of the raw file, logged at match start
	Hash string
}

// Load reads and parses the map file at path
func Load(path string) (*Map, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file: %w", err)
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a map description. Unknown keys are rejected so typos do not
// silently drop geometry.
func Parse(raw []byte) (*Map, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode map: %w", err)
	}
	if err := config.NewValidator("yaml").Validate(&f); err != nil {
		return nil, err
	}

	statics := make([]unit.Observation, 0, len(f.Statics))
	seen := make(map[int]bool, len(f.Statics))
	for _, s := range f.Statics {
		if seen[s.ID] {
			return nil, shared.NewValidationError("statics", fmt.Sprintf("duplicate unit id %d", s.ID))
		}
		seen[s.ID] = true
		statics = append(statics, unit.Observation{
			ID:        unit.ID(s.ID),
			Type:      unit.TypeTag(s.Type),
			Owner:     shared.NeutralPlayer,
			Position:  s.Tile.ToPosition(),
			Completed: true,
		})
	}

	return &Map{Terrain: f.Terrain, Statics: statics, Hash: Hash(raw)}, nil
}

// Hash returns the hex blake3 digest of raw
func Hash(raw []byte) string {
	sum := blake3.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
