package wire_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

func TestDecode_UnitEnvelope(t *testing.T) {
	// Arrange
	raw := `{"kind":"created","frame":40,"unit":{"id":77,"type":"Terran_Barracks","owner":0,` +
		`"position":{"x":320,"y":384},"build_unit":3}}`

	// Act
	env, err := wire.Decode([]byte(raw))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, wire.KindCreated, env.Kind)
	obs := env.Unit.Observation()
	assert.Equal(t, unit.ID(77), obs.ID)
	assert.Equal(t, unit.TerranBarracks, obs.Type)
	assert.Equal(t, shared.MustNewPlayerID(0), obs.Owner)
	assert.Equal(t, unit.ID(3), obs.BuildUnit)
	assert.Equal(t, shared.NewTilePosition(10, 12), obs.Position.ToTile())
}

func TestDecode_NegativeOwnerIsNeutral(t *testing.T) {
	// Act
	env, err := wire.Decode([]byte(`{"kind":"discovered","frame":1,"unit":{"id":5,"type":"Resource_Mineral_Field","owner":-1}}`))

	// Assert
	require.NoError(t, err)
	assert.True(t, env.Unit.Observation().Owner.IsNeutral())
}

func TestDecode_FrameTotalsAndKeys(t *testing.T) {
	// Act
	env, err := wire.Decode([]byte(`{"kind":"frame","frame":12,"totals":{"minerals":350,"gas":20,"supply_used":8,"supply_total":10},"keys":["CONTROL","T"]}`))

	// Assert
	require.NoError(t, err)
	require.NotNil(t, env.Totals)
	assert.Equal(t, 350, env.Totals.Minerals)
	assert.Equal(t, 10, env.Totals.SupplyTotal)
	assert.Equal(t, []string{"CONTROL", "T"}, env.Keys)
}

func TestDecode_RejectsMalformedEnvelopes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unknown kind", `{"kind":"teleported","frame":1}`},
		{"unit kind without unit", `{"kind":"destroyed","frame":1}`},
		{"start without payload", `{"kind":"start","frame":0}`},
		{"negative frame", `{"kind":"frame","frame":-3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			_, err := wire.Decode([]byte(tt.raw))

			// Assert
			var validationErr *shared.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}
}

func TestDecode_RejectsBrokenJSON(t *testing.T) {
	// Act
	_, err := wire.Decode([]byte(`{"kind":`))

	// Assert
	assert.Error(t, err)
}

func TestUnitMsgFrom_RoundTripsObservation(t *testing.T) {
	// Arrange
	obs := unit.Observation{
		ID:        9,
		Type:      unit.TerranSCV,
		Owner:     shared.MustNewPlayerID(1),
		Position:  shared.Position{X: 40, Y: 50},
		Completed: true,
	}

	// Act
	got := wire.UnitMsgFrom(obs).Observation()

	// Assert
	assert.Equal(t, obs, got)
}
