package construction_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/domain/construction"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

func newBarracksRequest() *construction.Request {
	return construction.NewRequest(unit.TerranBarracks, unit.Cost{Minerals: 150}, 1, 0, 10)
}

func TestRequest_ReservationHeldUntilTerminal(t *testing.T) {
	r := newBarracksRequest()
	assert.Equal(t, 150, r.Reservation().Minerals)

	require.NoError(t, r.AssignBuilder(7))
	require.NoError(t, r.Start(shared.NewTilePosition(4, 4), 20))
	assert.Equal(t, 150, r.Reservation().Minerals)

	require.NoError(t, r.ConfirmPlacement(99, shared.NewTilePosition(4, 4), 25))
	assert.True(t, r.IsPlaced())
	assert.Equal(t, 150, r.Reservation().Minerals)

	require.NoError(t, r.Complete(400))
	assert.True(t, r.IsTerminal())
	assert.Zero(t, r.Reservation().Minerals)
}

func TestRequest_StartWithoutBuilder(t *testing.T) {
	r := newBarracksRequest()

	err := r.Start(shared.NewTilePosition(1, 1), 11)

	var ce *shared.ConstructionError
	assert.True(t, errors.As(err, &ce))
	assert.True(t, r.IsQueued())
}

func TestRequest_ConfirmPlacementStartsQueuedRequest(t *testing.T) {
	r := newBarracksRequest()
	require.NoError(t, r.AssignBuilder(3))

	require.NoError(t, r.ConfirmPlacement(50, shared.NewTilePosition(9, 9), 30))

	assert.True(t, r.IsStarted())
	assert.Equal(t, unit.ID(50), r.Building())
	require.NotNil(t, r.Tile())
	assert.Equal(t, shared.NewTilePosition(9, 9), *r.Tile())
}

func TestRequest_CannotCompleteFromQueued(t *testing.T) {
	r := newBarracksRequest()

	err := r.Complete(12)

	var te *shared.InvalidTransitionError
	assert.True(t, errors.As(err, &te))
}

func TestRequest_FailReleasesReservation(t *testing.T) {
	r := newBarracksRequest()

	require.NoError(t, r.Fail(15, shared.NewBuilderLostError(string(unit.TerranBarracks), 3)))

	assert.Equal(t, shared.LifecycleStatusFailed, r.Status())
	assert.Zero(t, r.Reservation())
	assert.Error(t, r.LastError())
	assert.Error(t, r.AssignBuilder(4))
}

func TestRetryPolicy(t *testing.T) {
	assert.Equal(t, construction.DefaultMaxPlacementAttempts, construction.NewRetryPolicy(0).MaxAttempts)

	policy := construction.NewRetryPolicy(3)
	assert.False(t, policy.Exhausted(2))
	assert.True(t, policy.Exhausted(3))
}
