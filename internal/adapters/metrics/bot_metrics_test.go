package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
)

func enable(t *testing.T) *metrics.BotMetricsCollector {
	t.Helper()
	metrics.InitRegistry()
	c := metrics.NewBotMetricsCollector("test")
	require.NoError(t, c.Register())
	metrics.SetGlobalCollector(c)
	t.Cleanup(metrics.Reset)
	return c
}

func gather(t *testing.T, name string) float64 {
	t.Helper()
	families, err := metrics.Registry.Gather()
	require.NoError(t, err)
	var total float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				total += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				total += m.GetGauge().GetValue()
			case m.GetHistogram() != nil:
				total += float64(m.GetHistogram().GetSampleCount())
			}
		}
	}
	return total
}

func TestMetrics_DisabledRecordingIsNoop(t *testing.T) {
	// Arrange
	metrics.Reset()

	// Act / Assert
	assert.False(t, metrics.IsEnabled())
	assert.NotPanics(t, func() {
		metrics.RecordTick(time.Millisecond, true)
		metrics.RecordDesync(shared.NeutralPlayer)
		metrics.RecordCommand("build", "sent")
	})
}

func TestMetrics_RecordsThroughGlobalCollector(t *testing.T) {
	// Arrange
	enable(t)
	self := shared.MustNewPlayerID(0)

	// Act
	metrics.RecordTick(2*time.Millisecond, true)
	metrics.RecordTick(time.Millisecond, false)
	metrics.RecordBudget(unit.Cost{Minerals: 150}, unit.Cost{Minerals: 50, Gas: 10, Supply: 2})
	metrics.RecordInventory(self, map[unit.Category]int{unit.CategoryWorker: 4})
	metrics.RecordConstructionTransition(unit.TerranBarracks, shared.LifecycleStatusStarted)
	metrics.RecordDesync(self)
	metrics.RecordDesync(self)
	metrics.RecordCommand("build", "rate_limited")

	// Assert
	assert.True(t, metrics.IsEnabled())
	assert.Equal(t, 2.0, gather(t, "test_match_ticks_total"))
	assert.Equal(t, 2.0, gather(t, "test_match_tick_duration_seconds"))
	assert.Equal(t, 150.0, gather(t, "test_match_queued_resources"))
	assert.Equal(t, 62.0, gather(t, "test_match_available_resources"))
	assert.Equal(t, 4.0, gather(t, "test_match_inventory_units"))
	assert.Equal(t, 1.0, gather(t, "test_match_construction_transitions_total"))
	assert.Equal(t, 2.0, gather(t, "test_match_desync_total"))
	assert.Equal(t, 1.0, gather(t, "test_simlink_commands_total"))
}

func TestMetrics_RegisterTwiceFails(t *testing.T) {
	// Arrange
	enable(t)

	// Act
	err := metrics.NewBotMetricsCollector("test").Register()

	// Assert
	assert.Error(t, err)
}

func TestMetrics_ServerExposesRegistry(t *testing.T) {
	// Arrange
	enable(t)
	metrics.RecordDesync(shared.NeutralPlayer)
	srv, err := metrics.NewServer(config.MetricsConfig{Host: "127.0.0.1", Port: 0, Path: "/metrics"}, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	defer srv.Shutdown(context.Background())

	// Act
	resp, err := http.Get("http://" + srv.Addr() + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "test_match_desync_total")
}

func TestMetrics_ServerNeedsRegistry(t *testing.T) {
	// Arrange
	metrics.Reset()

	// Act
	_, err := metrics.NewServer(config.MetricsConfig{}, zerolog.Nop())

	// Assert
	assert.Error(t, err)
}

func TestMetrics_DefaultNamespace(t *testing.T) {
	// Arrange
	metrics.InitRegistry()
	defer metrics.Reset()
	c := metrics.NewBotMetricsCollector("")
	require.NoError(t, c.Register())

	// Act
	c.RecordCommand("text", "sent")

	// Assert
	assert.Equal(t, 1.0, gather(t, "rtsbot_simlink_commands_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.Registry, "rtsbot_simlink_commands_total"))
}
