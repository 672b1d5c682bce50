package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

const (
	// DefaultNamespace for all metrics
	DefaultNamespace = "rtsbot"
	// Subsystem for per-match bot metrics
	subsystem = "match"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalCollector is the singleton bot metrics collector
	// Set by SetGlobalCollector() when metrics are enabled
	globalCollector BotMetricsRecorder
)

// BotMetricsRecorder defines the interface for recording bot metrics events.
// Application code records through the package-level helpers below so a
// disabled registry costs a nil check.
type BotMetricsRecorder interface {
	RecordTick(duration time.Duration, cadence bool)
	RecordBudget(queued unit.Cost, available unit.Cost)
	RecordInventory(player shared.PlayerID, counts map[unit.Category]int)
	RecordConstructionTransition(buildingType unit.TypeTag, status shared.LifecycleStatus)
	RecordDesync(player shared.PlayerID)
	RecordCommand(kind, result string)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalCollector sets the global metrics collector
// This should be called after the collector is created and registered
func SetGlobalCollector(collector BotMetricsRecorder) {
	globalCollector = collector
}

// Reset drops the registry and the global collector
func Reset() {
	Registry = nil
	globalCollector = nil
}

// RecordTick records one orchestrator tick globally
func RecordTick(duration time.Duration, cadence bool) {
	if globalCollector != nil {
		globalCollector.RecordTick(duration, cadence)
	}
}

// RecordBudget records queued and available resources globally
func RecordBudget(queued unit.Cost, available unit.Cost) {
	if globalCollector != nil {
		globalCollector.RecordBudget(queued, available)
	}
}

// RecordInventory records category view sizes for one player globally
func RecordInventory(player shared.PlayerID, counts map[unit.Category]int) {
	if globalCollector != nil {
		globalCollector.RecordInventory(player, counts)
	}
}

// RecordConstructionTransition records a request lifecycle transition globally
func RecordConstructionTransition(buildingType unit.TypeTag, status shared.LifecycleStatus) {
	if globalCollector != nil {
		globalCollector.RecordConstructionTransition(buildingType, status)
	}
}

// RecordDesync records a destroy notification for an unknown unit globally
func RecordDesync(player shared.PlayerID) {
	if globalCollector != nil {
		globalCollector.RecordDesync(player)
	}
}

// RecordCommand records an outbound command globally
func RecordCommand(kind, result string) {
	if globalCollector != nil {
		globalCollector.RecordCommand(kind, result)
	}
}
