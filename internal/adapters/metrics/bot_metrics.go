package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
)

// BotMetricsCollector holds the per-match gauges and counters
type BotMetricsCollector struct {
	tickDuration       *prometheus.HistogramVec
	ticksTotal         *prometheus.CounterVec
	queuedResources    *prometheus.GaugeVec
	availableResources *prometheus.GaugeVec
	inventoryUnits     *prometheus.GaugeVec
	constructionTotal  *prometheus.CounterVec
	desyncTotal        *prometheus.CounterVec
	commandsTotal      *prometheus.CounterVec
}

// NewBotMetricsCollector creates a collector under the given namespace
func NewBotMetricsCollector(namespace string) *BotMetricsCollector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &BotMetricsCollector{
		// Tick duration histogram; one frame at normal speed is ~42ms
		tickDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tick_duration_seconds",
				Help:      "Orchestrator tick duration distribution",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.02, 0.042, 0.085},
			},
			[]string{"cadence"},
		),

		ticksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "ticks_total",
				Help:      "Total number of orchestrator ticks",
			},
			[]string{"cadence"},
		),

		queuedResources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "queued_resources",
				Help:      "Resources reserved by non-terminal construction requests",
			},
			[]string{"resource"},
		),

		availableResources: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "available_resources",
				Help:      "Authoritative resources minus reservations",
			},
			[]string{"resource"},
		),

		inventoryUnits: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "inventory_units",
				Help:      "Number of mirrored units by player and category",
			},
			[]string{"player", "category"},
		),

		constructionTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "construction_transitions_total",
				Help:      "Construction request lifecycle transitions by building type and status",
			},
			[]string{"building_type", "status"},
		),

		desyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "desync_total",
				Help:      "Destroy notifications for units the mirror did not know",
			},
			[]string{"player"},
		),

		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "simlink",
				Name:      "commands_total",
				Help:      "Outbound simulation commands by kind and result",
			},
			[]string{"kind", "result"},
		),
	}
}

// Register registers all metrics with the Prometheus registry
func (c *BotMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.tickDuration,
		c.ticksTotal,
		c.queuedResources,
		c.availableResources,
		c.inventoryUnits,
		c.constructionTotal,
		c.desyncTotal,
		c.commandsTotal,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

func cadenceLabel(cadence bool) string {
	if cadence {
		return "scheduling"
	}
	return "regular"
}

// RecordTick observes one tick
func (c *BotMetricsCollector) RecordTick(duration time.Duration, cadence bool) {
	label := cadenceLabel(cadence)
	c.tickDuration.WithLabelValues(label).Observe(duration.Seconds())
	c.ticksTotal.WithLabelValues(label).Inc()
}

// RecordBudget sets the resource gauges
func (c *BotMetricsCollector) RecordBudget(queued unit.Cost, available unit.Cost) {
	c.queuedResources.WithLabelValues("minerals").Set(float64(queued.Minerals))
	c.queuedResources.WithLabelValues("gas").Set(float64(queued.Gas))
	c.availableResources.WithLabelValues("minerals").Set(float64(available.Minerals))
	c.availableResources.WithLabelValues("gas").Set(float64(available.Gas))
	c.availableResources.WithLabelValues("supply").Set(float64(available.Supply))
}

// RecordInventory sets the view-size gauges for every category
func (c *BotMetricsCollector) RecordInventory(player shared.PlayerID, counts map[unit.Category]int) {
	for _, category := range unit.Categories {
		c.inventoryUnits.WithLabelValues(player.String(), category.String()).Set(float64(counts[category]))
	}
}

// RecordConstructionTransition counts one request transition
func (c *BotMetricsCollector) RecordConstructionTransition(buildingType unit.TypeTag, status shared.LifecycleStatus) {
	c.constructionTotal.WithLabelValues(string(buildingType), string(status)).Inc()
}

// RecordDesync counts one unknown-unit destroy
func (c *BotMetricsCollector) RecordDesync(player shared.PlayerID) {
	c.desyncTotal.WithLabelValues(player.String()).Inc()
}

// RecordCommand counts one outbound command
func (c *BotMetricsCollector) RecordCommand(kind, result string) {
	c.commandsTotal.WithLabelValues(kind, result).Inc()
}
