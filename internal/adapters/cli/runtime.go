package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/metrics"
	"github.com/andrescamacho/rtsbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/rtsbot-go/internal/application/bot"
	"github.com/andrescamacho/rtsbot-go/internal/application/common"
	"github.com/andrescamacho/rtsbot-go/internal/application/strategy"
	"github.com/andrescamacho/rtsbot-go/internal/domain/unit"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/config"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/database"
	"github.com/andrescamacho/rtsbot-go/internal/infrastructure/logging"
)

// runtime holds the process-wide collaborators of a bot command
type runtime struct {
	cfg       *config.Config
	logger    *logging.Logger
	verbosity *logging.VerbositySwitch
	db        *gorm.DB
	journal   *persistence.MatchJournal
	metrics   *metrics.Server
}

// loadConfig applies the global flags on top of the loaded configuration
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// setup initializes logging, metrics and the journal in that order
func setup(cfg *config.Config) (*runtime, error) {
	logger, err := logging.InitLogger("rtsbot", cfg.Logging)
	if err != nil {
		return nil, err
	}
	level, _ := zerolog.ParseLevel(cfg.Logging.Level)
	rt := &runtime{
		cfg:       cfg,
		logger:    logger,
		verbosity: logging.NewVerbositySwitch(level),
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		collector := metrics.NewBotMetricsCollector(cfg.Metrics.Namespace)
		if err := collector.Register(); err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to register metrics: %w", err)
		}
		metrics.SetGlobalCollector(collector)
		srv, err := metrics.NewServer(cfg.Metrics, logger.Logger)
		if err != nil {
			rt.close()
			return nil, err
		}
		if err := srv.Start(); err != nil {
			rt.close()
			return nil, err
		}
		rt.metrics = srv
	}

	if cfg.Journal.Enabled {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		rt.db = db
		if err := database.AutoMigrate(db); err != nil {
			rt.close()
			return nil, fmt.Errorf("failed to migrate journal tables: %w", err)
		}
		repo := persistence.NewGormMatchLogRepository(db, nil, cfg.Journal.DedupWindow)
		rt.journal = persistence.NewMatchJournal(repo, nil, logger.Logger)
	}
	return rt, nil
}

// orchestrator builds an orchestrator for sim with the configured build order
func (r *runtime) orchestrator(sim bot.Simulation) *bot.Orchestrator {
	order := make([]unit.TypeTag, 0, len(r.cfg.Bot.BuildOrder))
	for _, tag := range r.cfg.Bot.BuildOrder {
		order = append(order, unit.TypeTag(tag))
	}
	var journal common.MatchJournal
	if r.journal != nil {
		journal = r.journal
	}
	return bot.NewOrchestrator(botConfig(r.cfg.Bot), sim, bot.Options{
		Journal:   journal,
		Factories: strategy.Factories{Game: strategy.NewBuildOrderFactory(order)},
		Logger:    &r.logger.Logger,
		Verbosity: r.verbosity.Set,
	})
}

func botConfig(c config.BotConfig) bot.Config {
	return bot.Config{
		Cadence:              c.CadenceFrames,
		BootstrapWorkers:     c.BootstrapWorkers,
		ScoutingEnabled:      c.ScoutingEnabled,
		MaxPlacementAttempts: c.PlacementMaxAttempts,
		OverlayKeys:          c.Operator.OverlayKeys,
		VerbosityKeys:        c.Operator.VerbosityKeys,
	}
}

// close flushes and releases everything setup opened
func (r *runtime) close() {
	if r.journal != nil {
		r.journal.Flush()
	}
	if r.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = r.metrics.Shutdown(ctx)
		cancel()
		metrics.Reset()
	}
	if r.db != nil {
		_ = database.Close(r.db)
	}
	_ = r.logger.Close()
}
