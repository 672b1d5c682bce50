package persistence

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/rtsbot-go/internal/domain/shared"
)

// MatchLogRepository manages match journal persistence
type MatchLogRepository interface {
	// BeginMatch records a new match row
	BeginMatch(ctx context.Context, matchID, mapName, mapHash string) error

	// EndMatch stamps the match with its result
	EndMatch(ctx context.Context, matchID, result string) error

	// Log writes entries to the database, skipping duplicates within the dedup window
	Log(ctx context.Context, entries ...MatchLogEntry) error

	// GetLogs retrieves the newest entries of a match with optional level filtering
	GetLogs(ctx context.Context, matchID string, limit int, level *string) ([]MatchLogEntry, error)

	// ListMatches returns the most recent matches first
	ListMatches(ctx context.Context, limit int) ([]MatchModel, error)
}

// MatchLogEntry represents a journal line
type MatchLogEntry struct {
	ID        int
	MatchID   string
	Frame     int
	Timestamp time.Time
	Level     string
	Message   string
	Metadata  map[string]interface{}
}

// GormMatchLogRepository is a GORM-based implementation
type GormMatchLogRepository struct {
	db    *gorm.DB
	clock shared.Clock

	dedupCache   map[string]time.Time // key: matchID+message+metadata, value: last logged time
	dedupMu      sync.Mutex
	dedupWindow  time.Duration
	dedupMaxSize int
}

// NewGormMatchLogRepository creates a new match log repository
// If clock is nil, uses RealClock (production behavior)
func NewGormMatchLogRepository(db *gorm.DB, clock shared.Clock, dedupWindow time.Duration) *GormMatchLogRepository {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &GormMatchLogRepository{
		db:           db,
		clock:        clock,
		dedupCache:   make(map[string]time.Time),
		dedupWindow:  dedupWindow,
		dedupMaxSize: 10000, // Max cache entries before cleanup
	}
}

func (r *GormMatchLogRepository) BeginMatch(ctx context.Context, matchID, mapName, mapHash string) error {
	return r.db.WithContext(ctx).Create(&MatchModel{
		ID:        matchID,
		MapName:   mapName,
		MapHash:   mapHash,
		StartedAt: r.clock.Now(),
	}).Error
}

func (r *GormMatchLogRepository) EndMatch(ctx context.Context, matchID, result string) error {
	now := r.clock.Now()
	return r.db.WithContext(ctx).
		Model(&MatchModel{}).
		Where("id = ?", matchID).
		Updates(map[string]interface{}{"ended_at": now, "result": result}).Error
}

// Log writes entries with time-windowed deduplication. Entries without a
// timestamp are stamped with the repository clock.
func (r *GormMatchLogRepository) Log(ctx context.Context, entries ...MatchLogEntry) error {
	models := make([]MatchLogModel, 0, len(entries))
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			e.Timestamp = r.clock.Now()
		}
		metadata := marshalMetadata(e.Metadata)
		if r.duplicate(e, metadata) {
			continue
		}
		models = append(models, MatchLogModel{
			MatchID:   e.MatchID,
			Frame:     e.Frame,
			Timestamp: e.Timestamp,
			Level:     e.Level,
			Message:   e.Message,
			Metadata:  metadata,
		})
	}
	if len(models) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(models, 100).Error
}

// duplicate reports whether the same message with the same metadata was
// logged for the match within the dedup window, recording it otherwise.
// Decision messages are constant, so the metadata tells them apart.
func (r *GormMatchLogRepository) duplicate(e MatchLogEntry, metadata string) bool {
	if r.dedupWindow <= 0 {
		return false
	}
	cacheKey := e.MatchID + "|" + e.Message + "|" + metadata

	r.dedupMu.Lock()
	defer r.dedupMu.Unlock()

	if last, exists := r.dedupCache[cacheKey]; exists && e.Timestamp.Sub(last) < r.dedupWindow {
		return true
	}
	if len(r.dedupCache) >= r.dedupMaxSize {
		r.cleanupDedupCache(e.Timestamp)
	}
	r.dedupCache[cacheKey] = e.Timestamp
	return false
}

// cleanupDedupCache removes old entries from the deduplication cache
// Must be called while holding dedupMu lock
func (r *GormMatchLogRepository) cleanupDedupCache(now time.Time) {
	cutoff := now.Add(-r.dedupWindow)
	for key, timestamp := range r.dedupCache {
		if timestamp.Before(cutoff) {
			delete(r.dedupCache, key)
		}
	}
}

func (r *GormMatchLogRepository) GetLogs(ctx context.Context, matchID string, limit int, level *string) ([]MatchLogEntry, error) {
	var models []MatchLogModel

	query := r.db.WithContext(ctx).Where("match_id = ?", matchID)
	if level != nil {
		query = query.Where("level = ?", *level)
	}
	query = query.Order("frame DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entries := make([]MatchLogEntry, len(models))
	for i, model := range models {
		entries[i] = MatchLogEntry{
			ID:        model.ID,
			MatchID:   model.MatchID,
			Frame:     model.Frame,
			Timestamp: model.Timestamp,
			Level:     model.Level,
			Message:   model.Message,
			Metadata:  unmarshalMetadata(model.Metadata),
		}
	}
	return entries, nil
}

func (r *GormMatchLogRepository) ListMatches(ctx context.Context, limit int) ([]MatchModel, error) {
	var matches []MatchModel
	query := r.db.WithContext(ctx).Order("started_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func marshalMetadata(metadata map[string]interface{}) string {
	if len(metadata) == 0 {
		return ""
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		// metadata is optional
		return ""
	}
	return string(b)
}

func unmarshalMetadata(raw string) map[string]interface{} {
	if raw == "" {
		return nil
	}
	var metadata map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &metadata); err != nil {
		return nil
	}
	return metadata
}
