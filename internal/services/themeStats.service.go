package services

import (
	"context"

	"roomlog/internal/constants"
	"roomlog/internal/database"
	"roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type ReviewAggregator interface {
	AggregateByTheme(ctx context.Context, tx *gorm.DB) ([]models.ThemeStats, error)
	AggregateForTheme(ctx context.Context, tx *gorm.DB, themeID int) (models.ThemeStats, error)
}

// ThemeStatsService keeps per-theme review counts and average ratings in the general
// cache. Without a cache every read is computed from the reviews table.
type ThemeStatsService struct {
	db      *gorm.DB
	cache   database.CacheClient
	reviews ReviewAggregator
	log     logger.Logger
}

func NewThemeStatsService(db database.DB, reviews ReviewAggregator) *ThemeStatsService {
	return &ThemeStatsService{
		db:      db.SQL,
		cache:   db.Cache.General,
		reviews: reviews,
		log:     logger.New("themeStatsService"),
	}
}

// Refresh recomputes statistics for every reviewed theme and returns how many were written.
func (s *ThemeStatsService) Refresh(ctx context.Context) (int, error) {
	log := s.log.TraceFromContext(ctx).Function("Refresh")

	stats, err := s.reviews.AggregateByTheme(ctx, s.db)
	if err != nil {
		return 0, log.Err("failed to aggregate reviews", err)
	}

	if s.cache == nil {
		log.Warn("No cache configured, skipping theme stats refresh", "themes", len(stats))
		return 0, nil
	}

	written := 0
	for _, stat := range stats {
		if err := s.store(ctx, stat); err != nil {
			log.Warn("failed to cache theme stats", "themeID", stat.ThemeID, "error", err)
			continue
		}
		written++
	}

	log.Info("Theme stats refreshed", "themes", len(stats), "written", written)
	return written, nil
}

// Get returns cached statistics, falling back to a live aggregate on a miss.
func (s *ThemeStatsService) Get(ctx context.Context, themeID int) (models.ThemeStats, error) {
	log := s.log.TraceFromContext(ctx).Function("Get")

	if s.cache != nil {
		var cached models.ThemeStats
		found, err := database.NewCacheBuilder(s.cache, themeID).
			WithContext(ctx).
			WithHash(constants.ThemeStatsCachePrefix).
			Get(&cached)
		if err != nil {
			log.Warn("failed to read theme stats from cache", "themeID", themeID, "error", err)
		}
		if found {
			return cached, nil
		}
	}

	stats, err := s.reviews.AggregateForTheme(ctx, s.db, themeID)
	if err != nil {
		return models.ThemeStats{}, log.Err("failed to aggregate theme reviews", err, "themeID", themeID)
	}

	if s.cache != nil {
		if err := s.store(ctx, stats); err != nil {
			log.Warn("failed to cache theme stats", "themeID", themeID, "error", err)
		}
	}

	return stats, nil
}

// Invalidate drops a theme's cached statistics after its reviews change.
func (s *ThemeStatsService) Invalidate(ctx context.Context, themeID int) {
	if s.cache == nil {
		return
	}

	err := database.NewCacheBuilder(s.cache, themeID).
		WithContext(ctx).
		WithHash(constants.ThemeStatsCachePrefix).
		Delete()
	if err != nil {
		s.log.Function("Invalidate").Warn("failed to invalidate theme stats", "themeID", themeID, "error", err)
	}
}

func (s *ThemeStatsService) store(ctx context.Context, stats models.ThemeStats) error {
	return database.NewCacheBuilder(s.cache, stats.ThemeID).
		WithContext(ctx).
		WithHash(constants.ThemeStatsCachePrefix).
		WithStruct(stats).
		WithTTL(constants.ThemeStatsCacheExpiry).
		Set()
}
