package services

import (
	"context"
	"sort"
	"time"

	"github.com/anonto42/newsfeed/backend/internal/apperrors"
	"github.com/anonto42/newsfeed/backend/internal/models"
	"github.com/anonto42/newsfeed/backend/internal/repositories"
	"github.com/anonto42/newsfeed/backend/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const (
	defaultTrendingWindowHours = 24
	defaultTrendingLimit       = 10
	maxTrendingLimit           = 100
)

// TrendingEntry is a ranked content item with its score
type TrendingEntry struct {
	models.ContentItem
	Score int `json:"score"`
}

// Score is the engagement score of an item: likes plus shares. Kinds without a
// shares set contribute zero shares.
func Score(item models.ContentItem) int {
	return item.Likes.Count() + item.Shares.Count()
}

// Rank keeps the items created within window before now and orders them by score
// descending. Equal scores put the newer item first, then the smaller id.
func Rank(items []models.ContentItem, now time.Time, window time.Duration) []TrendingEntry {
	cutoff := now.Add(-window)
	ranked := make([]TrendingEntry, 0, len(items))
	for _, item := range items {
		if item.CreatedAt.Before(cutoff) {
			continue
		}
		ranked = append(ranked, TrendingEntry{ContentItem: item, Score: Score(item)})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.Hex() < b.ID.Hex()
	})
	return ranked
}

// TrendingService ranks recent content by engagement
type TrendingService struct {
	content repositories.ContentRepository
	cache   repositories.TrendingCache
	ttl     time.Duration
	now     func() time.Time
	log     *zap.Logger
	metrics *telemetry.Metrics
}

// NewTrendingService creates a TrendingService. cache may be nil to disable caching.
func NewTrendingService(content repositories.ContentRepository, cache repositories.TrendingCache, ttl time.Duration, log *zap.Logger, metrics *telemetry.Metrics) *TrendingService {
	return &TrendingService{
		content: content,
		cache:   cache,
		ttl:     ttl,
		now:     time.Now,
		log:     log.Named("trending"),
		metrics: metrics,
	}
}

// Trending returns the top items of kind created in the last windowHours hours.
// An empty kind ranks every kind together. The whole window is loaded into memory.
func (s *TrendingService) Trending(ctx context.Context, kind models.ContentKind, windowHours, limit int) ([]TrendingEntry, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "TrendingService.Trending")
	defer span.End()

	if kind != "" && !kind.Valid() {
		return nil, apperrors.BadRequest("unknown content type")
	}
	if windowHours <= 0 {
		windowHours = defaultTrendingWindowHours
	}
	if limit <= 0 {
		limit = defaultTrendingLimit
	}
	if limit > maxTrendingLimit {
		limit = maxTrendingLimit
	}
	span.SetAttributes(
		attribute.String("content.kind", string(kind)),
		attribute.Int("trending.window_hours", windowHours),
		attribute.Int("trending.limit", limit),
	)

	key := repositories.TrendingKey(kind, windowHours, limit)
	if cached, ok := s.fromCache(ctx, key); ok {
		return cached, nil
	}

	kinds := models.ContentKinds
	if kind != "" {
		kinds = []models.ContentKind{kind}
	}

	now := s.now()
	window := time.Duration(windowHours) * time.Hour
	var candidates []models.ContentItem
	for _, k := range kinds {
		items, err := s.content.ListCreatedSince(ctx, k, now.Add(-window))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, items...)
	}

	ranked := Rank(candidates, now, window)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	s.toCache(ctx, key, ranked)
	return ranked, nil
}

// fromCache reads a cached ranking. Any cache failure is treated as a miss.
func (s *TrendingService) fromCache(ctx context.Context, key string) ([]TrendingEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	items, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.TrendingCache.WithLabelValues("error").Inc()
		s.log.Warn("trending cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		s.metrics.TrendingCache.WithLabelValues("miss").Inc()
		return nil, false
	}
	s.metrics.TrendingCache.WithLabelValues("hit").Inc()

	entries := make([]TrendingEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, TrendingEntry{ContentItem: item, Score: Score(item)})
	}
	return entries, true
}

func (s *TrendingService) toCache(ctx context.Context, key string, entries []TrendingEntry) {
	if s.cache == nil || s.ttl <= 0 {
		return
	}
	items := make([]models.ContentItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.ContentItem)
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		s.metrics.TrendingCache.WithLabelValues("error").Inc()
		s.log.Warn("trending cache write failed", zap.String("key", key), zap.Error(err))
	}
}
