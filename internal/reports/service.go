package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kevtech-systems/maziwa/internal/observability"
	"github.com/kevtech-systems/maziwa/internal/platform/httpx"
)

// Service builds reports with a short-lived cache in front of the builder.
// Report queries scan whole ledgers; the cache absorbs the owner refreshing a
// dashboard, not long-term storage, so staleness is bounded by the TTL.
type Service struct {
	builder *Builder
	cache   *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
	logger  *slog.Logger
}

// ServiceConfig collects the service dependencies. Cache is optional; without
// it every request hits the database.
type ServiceConfig struct {
	Builder  *Builder
	Cache    *redis.Client
	CacheTTL time.Duration
	Metrics  *observability.Metrics
	Logger   *slog.Logger
}

// NewService constructs the service.
func NewService(cfg ServiceConfig) *Service {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		builder: cfg.Builder,
		cache:   cfg.Cache,
		ttl:     ttl,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

func cacheKey(companyID int64, typ Type, filter TimeFilter) string {
	return fmt.Sprintf("reports:%d:%s:%s", companyID, typ, filter)
}

// Build returns the report for one company, serving from cache when a fresh
// copy exists. An empty row set is httpx.ErrNoData so handlers can tell "no
// matching records" apart from an unknown route.
func (s *Service) Build(ctx context.Context, companyID int64, typ Type, filter TimeFilter) (*Report, error) {
	key := cacheKey(companyID, typ, filter)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	started := time.Now()
	rep, err := s.builder.Build(ctx, companyID, typ, filter)
	if err != nil {
		return nil, err
	}
	if len(rep.Rows) == 0 {
		return nil, fmt.Errorf("%w: %s report", httpx.ErrNoData, typ)
	}
	s.metrics.ObserveReportRender(string(typ), "build", time.Since(started))

	s.store(ctx, key, rep)
	return rep, nil
}

// fromCache is best effort: a cache failure logs and falls through to the
// database.
func (s *Service) fromCache(ctx context.Context, key string) *Report {
	if s.cache == nil {
		return nil
	}
	payload, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read", slog.String("key", key), slog.Any("error", err))
		}
		return nil
	}
	var rep Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		s.logger.Warn("report cache decode", slog.String("key", key), slog.Any("error", err))
		return nil
	}
	return &rep
}

func (s *Service) store(ctx context.Context, key string, rep *Report) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		s.logger.Warn("report cache encode", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.ttl).Err(); err != nil {
		s.logger.Warn("report cache write", slog.String("key", key), slog.Any("error", err))
	}
}
