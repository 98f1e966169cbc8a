package insights

import (
	"context"
	"encoding/json"

	"github.com/shoplens/insights-backend/internal/metrics"
	"github.com/shoplens/insights-backend/pkg/redis"
)

// Summary computes the full metric summary for the query. When Redis is
// configured the serialized summary is cached per (fingerprint, status), so
// repeated dashboard loads skip the computation until the data changes or
// the TTL lapses.
func (s *Service) Summary(ctx context.Context, q Query) (metrics.Summary, error) {
	df, prepared, err := s.view(ctx, q)
	if err != nil {
		return metrics.Summary{}, err
	}

	status := q.Status
	if status == "" {
		status = s.cfg.Data.StatusFilter
	}
	cacheable := s.cache != nil && q.Bounds.IsZero()
	var key string
	if cacheable {
		key = s.cache.SummaryKey(prepared.Fingerprint, status)
		if cached, ok := s.cachedSummary(ctx, key); ok {
			return cached, nil
		}
	}

	summary, groupErr := s.summary.Summarize(ctx, df)
	summary.Warnings = append(append([]string(nil), prepared.Warnings...), summary.Warnings...)
	if groupErr != nil && s.logg != nil {
		// Partial failures ride along as warnings; the summary still serves.
		s.logg.Warn(ctx, "summary computed with degraded metric groups")
	}

	if cacheable && groupErr == nil {
		s.storeSummary(ctx, key, summary)
	}
	return summary, nil
}

func (s *Service) cachedSummary(ctx context.Context, key string) (metrics.Summary, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "key", key), "summary cache read failed")
		}
		return metrics.Summary{}, false
	}
	var summary metrics.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "key", key), "summary cache entry corrupt, recomputing")
		}
		return metrics.Summary{}, false
	}
	return summary, true
}

func (s *Service) storeSummary(ctx context.Context, key string, summary metrics.Summary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cfg.Cache.SummaryTTL); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "key", key), "summary cache write failed")
	}
}
