package goals

import (
	"context"
	"time"

	"github.com/clinicasonrisa/dashboard-api/pkg/logging"
)

// Service computes goal progress for the current half-year, with an
// optional cache in front of the aggregate query.
type Service struct {
	counter CompletedCounter
	cache   *Cache
	logger  *logging.Logger
	now     func() time.Time
}

// NewService constructs a goals service. cache may be nil.
func NewService(counter CompletedCounter, cache *Cache, logger *logging.Logger) *Service {
	if counter == nil {
		panic("goals: completed counter required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		counter: counter,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Compute returns the goal list for the current period. Identical calls
// with no intervening completions yield identical output.
func (s *Service) Compute(ctx context.Context) ([]Goal, error) {
	now := s.now()
	period := PeriodLabel(now)

	if cached, ok := s.cache.Get(ctx, period); ok {
		return cached, nil
	}

	counts, err := s.counter.CountCompletedByType(ctx, PeriodStart(now))
	if err != nil {
		return nil, err
	}
	goalList := Compute(counts)

	if err := s.cache.Set(ctx, period, goalList); err != nil {
		// Cache trouble never blocks the dashboard.
		s.logger.Warn("goals cache write failed", "error", err)
	}
	return goalList, nil
}

// InvalidateCurrent drops the cached aggregate for the current period.
// Wired as the scheduler's completion listener.
func (s *Service) InvalidateCurrent(ctx context.Context) {
	s.cache.Invalidate(ctx, PeriodLabel(s.now()))
}
