package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
)

type fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

type extractor interface {
	Extract(markup string) (model.Records, error)
}

type publisher interface {
	Publish(ctx context.Context, records model.Records) error
}

type Service struct {
	fetcher   fetcher
	extractor extractor
	store     store.Store
	publisher publisher
	retention time.Duration
	clock     clockwork.Clock
	logger    *zap.Logger

	// serialises the Load -> Replace window of concurrent refreshes.
	mu sync.Mutex
}

type Option func(*Service)

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithPublisher hands every newly stored record to p after each refresh.
func WithPublisher(p publisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func New(f fetcher, e extractor, st store.Store, retention time.Duration, opts ...Option) *Service {
	s := &Service{
		fetcher:   f,
		extractor: e,
		store:     st,
		retention: retention,
		clock:     clockwork.NewRealClock(),
		logger:    zap.L(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Result summarises one refresh.
type Result struct {
	Extracted int `json:"extracted"`
	Added     int `json:"added"`
	Expired   int `json:"expired"`
	Total     int `json:"total"`
}

// Refresh fetches the listing, merges its rows into the history and trims
// the history to the retention window. A failed fetch or extraction leaves
// the history untouched.
func (s *Service) Refresh(ctx context.Context) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	markup, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	incoming, err := s.extractor.Extract(markup)
	if err != nil {
		return Result{}, fmt.Errorf("extract records: %w", err)
	}

	if err := s.store.Ensure(ctx); err != nil {
		return Result{}, fmt.Errorf("create history: %w", err)
	}
	existing, err := s.store.Load(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("load history: %w", err)
	}

	cutoff := Cutoff(s.clock.Now(), s.retention)
	merged := Merge(existing, incoming, cutoff)
	if err := s.store.Replace(ctx, merged); err != nil {
		return Result{}, fmt.Errorf("write history: %w", err)
	}

	known := lo.KeyBy(existing, model.Record.Key)
	added := lo.Filter(merged, func(r model.Record, _ int) bool {
		_, ok := known[r.Key()]
		return !ok
	})
	res := Result{
		Extracted: len(incoming),
		Added:     len(added),
		Expired:   len(existing) - (len(merged) - len(added)),
		Total:     len(merged),
	}
	s.logger.Info("history refreshed",
		zap.Int("extracted", res.Extracted),
		zap.Int("added", res.Added),
		zap.Int("expired", res.Expired),
		zap.Int("total", res.Total),
		zap.Time("cutoff", cutoff),
	)

	if s.publisher != nil && len(added) > 0 {
		if err := s.publisher.Publish(ctx, added); err != nil {
			s.logger.Error("failed to publish new records", zap.Error(err))
		}
	}
	return res, nil
}

// History returns the stored records as they are on disk now.
func (s *Service) History(ctx context.Context) (model.Records, error) {
	return s.store.Load(ctx)
}
