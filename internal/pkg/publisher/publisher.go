package publisher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

var errAlreadyRegistered = errors.New("publisher already registered")

type publisher interface {
	// Write delivers newly stored records to the adapter.
	Write(ctx context.Context, records model.Records) error
}

// Registry fans records out to every registered publisher. A failing
// publisher does not stop the others.
type Registry struct {
	mu         sync.RWMutex
	publishers map[string]publisher
	timeout    time.Duration
	logger     *zap.Logger
}

func New(timeout time.Duration) *Registry {
	return &Registry{
		publishers: make(map[string]publisher),
		timeout:    timeout,
		logger:     zap.L(),
	}
}

func (r *Registry) RegisterPublisher(name string, p publisher) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.publishers[name]; ok {
		return fmt.Errorf("%s: %w", name, errAlreadyRegistered)
	}
	r.publishers[name] = p
	return nil
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.publishers))
	for name := range r.publishers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Publish writes records to every publisher and returns the joined errors of
// the ones that failed.
func (r *Registry) Publish(ctx context.Context, records model.Records) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var errs []error
	for name, p := range r.publishers {
		if err := r.write(ctx, p, records); err != nil {
			r.logger.Error("failed to publish records", zap.Error(err), zap.String("publisher", name))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		r.logger.Debug("published records", zap.Int("count", len(records)), zap.String("publisher", name))
	}
	return errors.Join(errs...)
}

func (r *Registry) write(ctx context.Context, p publisher, records model.Records) error {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	return p.Write(ctx, records)
}
