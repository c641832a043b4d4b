package store

import (
	"context"
	"fmt"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// Store holds the persisted history as a whole: it is read in full and
// rewritten in full. Nothing ties a Load to the following Replace, so two
// writers interleaving Load -> Replace lose updates (last writer wins).
// Callers that refresh concurrently must hold their own lock across that
// window.
type Store interface {
	// Ensure creates an empty history if none exists yet.
	Ensure(ctx context.Context) error
	// Load returns every record in arrival order. A missing history is empty.
	Load(ctx context.Context) (model.Records, error)
	// Replace overwrites the history with records.
	Replace(ctx context.Context, records model.Records) error
}

// CorruptError is returned when an existing history cannot be read back.
type CorruptError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("history %s is corrupt at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("history %s is corrupt: %v", e.Path, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}
