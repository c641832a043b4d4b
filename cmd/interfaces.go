package cmd

import (
	"context"
	"time"

	"github.com/anicoll/traci-dashboard/internal/pkg/history"
	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// HistoryService is what the commands and the scheduler expect from the
// history service.
type HistoryService interface {
	Refresh(ctx context.Context) (history.Result, error)
	History(ctx context.Context) (model.Records, error)
}

// Archive is the optional long-term store behind the archive endpoint and
// its cleanup job.
type Archive interface {
	GetReadings(ctx context.Context, from, to time.Time) (model.Records, error)
	Cleanup(ctx context.Context, before time.Time) error
}
