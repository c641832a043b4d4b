package history

import (
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// Merge appends incoming to existing, keeps the first record seen for each
// timestamp and drops every record older than cutoff. Arrival order is kept.
func Merge(existing, incoming model.Records, cutoff time.Time) model.Records {
	unique := lo.UniqBy(slices.Concat(existing, incoming), model.Record.Key)
	return lo.Filter(unique, func(r model.Record, _ int) bool {
		return !r.Timestamp.Before(cutoff)
	})
}

// Cutoff is the oldest timestamp still inside the retention window.
func Cutoff(now time.Time, retention time.Duration) time.Time {
	return now.Add(-retention)
}
