package database

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Cleanup removes archived readings older than before.
func (db *Database) Cleanup(ctx context.Context, before time.Time) error {
	tag, err := db.pool.Exec(ctx, "DELETE FROM sensor_reading WHERE time_stamp < $1", before)
	if err != nil {
		return err
	}
	db.logger.Info("cleaned up archive", zap.Int64("deleted", tag.RowsAffected()), zap.Time("before", before))
	return nil
}
