package database

import (
	"context"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// Write archives records. Readings already archived are left as they are.
func (db *Database) Write(ctx context.Context, records model.Records) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, r := range records {
		if _, err := tx.Exec(ctx, `
			INSERT INTO sensor_reading (time_stamp, temperature, humidity, oxygen)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (time_stamp) DO NOTHING
		`, r.Timestamp, r.Temperature, r.Humidity, r.Oxygen); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}
