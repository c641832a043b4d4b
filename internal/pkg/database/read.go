package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// GetReadings returns archived readings in [from, to], oldest first.
func (db *Database) GetReadings(ctx context.Context, from, to time.Time) (model.Records, error) {
	const query = `
	SELECT time_stamp, temperature, humidity, oxygen
	FROM sensor_reading
	WHERE time_stamp BETWEEN $1 AND $2
	ORDER BY time_stamp ASC;
	`

	rows, err := db.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanReadings(rows)
}

func scanReadings(rows pgx.Rows) (model.Records, error) {
	records := model.Records{}
	for rows.Next() {
		var r model.Record
		if err := rows.Scan(&r.Timestamp, &r.Temperature, &r.Humidity, &r.Oxygen); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
