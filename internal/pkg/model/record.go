package model

import "time"

// Record is a single timestamped reading scraped from the listing page.
// A nil value means the source cell was blank.
type Record struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature *float64  `json:"temperature"`
	Humidity    *float64  `json:"humidity"`
	Oxygen      *float64  `json:"oxygen"`
}

type Records []Record

// Key identifies a record for deduplication. Two records share a key when
// their timestamps are the same instant.
func (r Record) Key() int64 {
	return r.Timestamp.UnixNano()
}

// Latest returns the record with the greatest timestamp.
func (rs Records) Latest() (Record, bool) {
	if len(rs) == 0 {
		return Record{}, false
	}
	latest := rs[0]
	for _, r := range rs[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return latest, true
}

// Tail returns the last n records in arrival order.
func (rs Records) Tail(n int) Records {
	if n <= 0 {
		return Records{}
	}
	if len(rs) <= n {
		return rs
	}
	return rs[len(rs)-n:]
}
