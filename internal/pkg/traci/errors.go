package traci

import (
	"errors"
	"fmt"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotFinite        = errors.New("not a finite number")
)

// FetchError is returned for any failed GET of the listing page: transport
// failures, timeouts and non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RowParseError means the date and hour cells did not form a timestamp.
type RowParseError struct {
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: %v", e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error {
	return e.Err
}

// FieldParseError means a populated numeric cell was not a number.
type FieldParseError struct {
	Field model.Field
	Value string
	Err   error
}

func (e *FieldParseError) Error() string {
	return fmt.Sprintf("invalid %s value %q: %v", e.Field, e.Value, e.Err)
}

func (e *FieldParseError) Unwrap() error {
	return e.Err
}
