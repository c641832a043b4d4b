package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

const (
	// TimestampLayout is ISO-8601 at second precision without a zone.
	TimestampLayout = "2006-01-02T15:04:05"
	// files written by the previous dashboard use a space separator.
	legacyTimestampLayout = "2006-01-02 15:04:05"
)

var Header = []string{"timestamp", "temperature", "humidity", "oxygen"}

var errHeader = errors.New("unexpected header")

var _ Store = (*CSVFile)(nil)

type CSVFile struct {
	path   string
	loc    *time.Location
	logger *zap.Logger
}

// NewCSVFile returns a store backed by the CSV file at path. Timestamps carry
// no zone on disk and are read back in loc.
func NewCSVFile(path string, loc *time.Location) *CSVFile {
	if loc == nil {
		loc = time.Local
	}
	return &CSVFile{
		path:   path,
		loc:    loc,
		logger: zap.L(),
	}
}

func (f *CSVFile) Path() string {
	return f.path
}

func (f *CSVFile) Ensure(ctx context.Context) error {
	if _, err := os.Stat(f.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	f.logger.Info("creating history file", zap.String("path", f.path))
	return f.Replace(ctx, model.Records{})
}

func (f *CSVFile) Load(ctx context.Context) (model.Records, error) {
	file, err := os.Open(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.Records{}, nil
	}
	if err != nil {
		return nil, &CorruptError{Path: f.path, Err: err}
	}
	defer file.Close()

	records, err := f.decode(file)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("loaded history", zap.String("path", f.path), zap.Int("count", len(records)))
	return records, nil
}

func (f *CSVFile) decode(r io.Reader) (model.Records, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)
	reader.ReuseRecord = true

	line := 1
	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// an empty file is what a crash between create and first write leaves.
		return model.Records{}, nil
	}
	if err != nil {
		return nil, f.corrupt(line, err)
	}
	if !slices.Equal(header, Header) {
		return nil, f.corrupt(line, fmt.Errorf("%w %v", errHeader, header))
	}

	records := model.Records{}
	for {
		line++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, f.corrupt(line, err)
		}
		record, err := f.parseRow(row)
		if err != nil {
			return nil, f.corrupt(line, err)
		}
		records = append(records, record)
	}
	return records, nil
}

func (f *CSVFile) corrupt(line int, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		line = parseErr.Line
	}
	return &CorruptError{Path: f.path, Line: line, Err: err}
}

func (f *CSVFile) parseRow(row []string) (model.Record, error) {
	ts, err := time.ParseInLocation(TimestampLayout, row[0], f.loc)
	if err != nil {
		var legacyErr error
		if ts, legacyErr = time.ParseInLocation(legacyTimestampLayout, row[0], f.loc); legacyErr != nil {
			return model.Record{}, fmt.Errorf("timestamp: %w", err)
		}
	}

	record := model.Record{Timestamp: ts}
	for i, dst := range []**float64{&record.Temperature, &record.Humidity, &record.Oxygen} {
		if row[i+1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(row[i+1], 64)
		if err != nil {
			return model.Record{}, fmt.Errorf("%s: %w", Header[i+1], err)
		}
		// pandas writes missing readings as NaN in some versions.
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		*dst = &v
	}
	return record, nil
}

// Replace writes to a temporary file next to the history and renames it over
// the old one, so readers never see a half-written file.
func (f *CSVFile) Replace(ctx context.Context, records model.Records) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := f.encode(tmp, records); err != nil {
		tmp.Close()
		return fmt.Errorf("write history: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return err
	}
	f.logger.Debug("wrote history", zap.String("path", f.path), zap.Int("count", len(records)))
	return nil
}

func (f *CSVFile) encode(w io.Writer, records model.Records) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Timestamp.In(f.loc).Format(TimestampLayout),
			formatReading(r.Temperature),
			formatReading(r.Humidity),
			formatReading(r.Oxygen),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatReading(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
