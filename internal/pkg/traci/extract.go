package traci

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

type Extractor struct {
	policy FieldPolicy
	loc    *time.Location
	logger *zap.Logger
}

func NewExtractor(policy FieldPolicy, loc *time.Location) *Extractor {
	if loc == nil {
		loc = time.Local
	}
	return &Extractor{
		policy: policy,
		loc:    loc,
		logger: zap.L(),
	}
}

// Extract converts every table row of markup into a record, in document
// order. Rows that are too short or carry an unreadable timestamp are
// skipped; bad numeric cells are handled according to the field policy.
func (e *Extractor) Extract(markup string) (model.Records, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse listing markup: %w", err)
	}

	records := model.Records{}
	skipped := 0
	for i, cells := range tableRows(doc) {
		row, ok := readRow(cells)
		if !ok {
			continue
		}
		record, err := e.record(row)
		if err != nil {
			var fieldErr *FieldParseError
			if errors.As(err, &fieldErr) && e.policy == Abort {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			skipped++
			e.logger.Debug("skipping row", zap.Int("row", i), zap.Error(err))
			continue
		}
		records = append(records, record)
	}

	e.logger.Debug("extracted records", zap.Int("count", len(records)), zap.Int("skipped", skipped))
	return records, nil
}

func (e *Extractor) record(row rawRow) (model.Record, error) {
	ts, err := time.ParseInLocation(timestampLayout, row.timestamp(), e.loc)
	if err != nil {
		return model.Record{}, &RowParseError{Value: row.timestamp(), Err: err}
	}

	record := model.Record{Timestamp: ts}
	fields := []struct {
		field model.Field
		value string
		dst   **float64
	}{
		{model.Temperature, row.temperature, &record.Temperature},
		{model.Humidity, row.humidity, &record.Humidity},
		{model.Oxygen, row.oxygen, &record.Oxygen},
	}
	for _, f := range fields {
		v, err := parseReading(f.value)
		if err != nil {
			fieldErr := &FieldParseError{Field: f.field, Value: f.value, Err: err}
			if e.policy != DropField {
				return model.Record{}, fieldErr
			}
			e.logger.Debug("dropping field", zap.Time("timestamp", ts), zap.Error(fieldErr))
			continue
		}
		*f.dst = v
	}
	return record, nil
}

// parseReading returns nil for a blank cell. NaN and infinities are
// rejected: they are not readings and cannot be encoded as JSON.
func parseReading(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, ErrNotFinite
	}
	return &v, nil
}

// tableRows yields the trimmed td texts of every tr element, numbered in
// document order.
func tableRows(doc *html.Node) iter.Seq2[int, []string] {
	return func(yield func(int, []string) bool) {
		i := 0
		for n := range doc.Descendants() {
			if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
				continue
			}
			if !yield(i, rowCells(n)) {
				return
			}
			i++
		}
	}
}

func rowCells(tr *html.Node) []string {
	cells := []string{}
	for n := range tr.Descendants() {
		if n.Type == html.ElementNode && n.DataAtom == atom.Td {
			cells = append(cells, strings.TrimSpace(nodeText(n)))
		}
	}
	return cells
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode && !inScript(d) {
			sb.WriteString(d.Data)
		}
	}
	return sb.String()
}

func inScript(n *html.Node) bool {
	p := n.Parent
	return p != nil && p.Type == html.ElementNode && (p.DataAtom == atom.Script || p.DataAtom == atom.Style)
}
