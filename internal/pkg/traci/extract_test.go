package traci

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

// listingRow builds a tr with 24 cells holding the given values at the
// positions the listing page uses.
func listingRow(hour, date, temp, humid, oxy string) string {
	cells := make([]string, minColumns)
	cells[hourColumn] = hour
	cells[dateColumn] = date
	cells[temperatureColumn] = temp
	cells[humidityColumn] = humid
	cells[oxygenColumn] = oxy
	var sb strings.Builder
	sb.WriteString("<tr>")
	for _, c := range cells {
		fmt.Fprintf(&sb, "<td>%s</td>", c)
	}
	sb.WriteString("</tr>")
	return sb.String()
}

func listing(rows ...string) string {
	return "<html><body><table>" + strings.Join(rows, "") + "</table></body></html>"
}

func TestExtract_WellFormedRow(t *testing.T) {
	e := NewExtractor(SkipRow, time.UTC)

	records, err := e.Extract(listing(listingRow("120000", "150125", "22.5", "45.0", "98.1")))
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC), records[0].Timestamp)
	assert.Equal(t, lo.ToPtr(22.5), records[0].Temperature)
	assert.Equal(t, lo.ToPtr(45.0), records[0].Humidity)
	assert.Equal(t, lo.ToPtr(98.1), records[0].Oxygen)
}

func TestExtract_SkipsShortRows(t *testing.T) {
	e := NewExtractor(SkipRow, time.UTC)
	short := "<tr>" + strings.Repeat("<td>150125</td>", minColumns-1) + "</tr>"

	records, err := e.Extract(listing(
		"<tr><th>heure</th><th>date</th></tr>",
		short,
	))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtract_BadTimestampContinues(t *testing.T) {
	tests := map[string]struct {
		hour string
		date string
	}{
		"letters":        {hour: "12h000", date: "150125"},
		"empty":          {hour: "", date: ""},
		"separators":     {hour: "12:00:00", date: "15/01/25"},
		"month overflow": {hour: "120000", date: "151325"},
		"day overflow":   {hour: "120000", date: "300225"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e := NewExtractor(SkipRow, time.UTC)
			records, err := e.Extract(listing(
				listingRow(tt.hour, tt.date, "1", "2", "3"),
				listingRow("130000", "150125", "4", "5", "6"),
			))
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, time.Date(2025, time.January, 15, 13, 0, 0, 0, time.UTC), records[0].Timestamp)
			assert.Equal(t, lo.ToPtr(4.0), records[0].Temperature)
		})
	}
}

func TestExtract_BlankCellsAreAbsent(t *testing.T) {
	e := NewExtractor(SkipRow, time.UTC)

	records, err := e.Extract(listing(listingRow("120000", "150125", "", "  45.0 ", "&nbsp;")))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Temperature)
	assert.Equal(t, lo.ToPtr(45.0), records[0].Humidity)
	assert.Nil(t, records[0].Oxygen)
}

func TestExtract_KeepsDocumentOrder(t *testing.T) {
	e := NewExtractor(SkipRow, time.UTC)

	records, err := e.Extract(listing(
		listingRow("140000", "150125", "3", "", ""),
		listingRow("120000", "150125", "1", "", ""),
		listingRow("130000", "150125", "2", "", ""),
	))
	require.NoError(t, err)
	hours := lo.Map(records, func(r model.Record, _ int) int { return r.Timestamp.Hour() })
	assert.Equal(t, []int{14, 12, 13}, hours)
}

func TestExtract_CellTextIncludesNestedMarkup(t *testing.T) {
	e := NewExtractor(SkipRow, time.UTC)
	row := listingRow("<b>120000</b>", "<span> 150125 </span>", "<font color=red>22.5</font>", "45", "98")

	records, err := e.Extract(listing(row))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, lo.ToPtr(22.5), records[0].Temperature)
}

func TestExtract_UsesLocation(t *testing.T) {
	tunis := time.FixedZone("CET", 3600)
	e := NewExtractor(SkipRow, tunis)

	records, err := e.Extract(listing(listingRow("120000", "150125", "1", "2", "3")))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, time.Date(2025, time.January, 15, 11, 0, 0, 0, time.UTC), records[0].Timestamp.UTC())
}

func TestExtract_FieldPolicy(t *testing.T) {
	markup := listing(
		listingRow("110000", "150125", "20", "40", "90"),
		listingRow("120000", "150125", "n/a", "45", "98"),
		listingRow("130000", "150125", "21", "41", "91"),
	)

	t.Run("skip row", func(t *testing.T) {
		records, err := NewExtractor(SkipRow, time.UTC).Extract(markup)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, 11, records[0].Timestamp.Hour())
		assert.Equal(t, 13, records[1].Timestamp.Hour())
	})

	t.Run("drop field", func(t *testing.T) {
		records, err := NewExtractor(DropField, time.UTC).Extract(markup)
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Nil(t, records[1].Temperature)
		assert.Equal(t, lo.ToPtr(45.0), records[1].Humidity)
		assert.Equal(t, lo.ToPtr(98.0), records[1].Oxygen)
	})

	t.Run("abort", func(t *testing.T) {
		records, err := NewExtractor(Abort, time.UTC).Extract(markup)
		assert.Nil(t, records)
		var fieldErr *FieldParseError
		require.ErrorAs(t, err, &fieldErr)
		assert.Equal(t, model.Temperature, fieldErr.Field)
		assert.Equal(t, "n/a", fieldErr.Value)
	})

	t.Run("abort still skips bad timestamps", func(t *testing.T) {
		records, err := NewExtractor(Abort, time.UTC).Extract(listing(
			listingRow("xx", "150125", "n/a", "", ""),
			listingRow("130000", "150125", "21", "41", "91"),
		))
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})
}

func TestExtract_NonFiniteReadings(t *testing.T) {
	for _, value := range []string{"nan", "NaN", "inf", "-Inf", "Infinity"} {
		t.Run(value, func(t *testing.T) {
			markup := listing(
				listingRow("120000", "150125", value, "45", "98"),
				listingRow("130000", "150125", "21", "41", "91"),
			)

			records, err := NewExtractor(SkipRow, time.UTC).Extract(markup)
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, 13, records[0].Timestamp.Hour())

			records, err = NewExtractor(DropField, time.UTC).Extract(markup)
			require.NoError(t, err)
			require.Len(t, records, 2)
			assert.Nil(t, records[0].Temperature)
			assert.Equal(t, lo.ToPtr(45.0), records[0].Humidity)

			_, err = NewExtractor(Abort, time.UTC).Extract(markup)
			assert.ErrorIs(t, err, ErrNotFinite)
		})
	}
}

func TestParseFieldPolicy(t *testing.T) {
	tests := map[string]struct {
		in      string
		want    FieldPolicy
		wantErr bool
	}{
		"default": {in: "", want: SkipRow},
		"skip":    {in: "skip_row", want: SkipRow},
		"drop":    {in: " DROP_FIELD ", want: DropField},
		"abort":   {in: "abort", want: Abort},
		"unknown": {in: "ignore", wantErr: true},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFieldPolicy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
