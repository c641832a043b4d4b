package presenter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
)

var base = time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)

func records(n int) model.Records {
	rs := model.Records{}
	for i := range n {
		rs = append(rs, model.Record{
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			Temperature: lo.ToPtr(float64(i)),
		})
	}
	return rs
}

func TestBuild_Empty(t *testing.T) {
	v := Build(model.Records{}, model.Oxygen, 10)

	assert.True(t, v.Empty)
	assert.Equal(t, EmptyMessage, v.Message)
	assert.Empty(t, v.Points)
	assert.Empty(t, v.Recent)
	assert.Equal(t, "", v.Polyline(100, 50))
}

func TestBuild_TailKeepsArrivalOrder(t *testing.T) {
	rs := records(15)
	rs[14], rs[13] = rs[13], rs[14]

	v := Build(rs, model.Temperature, 10)

	assert.False(t, v.Empty)
	assert.Equal(t, 15, v.Total)
	require.Len(t, v.Recent, 10)
	assert.Equal(t, rs[5:], v.Recent)
	assert.Equal(t, lo.ToPtr(14.0), v.Recent[8].Temperature)
}

func TestBuild_PointsSortedAndSkipAbsent(t *testing.T) {
	rs := model.Records{
		{Timestamp: base.Add(2 * time.Minute), Humidity: lo.ToPtr(3.0)},
		{Timestamp: base, Humidity: lo.ToPtr(1.0)},
		{Timestamp: base.Add(time.Minute)},
	}

	v := Build(rs, model.Humidity, 10)

	assert.Equal(t, "%", v.Unit)
	assert.Equal(t, []Point{
		{Timestamp: base, Value: 1},
		{Timestamp: base.Add(2 * time.Minute), Value: 3},
	}, v.Points)
}

func TestPolyline(t *testing.T) {
	v := Build(records(3), model.Temperature, 10)
	assert.Equal(t, "0.0,100.0 100.0,50.0 200.0,0.0", v.Polyline(200, 100))

	single := Build(records(1), model.Temperature, 10)
	assert.Equal(t, "100.0,50.0", single.Polyline(200, 100))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(model.Records{
		{Timestamp: base, Temperature: lo.ToPtr(22.5), Oxygen: lo.ToPtr(98.1)},
	})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "timestamp")
	assert.Contains(t, lines[0], "oxygen")
	assert.Contains(t, lines[1], "2025-01-15T12:00:00")
	assert.Contains(t, lines[1], "22.50")
	assert.Contains(t, lines[1], "98.10")
	assert.Contains(t, lines[1], "-")

	assert.Contains(t, RenderTable(nil), EmptyMessage)
}

func TestWriteWorkbook(t *testing.T) {
	var buf bytes.Buffer
	rs := model.Records{
		{Timestamp: base, Temperature: lo.ToPtr(22.5), Humidity: lo.ToPtr(45.0)},
		{Timestamp: base.Add(time.Minute), Oxygen: lo.ToPtr(98.1)},
	}

	require.NoError(t, WriteWorkbook(&buf, rs))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timestamp", "temperature", "humidity", "oxygen"}, rows[0])
	assert.Equal(t, "22.5", rows[1][1])
	assert.Equal(t, "45", rows[1][2])
	assert.Equal(t, "98.1", rows[2][3])
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "traci-700042-20250115-120000.xlsx", ExportFileName("TRACI 700042", base))
}
