package traci

// Column positions of the listing table. The page has no usable header, so
// these indexes are the whole contract with the source layout.
const (
	hourColumn        = 2
	dateColumn        = 10
	temperatureColumn = 20
	humidityColumn    = 21
	oxygenColumn      = 22

	// rows with fewer cells are navigation or summary rows.
	minColumns = 24
)

// timestampLayout reads date+hour cells, e.g. "150125"+"120000".
const timestampLayout = "020106150405"

type rawRow struct {
	hour        string
	date        string
	temperature string
	humidity    string
	oxygen      string
}

func readRow(cells []string) (rawRow, bool) {
	if len(cells) < minColumns {
		return rawRow{}, false
	}
	return rawRow{
		hour:        cells[hourColumn],
		date:        cells[dateColumn],
		temperature: cells[temperatureColumn],
		humidity:    cells[humidityColumn],
		oxygen:      cells[oxygenColumn],
	}, true
}

func (r rawRow) timestamp() string {
	return r.date + r.hour
}
