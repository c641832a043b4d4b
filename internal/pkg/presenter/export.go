package presenter

import (
	"fmt"
	"io"
	"time"

	"github.com/gosimple/slug"
	"github.com/xuri/excelize/v2"

	"github.com/anicoll/traci-dashboard/internal/pkg/model"
	"github.com/anicoll/traci-dashboard/internal/pkg/store"
)

const sheetName = "History"

// ExportFileName names a workbook after the source and the export time.
func ExportFileName(sourceName string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", slug.Make(sourceName), now.Format("20060102-150405"))
}

// WriteWorkbook writes records as a single-sheet xlsx workbook to w.
func WriteWorkbook(w io.Writer, records model.Records) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 22})
	if err != nil {
		return fmt.Errorf("failed to create date style: %w", err)
	}

	header := make([]any, len(store.Header))
	for i, h := range store.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "D1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{r.Timestamp, cellValue(r.Temperature), cellValue(r.Humidity), cellValue(r.Oxygen)}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, dateStyle); err != nil {
			return fmt.Errorf("failed to set date style: %w", err)
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// cellValue leaves absent readings as blank cells.
func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
