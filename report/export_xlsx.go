package report

import (
	"easylog/domain/record"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the export artifact as a workbook with the same columns
// as the CSV variant.
func WriteXLSX(w io.Writer, records []record.WorkRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, title := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}
	for row, r := range records {
		values := []interface{}{
			r.Date,
			r.Department,
			r.EventType,
			r.Product,
			r.Description,
			r.Hours,
			r.CreateTime.Time().UTC().Format(time.RFC3339),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return f.Write(w)
}
