package reports

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// WriteExcel encodes the report as an xlsx workbook: a title block, the
// column table, then the summary rows.
func WriteExcel(w io.Writer, rep *Report) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()
	sheet := f.GetSheetName(0)

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("reports: excel style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"3160BF"}},
	})
	if err != nil {
		return fmt.Errorf("reports: excel style: %w", err)
	}

	setRow := func(row int, cells []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &cells)
	}

	if err := setRow(1, []any{rep.CompanyName}); err != nil {
		return err
	}
	if err := setRow(2, []any{rep.Title}); err != nil {
		return err
	}
	if err := setRow(3, []any{"Generated on: " + rep.GeneratedAt.Format("02 Jan 2006 15:04")}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A2", titleStyle); err != nil {
		return err
	}

	const tableStart = 5
	headers := make([]any, len(rep.Headers))
	for i, h := range rep.Headers {
		headers[i] = h
	}
	if err := setRow(tableStart, headers); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(rep.Headers), tableStart)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, tableStart)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, first, last, headerStyle); err != nil {
		return err
	}

	row := tableStart
	for _, r := range rep.Rows {
		row++
		cells := make([]any, len(r))
		for i, c := range r {
			cells[i] = c
		}
		if err := setRow(row, cells); err != nil {
			return err
		}
	}

	row += 2
	if err := setRow(row, []any{"SUMMARY"}); err != nil {
		return err
	}
	summaryCell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, summaryCell, summaryCell, headerStyle); err != nil {
		return err
	}
	for _, item := range rep.Summary {
		row++
		if err := setRow(row, []any{item.Label, item.Value}); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("reports: write workbook: %w", err)
	}
	return nil
}
