package export

import (
	"io"

	"retail-transfers/app/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Report"

func Excel(w io.Writer, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	row := 1
	setRow := func(values []interface{}, style bool) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
		if style {
			last, _ := excelize.CoordinatesToCellName(len(header), row)
			if err := f.SetCellStyle(sheetName, cell, last, bold); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := setRow([]interface{}{r.Title(), r.Period()}, true); err != nil {
		return err
	}
	row++

	head := make([]interface{}, len(header))
	for i, h := range header {
		head[i] = h
	}
	if err := setRow(head, true); err != nil {
		return err
	}

	for _, b := range r.Buckets {
		for _, rec := range b.Records {
			values := []interface{}{
				rec.Date.Format(models.DateLayout), rec.PhoneNo, string(rec.Pay), string(rec.Type),
				rec.Amount, rec.Fee, rec.Description, rec.EntryPerson,
			}
			if err := setRow(values, false); err != nil {
				return err
			}
		}
		if err := setRow([]interface{}{b.Date, "", "", "Day total", b.TotalAmount, b.TotalFee}, true); err != nil {
			return err
		}
	}

	total := r.Totals()
	row++
	if err := setRow([]interface{}{"", "", "", "Total", total.Total, total.Fee}, true); err != nil {
		return err
	}

	_ = f.SetColWidth(sheetName, "A", "B", 14)
	_ = f.SetColWidth(sheetName, "G", "H", 24)

	return f.Write(w)
}
