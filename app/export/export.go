// Package export renders report buckets as downloadable PDF or Excel files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"retail-transfers/app/models"
	"retail-transfers/app/money"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Report is one export request's worth of data.
type Report struct {
	StartDate string
	EndDate   string
	Pay       models.PayMethod
	Buckets   []models.ReportBucket
}

var header = []string{"Date", "Phone No", "Pay", "Type", "Amount", "Fee", "Description", "Entry Person"}

func (r Report) Title() string {
	title := "Transfer Report"
	if r.Pay != "" {
		title += " (" + strings.ToUpper(string(r.Pay)) + ")"
	}
	return title
}

func (r Report) Period() string {
	switch {
	case r.StartDate != "" && r.EndDate != "":
		return r.StartDate + " to " + r.EndDate
	case r.StartDate != "":
		return "from " + r.StartDate
	case r.EndDate != "":
		return "until " + r.EndDate
	}
	return "all dates"
}

// Totals sums every bucket.
func (r Report) Totals() models.Total {
	var t models.Total
	for _, b := range r.Buckets {
		t.Total += b.TotalAmount
		t.Fee += b.TotalFee
	}
	return t
}

func recordRow(rec models.TransferRecord) []string {
	return []string{
		rec.Date.Format(models.DateLayout),
		rec.PhoneNo,
		string(rec.Pay),
		string(rec.Type),
		money.FormatFloat(rec.Amount),
		money.FormatFloat(rec.Fee),
		rec.Description,
		rec.EntryPerson,
	}
}

func ContentType(f models.ExportFormat) string {
	if f == models.ExportExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Filename is the attachment name offered to the browser.
func Filename(f models.ExportFormat, r Report) string {
	ext := "pdf"
	if f == models.ExportExcel {
		ext = "xlsx"
	}
	name := "transfers"
	if r.StartDate != "" {
		name += "_" + r.StartDate
	}
	if r.EndDate != "" {
		name += "_" + r.EndDate
	}
	return name + "." + ext
}

// Write renders r in format f to w.
func Write(w io.Writer, f models.ExportFormat, r Report) error {
	switch f {
	case models.ExportPDF:
		return PDF(w, r)
	case models.ExportExcel:
		return Excel(w, r)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}
