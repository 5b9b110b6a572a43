package export

import (
	"io"

	"retail-transfers/app/money"

	"github.com/go-pdf/fpdf"
)

var pdfWidths = []float64{22, 28, 14, 14, 26, 20, 44, 32}

func PDF(w io.Writer, r Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(r.Title(), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, r.Title(), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, r.Period(), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	tableHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range header {
			pdf.CellFormat(pdfWidths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	tableHeader()

	for _, b := range r.Buckets {
		pdf.SetFont("Helvetica", "", 9)
		for _, rec := range b.Records {
			for i, cell := range recordRow(rec) {
				align := "L"
				if i == 4 || i == 5 {
					align = "R"
				}
				pdf.CellFormat(pdfWidths[i], 6, cell, "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(pdfWidths[0]+pdfWidths[1]+pdfWidths[2]+pdfWidths[3], 6, b.Date+" total", "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfWidths[4], 6, money.FormatFloat(b.TotalAmount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfWidths[5], 6, money.FormatFloat(b.TotalFee), "1", 0, "R", false, 0, "")
		pdf.CellFormat(pdfWidths[6]+pdfWidths[7], 6, "", "1", 1, "L", false, 0, "")
	}

	total := r.Totals()
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Total amount: "+money.FormatFloat(total.Total), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total fee: "+money.FormatFloat(total.Fee), "", 1, "L", false, 0, "")

	return pdf.Output(w)
}
