package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"retail-transfers/app/models"
	"retail-transfers/app/money"
	"retail-transfers/app/reportpager"
)

// readFilter asks for the report filter. ok is false when input ran out.
func (ui *UI) readFilter() (reportpager.Filter, bool) {
	var f reportpager.Filter
	var ok bool
	if f.Start, ok = ui.readDate("Start date"); !ok {
		return f, false
	}
	if f.End, ok = ui.readDate("End date"); !ok {
		return f, false
	}

	names := []string{"all"}
	for _, p := range models.PayMethods {
		names = append(names, string(p))
	}
	if i := ui.choose("Pay method", names); i > 0 {
		f.Pay = models.PayMethods[i-1]
	}
	return f, !ui.eof
}

func (ui *UI) viewReport(ctx context.Context) {
	f, ok := ui.readFilter()
	if !ok {
		return
	}

	pager := reportpager.New(ui.svc, reportpager.WithClock(ui.now), reportpager.WithLogger(ui.log))
	if err := pager.SetFilter(f); err != nil {
		ui.fail(err)
		return
	}

	shown := 0
	for {
		added, err := pager.Next(ctx)
		if err != nil && !errors.Is(err, reportpager.ErrBusy) {
			ui.fail(err)
			return
		}
		for _, b := range added {
			ui.printBucket(b)
		}
		shown += len(added)
		if !pager.HasMore() {
			break
		}
		if len(added) > 0 && !ui.confirm("Load more?") {
			return
		}
	}
	if shown == 0 {
		fmt.Fprintln(ui.out, "No records for this filter.")
	} else {
		fmt.Fprintln(ui.out, "End of report.")
	}
}

func (ui *UI) printBucket(b models.ReportBucket) {
	fmt.Fprintf(ui.out, "\n%s   amount %s   fee %s\n", b.Date, money.FormatFloat(b.TotalAmount), money.FormatFloat(b.TotalFee))
	for _, r := range b.Records {
		ui.printRecord(r)
	}
}

func (ui *UI) exportReport(ctx context.Context) {
	var format models.ExportFormat
	switch ui.choose("File type", []string{"PDF", "Excel"}) {
	case 0:
		format = models.ExportPDF
	case 1:
		format = models.ExportExcel
	default:
		return
	}
	f, ok := ui.readFilter()
	if !ok {
		return
	}

	q := reportpager.Query{Pay: f.Pay}
	if f.Start != nil {
		q.StartDate = f.Start.Format(models.DateLayout)
	}
	if f.End != nil {
		q.EndDate = f.End.Format(models.DateLayout)
	}

	d, err := ui.svc.Export(ctx, format, q)
	if err != nil {
		ui.fail(err)
		return
	}

	name := d.Filename
	if filepath.Ext(name) == "" {
		name += map[models.ExportFormat]string{models.ExportPDF: ".pdf", models.ExportExcel: ".xlsx"}[format]
	}
	path := filepath.Join(ui.downloadDir, name)
	if err := os.WriteFile(path, d.Data, 0o644); err != nil {
		ui.fail(err)
		return
	}
	fmt.Fprintf(ui.out, "Saved %s (%d bytes).\n", path, len(d.Data))
}
