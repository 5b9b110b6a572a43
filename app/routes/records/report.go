package records

import (
	"sort"
	"time"

	"retail-transfers/app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// ReportFilter narrows a report. Nil bounds are open.
type ReportFilter struct {
	Start *time.Time
	End   *time.Time
	Pay   models.PayMethod
	Type  models.RecordType
}

// parseReportFilter reads startDate, endDate, pay and type. The map is
// non-nil when any of them is unusable.
func parseReportFilter(c *fiber.Ctx) (ReportFilter, map[string]string) {
	var f ReportFilter
	fields := map[string]string{}

	for key, dst := range map[string]**time.Time{"startDate": &f.Start, "endDate": &f.End} {
		raw := c.Query(key)
		if raw == "" {
			continue
		}
		t, err := time.Parse(models.DateLayout, raw)
		if err != nil {
			fields[key] = "must be YYYY-MM-DD"
			continue
		}
		*dst = &t
	}

	if pay := models.PayMethod(c.Query("pay")); pay != "" {
		if !pay.Valid() {
			fields["pay"] = "unknown pay method"
		}
		f.Pay = pay
	}
	if typ := models.RecordType(c.Query("type")); typ != "" {
		if !typ.Valid() {
			fields["type"] = "unknown record type"
		}
		f.Type = typ
	}

	if f.Start != nil && f.End != nil && f.Start.After(*f.End) {
		fields["startDate"] = "must not be after endDate"
	}
	if len(fields) > 0 {
		return f, fields
	}
	return f, nil
}

// GroupByDay buckets records by calendar date, newest day first. Records keep
// their incoming order inside a bucket.
func GroupByDay(recs []models.TransferRecord) []models.ReportBucket {
	type sums struct {
		amount, fee decimal.Decimal
	}

	byDate := map[string]*models.ReportBucket{}
	totals := map[string]*sums{}
	var dates []string

	for _, r := range recs {
		key := r.Date.Format(models.DateLayout)
		b, ok := byDate[key]
		if !ok {
			b = &models.ReportBucket{Date: key, Records: []models.TransferRecord{}}
			byDate[key] = b
			totals[key] = &sums{}
			dates = append(dates, key)
		}
		b.Records = append(b.Records, r)
		totals[key].amount = totals[key].amount.Add(decimal.NewFromFloat(r.Amount))
		totals[key].fee = totals[key].fee.Add(decimal.NewFromFloat(r.Fee))
	}

	sort.Sort(sort.Reverse(sort.StringSlice(dates)))

	buckets := make([]models.ReportBucket, 0, len(dates))
	for _, d := range dates {
		b := byDate[d]
		b.TotalAmount = totals[d].amount.InexactFloat64()
		b.TotalFee = totals[d].fee.InexactFloat64()
		buckets = append(buckets, *b)
	}
	return buckets
}
