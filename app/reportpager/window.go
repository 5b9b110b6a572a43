// Package reportpager loads date grouped report buckets in windows that walk
// backwards in time as the operator scrolls.
package reportpager

import (
	"time"

	"retail-transfers/app/models"
)

// DefaultWindowDays is how many calendar days one fetch covers when the
// operator has not pinned both ends of the range.
const DefaultWindowDays = 10

// Filter is what the operator picked on the report screen.
type Filter struct {
	Start *time.Time
	End   *time.Time
	Pay   models.PayMethod
	Type  models.RecordType
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) StartDate() string { return w.Start.Format(models.DateLayout) }
func (w Window) EndDate() string   { return w.End.Format(models.DateLayout) }

// Cursor tracks how far back the report has been fetched.
type Cursor struct {
	Next     Window
	Earliest *time.Time
	HasMore  bool
	// Final marks Next as clamped to the oldest allowed day.
	Final bool
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

// floor is the oldest day any window may reach: the filter start or the
// server's earliest record date, whichever is later.
func floor(f Filter, earliest *time.Time) *time.Time {
	var out *time.Time
	if f.Start != nil {
		s := dateOnly(*f.Start)
		out = &s
	}
	if earliest != nil {
		e := dateOnly(*earliest)
		if out == nil || e.After(*out) {
			out = &e
		}
	}
	return out
}

// First computes the opening cursor for a filter.
func First(f Filter, today time.Time, days int) Cursor {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if f.Start != nil && f.End != nil {
		return Cursor{
			Next:    Window{Start: dateOnly(*f.Start), End: dateOnly(*f.End)},
			HasMore: true,
			Final:   true,
		}
	}

	end := dateOnly(today)
	if f.End != nil {
		end = dateOnly(*f.End)
	}
	return clamp(end, f, nil, days)
}

func clamp(end time.Time, f Filter, earliest *time.Time, days int) Cursor {
	start := end.AddDate(0, 0, -(days - 1))
	c := Cursor{Next: Window{Start: start, End: end}, HasMore: true, Earliest: earliest}
	if fl := floor(f, earliest); fl != nil {
		if end.Before(*fl) {
			return Cursor{Earliest: earliest}
		}
		if !start.After(*fl) {
			c.Next.Start = later(start, *fl)
			c.Final = true
		}
	}
	return c
}

// Advance moves the cursor past the window that was just fetched.
func Advance(c Cursor, page *models.ReportPage, f Filter, days int) Cursor {
	if days <= 0 {
		days = DefaultWindowDays
	}
	if page != nil && page.EarliestRecordDate != nil {
		if e, err := time.Parse(models.DateLayout, *page.EarliestRecordDate); err == nil {
			c.Earliest = &e
		}
	}
	if c.Final || page == nil || len(page.TransferRecords) == 0 {
		return Cursor{Next: c.Next, Earliest: c.Earliest}
	}
	nextEnd := c.Next.Start.AddDate(0, 0, -1)
	return clamp(nextEnd, f, c.Earliest, days)
}
