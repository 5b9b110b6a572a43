package reportpager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"retail-transfers/app/models"

	"go.uber.org/zap"
)

var (
	// ErrBusy is returned when a fetch is already in flight.
	ErrBusy     = errors.New("report fetch already in progress")
	ErrBadRange = errors.New("start date is after end date")
)

// Query is one report request.
type Query struct {
	StartDate string
	EndDate   string
	Pay       models.PayMethod
	Type      models.RecordType
}

// Fetcher retrieves a report window from the transfer service.
type Fetcher interface {
	Reports(ctx context.Context, q Query) (*models.ReportPage, error)
}

type Option func(*Pager)

func WithWindowDays(n int) Option {
	return func(p *Pager) { p.days = n }
}

// WithClock overrides how "today" is determined.
func WithClock(now func() time.Time) Option {
	return func(p *Pager) { p.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(p *Pager) { p.log = l }
}

// Pager accumulates report buckets for one filter.
type Pager struct {
	mu      sync.Mutex
	fetcher Fetcher
	log     *zap.Logger
	now     func() time.Time
	days    int

	filter  Filter
	cursor  Cursor
	buckets []models.ReportBucket
	seen    map[string]bool
	loading bool
	// gen changes on every filter change so responses for an older filter
	// are thrown away.
	gen uint64
}

func New(fetcher Fetcher, opts ...Option) *Pager {
	p := &Pager{
		fetcher: fetcher,
		log:     zap.NewNop(),
		now:     time.Now,
		days:    DefaultWindowDays,
	}
	for _, o := range opts {
		o(p)
	}
	p.resetLocked(Filter{})
	return p
}

func (p *Pager) resetLocked(f Filter) {
	p.filter = f
	p.cursor = First(f, p.now(), p.days)
	p.buckets = nil
	p.seen = map[string]bool{}
	p.loading = false
	p.gen++
}

// SetFilter discards everything loaded so far and starts over.
func (p *Pager) SetFilter(f Filter) error {
	if f.Start != nil && f.End != nil && dateOnly(*f.Start).After(dateOnly(*f.End)) {
		return ErrBadRange
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetLocked(f)
	return nil
}

func (p *Pager) Filter() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor.HasMore
}

func (p *Pager) Loading() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loading
}

// Cursor returns the current cursor.
func (p *Pager) Cursor() Cursor {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cursor
}

// Buckets returns every bucket loaded so far, newest first.
func (p *Pager) Buckets() []models.ReportBucket {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.ReportBucket, len(p.buckets))
	copy(out, p.buckets)
	return out
}

// Next fetches the next window and returns the buckets it added. It is a
// no-op once HasMore is false and fails with ErrBusy while another fetch
// is running.
func (p *Pager) Next(ctx context.Context) ([]models.ReportBucket, error) {
	p.mu.Lock()
	if p.loading {
		p.mu.Unlock()
		return nil, ErrBusy
	}
	if !p.cursor.HasMore {
		p.mu.Unlock()
		return nil, nil
	}
	p.loading = true
	gen := p.gen
	win := p.cursor.Next
	q := Query{
		StartDate: win.StartDate(),
		EndDate:   win.EndDate(),
		Pay:       p.filter.Pay,
		Type:      p.filter.Type,
	}
	p.mu.Unlock()

	page, err := p.fetcher.Reports(ctx, q)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// filter changed underneath us
		return nil, nil
	}
	p.loading = false
	if err != nil {
		p.log.Error("report fetch failed",
			zap.String("start", q.StartDate),
			zap.String("end", q.EndDate),
			zap.Error(err))
		return nil, fmt.Errorf("fetch report %s..%s: %w", q.StartDate, q.EndDate, err)
	}

	if page == nil {
		page = &models.ReportPage{}
	}
	var added []models.ReportBucket
	for _, b := range page.TransferRecords {
		if p.seen[b.Date] {
			continue
		}
		p.seen[b.Date] = true
		added = append(added, b)
	}
	p.buckets = append(p.buckets, added...)
	p.cursor = Advance(p.cursor, page, p.filter, p.days)

	p.log.Debug("report window loaded",
		zap.String("start", q.StartDate),
		zap.String("end", q.EndDate),
		zap.Int("buckets", len(added)),
		zap.Bool("has_more", p.cursor.HasMore))
	return added, nil
}
