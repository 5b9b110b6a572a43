package reportpager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"retail-transfers/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu      sync.Mutex
	queries []Query
	pages   []*models.ReportPage
	err     error
	block   chan struct{}
	entered chan struct{}
}

func (f *fakeFetcher) Reports(ctx context.Context, q Query) (*models.ReportPage, error) {
	f.mu.Lock()
	f.queries = append(f.queries, q)
	var page *models.ReportPage
	if len(f.pages) > 0 {
		page, f.pages = f.pages[0], f.pages[1:]
	}
	err := f.err
	block, entered := f.block, f.entered
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if page == nil {
		page = &models.ReportPage{}
	}
	return page, nil
}

func fixedClock(s string) func() time.Time {
	return func() time.Time { return day(s) }
}

func TestPagerWalksBackToFilterStart(t *testing.T) {
	fetch := &fakeFetcher{pages: []*models.ReportPage{
		pageWith("2024-01-25", "2024-01-20"),
		pageWith("2024-01-12"),
		pageWith("2024-01-03"),
	}}
	p := New(fetch, WithClock(fixedClock("2024-01-25")))
	require.NoError(t, p.SetFilter(Filter{Start: dayPtr("2024-01-01"), Pay: models.PayWave}))

	for p.HasMore() {
		_, err := p.Next(context.Background())
		require.NoError(t, err)
	}

	require.Len(t, fetch.queries, 3)
	assert.Equal(t, Query{StartDate: "2024-01-16", EndDate: "2024-01-25", Pay: models.PayWave}, fetch.queries[0])
	assert.Equal(t, Query{StartDate: "2024-01-06", EndDate: "2024-01-15", Pay: models.PayWave}, fetch.queries[1])
	assert.Equal(t, Query{StartDate: "2024-01-01", EndDate: "2024-01-05", Pay: models.PayWave}, fetch.queries[2])
	for _, q := range fetch.queries {
		assert.GreaterOrEqual(t, q.StartDate, "2024-01-01")
	}

	var dates []string
	for _, b := range p.Buckets() {
		dates = append(dates, b.Date)
	}
	assert.Equal(t, []string{"2024-01-25", "2024-01-20", "2024-01-12", "2024-01-03"}, dates)
}

func TestPagerStopsAfterEmptyWindow(t *testing.T) {
	fetch := &fakeFetcher{pages: []*models.ReportPage{pageWith("2024-05-20"), {}}}
	p := New(fetch, WithClock(fixedClock("2024-05-20")))

	_, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, p.HasMore())

	added, err := p.Next(context.Background())
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.False(t, p.HasMore())

	for i := 0; i < 3; i++ {
		added, err = p.Next(context.Background())
		require.NoError(t, err)
		assert.Nil(t, added)
	}
	assert.Len(t, fetch.queries, 2, "no further fetch once exhausted")
}

func TestPagerDeduplicatesByDate(t *testing.T) {
	fetch := &fakeFetcher{pages: []*models.ReportPage{
		pageWith("2024-05-20", "2024-05-15"),
		pageWith("2024-05-15", "2024-05-09"),
	}}
	p := New(fetch, WithClock(fixedClock("2024-05-20")))

	_, err := p.Next(context.Background())
	require.NoError(t, err)
	added, err := p.Next(context.Background())
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "2024-05-09", added[0].Date)
	assert.Len(t, p.Buckets(), 3)
}

func TestPagerRejectsConcurrentFetch(t *testing.T) {
	fetch := &fakeFetcher{
		pages:   []*models.ReportPage{pageWith("2024-05-20")},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	p := New(fetch, WithClock(fixedClock("2024-05-20")))

	done := make(chan error, 1)
	go func() {
		_, err := p.Next(context.Background())
		done <- err
	}()
	<-fetch.entered
	assert.True(t, p.Loading())

	_, err := p.Next(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(fetch.block)
	require.NoError(t, <-done)
	assert.False(t, p.Loading())
	assert.Len(t, fetch.queries, 1)
}

func TestPagerDropsResultsOfOldFilter(t *testing.T) {
	fetch := &fakeFetcher{
		pages:   []*models.ReportPage{pageWith("2024-05-20")},
		block:   make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	p := New(fetch, WithClock(fixedClock("2024-05-20")))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = p.Next(context.Background())
	}()
	<-fetch.entered
	require.NoError(t, p.SetFilter(Filter{Pay: models.PayAYA}))
	close(fetch.block)
	<-done

	assert.Empty(t, p.Buckets())
	assert.True(t, p.HasMore())
	assert.False(t, p.Loading())
}

func TestPagerErrorKeepsCursor(t *testing.T) {
	fetch := &fakeFetcher{err: errors.New("network down")}
	p := New(fetch, WithClock(fixedClock("2024-05-20")))
	before := p.Cursor()

	_, err := p.Next(context.Background())
	require.Error(t, err)
	assert.Equal(t, before, p.Cursor())
	assert.True(t, p.HasMore())
	assert.False(t, p.Loading())
}

func TestSetFilterRejectsInvertedRange(t *testing.T) {
	p := New(&fakeFetcher{})
	err := p.SetFilter(Filter{Start: dayPtr("2024-05-02"), End: dayPtr("2024-05-01")})
	assert.ErrorIs(t, err, ErrBadRange)
}
