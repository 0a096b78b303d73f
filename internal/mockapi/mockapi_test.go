package mockapi

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scrpay/txsync-backend/internal/source"
	"github.com/stretchr/testify/assert"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func window() (time.Time, time.Time) {
	end := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	return end.Add(-24 * time.Hour), end
}

func TestGetTransactions_PaginationMeta(t *testing.T) {
	svc := NewService(testLogger())
	start, end := window()

	page := svc.GetTransactions(start, end, 1, 10)

	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Equal(t, 10, page.Meta.ItemsPerPage)
	assert.Equal(t, 10, page.Meta.ItemCount)
	assert.Len(t, page.Items, 10)
	assert.GreaterOrEqual(t, page.Meta.TotalItems, 50)
	assert.LessOrEqual(t, page.Meta.TotalItems, 200)
	assert.Equal(t, (page.Meta.TotalItems+9)/10, page.Meta.TotalPages)
}

func TestGetTransactions_StableAcrossPages(t *testing.T) {
	svc := NewService(testLogger())
	start, end := window()

	first := svc.GetTransactions(start, end, 1, 10)
	again := svc.GetTransactions(start, end, 1, 10)

	// same window, same dataset: pagination must be coherent between calls
	assert.Equal(t, first.Meta.TotalItems, again.Meta.TotalItems)
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, again.Items[i].ID)
	}
}

func TestGetTransactions_LastPagePartial(t *testing.T) {
	svc := NewService(testLogger())
	start, end := window()

	all := svc.GetTransactions(start, end, 1, 1000)
	total := all.Meta.TotalItems

	last := svc.GetTransactions(start, end, (total+9)/10, 10)
	assert.Equal(t, total%10, last.Meta.ItemCount%10)
	assert.NotEmpty(t, last.Items)

	beyond := svc.GetTransactions(start, end, (total+9)/10+1, 10)
	assert.Empty(t, beyond.Items, "pages past the end are empty")
}

func TestGetTransactions_RecordShape(t *testing.T) {
	svc := NewService(testLogger())
	start, end := window()

	page := svc.GetTransactions(start, end, 1, 1000)
	for _, it := range page.Items {
		assert.NotEmpty(t, it.ID)
		assert.Contains(t, []string{"earned", "spent", "payout"}, it.Type)
		assert.True(t, it.Amount.IsPositive())
		assert.False(t, it.CreatedAt.Before(start))
		assert.False(t, it.CreatedAt.After(end))
	}
}

func TestHandler_RoundTripThroughSourceClient(t *testing.T) {
	svc := NewService(testLogger())
	ts := httptest.NewServer(svc.Handler())
	defer ts.Close()

	client := source.NewHTTPClient(ts.URL, 5*time.Second, testLogger())
	start, end := window()

	page, err := client.FetchPage(context.Background(), start, end, 1, 25)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Meta.CurrentPage)
	assert.Len(t, page.Items, 25)
	assert.NotEmpty(t, page.Items[0].UserID)
}

func TestHandler_RejectsBadDates(t *testing.T) {
	svc := NewService(testLogger())
	ts := httptest.NewServer(svc.Handler())
	defer ts.Close()

	client := source.NewHTTPClient(ts.URL, 5*time.Second, testLogger())

	// zero start renders as a valid RFC3339 date, so break the URL instead
	resp, err := ts.Client().Get(ts.URL + "?startDate=notadate&endDate=alsonot")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 400, resp.StatusCode)

	_, err = client.FetchPage(context.Background(), time.Time{}, time.Time{}, 1, 10)
	assert.NoError(t, err, "zero times are still valid RFC3339 dates")
}
