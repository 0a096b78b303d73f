package syncer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/scrpay/txsync-backend/internal/models"
	"github.com/scrpay/txsync-backend/internal/source"
	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory stand-in for the postgres repositories. CommitPage
// is all-or-nothing like the real one: an injected failure inserts no rows.
type memStore struct {
	mu      sync.Mutex
	txs     map[string]models.Transaction
	payouts []models.PayoutRequest
	aggs    map[string]models.UserAggregate
	runs    []models.SyncRun
	nextRun int64

	failCommitOnCall int // 1-based CommitPage call that fails, 0 = never
	commitCalls      int
}

func newMemStore() *memStore {
	return &memStore{
		txs:  make(map[string]models.Transaction),
		aggs: make(map[string]models.UserAggregate),
	}
}

var errInjectedCommit = errors.New("storage unavailable")

func (s *memStore) ExistingIDs(_ context.Context, ids []string) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := s.txs[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *memStore) CommitPage(_ context.Context, txs []models.Transaction, payouts []models.PayoutRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitCalls++
	if s.failCommitOnCall > 0 && s.commitCalls == s.failCommitOnCall {
		return errInjectedCommit
	}
	for _, t := range txs {
		t.ProcessedAt = time.Now().UTC()
		s.txs[t.ID] = t
	}
	for _, p := range payouts {
		p.ID = int64(len(s.payouts) + 1)
		s.payouts = append(s.payouts, p)
	}
	return nil
}

func (s *memStore) DistinctUserIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, t := range s.txs {
		if _, ok := seen[t.UserID]; !ok {
			seen[t.UserID] = struct{}{}
			out = append(out, t.UserID)
		}
	}
	return out, nil
}

func (s *memStore) SumByType(_ context.Context, userID string) (models.TypeTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := models.TypeTotals{Earned: decimal.Zero, Spent: decimal.Zero, Payout: decimal.Zero}
	for _, t := range s.txs {
		if t.UserID != userID {
			continue
		}
		switch t.Type {
		case models.TxnEarned:
			totals.Earned = totals.Earned.Add(t.Amount)
		case models.TxnSpent:
			totals.Spent = totals.Spent.Add(t.Amount)
		case models.TxnPayout:
			totals.Payout = totals.Payout.Add(t.Amount)
		}
	}
	return totals, nil
}

func (s *memStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, t := range s.txs {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *memStore) Count(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.txs)), nil
}

// repo.Aggregates

func (s *memStore) Upsert(_ context.Context, a models.UserAggregate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.LastUpdated = time.Now().UTC()
	s.aggs[a.UserID] = a
	return nil
}

func (s *memStore) Get(_ context.Context, userID string) (models.UserAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.aggs[userID]
	if !ok {
		return models.UserAggregate{}, errors.New("no rows")
	}
	return a, nil
}

func (s *memStore) GetMany(_ context.Context, userIDs []string) ([]models.UserAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.UserAggregate
	for _, id := range userIDs {
		if a, ok := s.aggs[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) AggCount(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.aggs)), nil
}

// repo.SyncRuns

func (s *memStore) Create(_ context.Context, lastSyncDate time.Time) (models.SyncRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextRun++
	run := models.SyncRun{
		ID:           s.nextRun,
		LastSyncDate: lastSyncDate,
		Status:       models.SyncRunning,
		CreatedAt:    time.Now().UTC(),
	}
	s.runs = append(s.runs, run)
	return run, nil
}

func (s *memStore) Complete(_ context.Context, id int64, processed int, lastSyncDate time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == id {
			s.runs[i].Status = models.SyncCompleted
			s.runs[i].TransactionsProcessed = processed
			s.runs[i].LastSyncDate = lastSyncDate
			s.runs[i].ErrorMessage = nil
		}
	}
	return nil
}

func (s *memStore) Fail(_ context.Context, id int64, errorMessage string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.runs {
		if s.runs[i].ID == id {
			s.runs[i].Status = models.SyncFailed
			s.runs[i].ErrorMessage = &errorMessage
		}
	}
	return nil
}

func (s *memStore) LastCompleted(_ context.Context) (models.SyncRun, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.runs) - 1; i >= 0; i-- {
		if s.runs[i].Status == models.SyncCompleted {
			return s.runs[i], true, nil
		}
	}
	return models.SyncRun{}, false, nil
}

func (s *memStore) Latest(_ context.Context) (models.SyncRun, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.runs) == 0 {
		return models.SyncRun{}, false, nil
	}
	return s.runs[len(s.runs)-1], true, nil
}

func (s *memStore) ListRecent(_ context.Context, limit int) ([]models.SyncRun, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.SyncRun
	for i := len(s.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[i])
	}
	return out, nil
}

// aggStore exposes the aggregates view of memStore under the Aggregates
// interface without the Count name colliding with Transactions.Count.
type aggStore struct{ *memStore }

func (s aggStore) Count(ctx context.Context) (int64, error) { return s.AggCount(ctx) }

// fakeSource serves scripted pages and records the calls it got.
type fakeSource struct {
	mu         sync.Mutex
	pages      [][]source.TransactionRecord
	totalPages int
	errOnPage  int // page number whose fetch fails, 0 = never
	calls      int
	limits     []int
	block      chan struct{} // when set, FetchPage waits until closed
}

var errUpstream = errors.New("upstream unavailable")

func (f *fakeSource) FetchPage(ctx context.Context, start, end time.Time, page, limit int) (source.Page, error) {
	f.mu.Lock()
	f.calls++
	f.limits = append(f.limits, limit)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return source.Page{}, ctx.Err()
		}
	}

	if f.errOnPage != 0 && page == f.errOnPage {
		return source.Page{}, errUpstream
	}

	var items []source.TransactionRecord
	if page-1 < len(f.pages) {
		items = f.pages[page-1]
	}
	total := f.totalPages
	if total == 0 {
		total = len(f.pages)
	}
	return source.Page{
		Items: items,
		Meta: source.PageMeta{
			TotalItems:   0,
			ItemCount:    len(items),
			ItemsPerPage: limit,
			TotalPages:   total,
			CurrentPage:  page,
		},
	}, nil
}

func record(id, userID, typ string, amount string, at time.Time) source.TransactionRecord {
	return source.TransactionRecord{
		ID:        id,
		UserID:    userID,
		CreatedAt: at,
		Type:      typ,
		Amount:    decimal.RequireFromString(amount),
	}
}

func newTestEngine(store *memStore, src source.Client, maxPerRun int) *Engine {
	log := testLogger()
	limiter := NewRateLimiter(1000, time.Minute) // effectively unlimited
	committer := NewCommitter(store, log)
	recalc := NewRecalculator(store, aggStore{store}, log)
	tracker := NewTracker(store)
	return NewEngine(src, limiter, committer, recalc, tracker, maxPerRun, log)
}
