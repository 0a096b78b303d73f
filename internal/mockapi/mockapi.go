// Package mockapi simulates the external transaction feed so the service can
// run without upstream credentials. It serves the same wire format the source
// client consumes.
package mockapi

import (
	"log/slog"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/scrpay/txsync-backend/internal/api/httpx"
	"github.com/scrpay/txsync-backend/internal/api/validate"
	"github.com/scrpay/txsync-backend/internal/source"
	"github.com/shopspring/decimal"
)

var mockUsers = []string{
	"074092", "074093", "074094", "074095", "074096",
	"074097", "074098", "074099", "075001", "075002",
}

var txnTypes = []string{"earned", "spent", "payout"}

type Service struct {
	log *slog.Logger
}

func NewService(log *slog.Logger) *Service {
	return &Service{log: log.With("component", "mockapi")}
}

// GetTransactions returns one page of generated transactions for the window.
// The dataset is derived from a window-seeded RNG, so every page request for
// the same [start, end] paginates over the same records.
func (s *Service) GetTransactions(start, end time.Time, page, limit int) source.Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1000
	}

	all := s.generate(start, end)

	totalItems := len(all)
	totalPages := (totalItems + limit - 1) / limit
	startIdx := (page - 1) * limit
	endIdx := startIdx + limit
	if startIdx > totalItems {
		startIdx = totalItems
	}
	if endIdx > totalItems {
		endIdx = totalItems
	}
	items := all[startIdx:endIdx]

	return source.Page{
		Items: items,
		Meta: source.PageMeta{
			TotalItems:   totalItems,
			ItemCount:    len(items),
			ItemsPerPage: limit,
			TotalPages:   totalPages,
			CurrentPage:  page,
		},
	}
}

func (s *Service) generate(start, end time.Time) []source.TransactionRecord {
	rng := rand.New(rand.NewSource(start.Unix()<<16 ^ end.Unix()))

	days := int(end.Sub(start).Hours()/24) + 1
	count := days * 30
	if count < 50 {
		count = 50
	}
	if count > 200 {
		count = 200
	}

	span := end.Sub(start)
	if span <= 0 {
		span = time.Second
	}

	out := make([]source.TransactionRecord, 0, count)
	for i := 0; i < count; i++ {
		typ := txnTypes[rng.Intn(len(txnTypes))]
		out = append(out, source.TransactionRecord{
			ID:        uuid.Must(uuid.NewRandomFromReader(rng)).String(),
			UserID:    mockUsers[rng.Intn(len(mockUsers))],
			CreatedAt: start.Add(time.Duration(rng.Int63n(int64(span)))).UTC(),
			Type:      typ,
			Amount:    amountFor(typ, rng),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func amountFor(typ string, rng *rand.Rand) decimal.Decimal {
	var v float64
	switch typ {
	case "earned":
		v = rng.Float64()*49.9 + 0.1
	case "spent":
		v = rng.Float64()*99 + 1
	case "payout":
		v = rng.Float64()*490 + 10
	default:
		v = 1.0
	}
	return decimal.NewFromFloat(v).Round(2)
}

// Handler serves GET with startDate/endDate/page/limit query parameters.
func (s *Service) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		var errs validate.Errs
		if ef := validate.ISODate("startDate", q.Get("startDate")); ef != nil {
			errs = append(errs, *ef)
		}
		if ef := validate.ISODate("endDate", q.Get("endDate")); ef != nil {
			errs = append(errs, *ef)
		}
		if len(errs) > 0 {
			httpx.WriteError(w, http.StatusBadRequest, "validation_error", errs.Error(), errs)
			return
		}

		start, _ := time.Parse(time.RFC3339, q.Get("startDate"))
		end, _ := time.Parse(time.RFC3339, q.Get("endDate"))

		page := intParam(q.Get("page"), 1)
		limit := intParam(q.Get("limit"), 1000)

		httpx.WriteJSON(w, http.StatusOK, s.GetTransactions(start, end, page, limit))
	}
}

func intParam(s string, def int) int {
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}
