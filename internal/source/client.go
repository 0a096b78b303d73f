// Package source talks to the external paginated transaction feed.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one raw item as the feed returns it. Type stays a
// plain string here; it is validated when the page is committed.
type TransactionRecord struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	CreatedAt time.Time       `json:"createdAt"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
}

type PageMeta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

type Page struct {
	Items []TransactionRecord `json:"items"`
	Meta  PageMeta            `json:"meta"`
}

// Client fetches one page of transactions for a date window. Implementations
// must return an empty Items slice to signal exhaustion.
type Client interface {
	FetchPage(ctx context.Context, start, end time.Time, page, limit int) (Page, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewHTTPClient builds a client for the feed at baseURL. No retry lives here:
// a transient fetch failure fails the whole sync run and the unchanged
// watermark makes the next run re-cover the window.
func NewHTTPClient(baseURL string, timeout time.Duration, log *slog.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
		log: log.With("component", "source_client"),
	}
}

func (c *HTTPClient) FetchPage(ctx context.Context, start, end time.Time, page, limit int) (Page, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Page{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("startDate", start.Format(time.RFC3339))
	q.Set("endDate", end.Format(time.RFC3339))
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch transactions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Page{}, fmt.Errorf("transaction API returned %d: %s", resp.StatusCode, body)
	}

	var out Page
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Page{}, fmt.Errorf("decode transaction page: %w", err)
	}

	c.log.Debug("fetched page",
		"page", out.Meta.CurrentPage,
		"items", out.Meta.ItemCount,
		"total_pages", out.Meta.TotalPages,
	)
	return out, nil
}
