package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5"

	"github.com/scrpay/txsync-backend/internal/api/httpx"
	"github.com/scrpay/txsync-backend/internal/api/validate"
	"github.com/scrpay/txsync-backend/internal/auth"
	"github.com/scrpay/txsync-backend/internal/config"
	"github.com/scrpay/txsync-backend/internal/metrics"
	"github.com/scrpay/txsync-backend/internal/middleware"
	"github.com/scrpay/txsync-backend/internal/mockapi"
	repo "github.com/scrpay/txsync-backend/internal/repository"
	"github.com/scrpay/txsync-backend/internal/services"
	"github.com/scrpay/txsync-backend/internal/syncer"
)

type RouterDeps struct {
	Cfg          config.Config
	TM           *auth.TokenManager
	AdminHash    string
	Engine       *syncer.Engine
	SyncRuns     repo.SyncRuns
	AggregateSvc *services.AggregateService
	PayoutSvc    *services.PayoutService
	HealthSvc    *services.HealthService
	MockAPI      *mockapi.Service
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recover, middleware.RateLimit(100), middleware.HTTPMetrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	authmw := middleware.NewAuthMiddleware(d.TM)

	// health & metrics
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		h := d.HealthSvc.Status(r.Context())
		status := http.StatusOK
		if h.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, status, h)
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// ---------- mock upstream feed ----------
		r.Get("/mock-api/transactions", d.MockAPI.Handler())

		// ---------- auth ----------
		r.Post("/auth/login", func(w http.ResponseWriter, r *http.Request) {
			var req struct{ Email, Password string }
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "bad request", nil)
				return
			}
			if req.Email != d.Cfg.AdminEmail || auth.VerifyPassword(req.Password, d.AdminHash) != nil {
				httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials", nil)
				return
			}
			access, refresh, exp, err := d.TM.GeneratePair(req.Email, "admin")
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"access_token":  access,
				"refresh_token": refresh,
				"expires_at":    exp,
			})
		})

		// ---------- sync ----------
		r.Group(func(r chi.Router) {
			r.Use(authmw.Auth, middleware.RequireRole("admin"))
			r.Post("/sync/transactions", func(w http.ResponseWriter, r *http.Request) {
				if err := d.Engine.Run(r.Context()); err != nil {
					if errors.Is(err, syncer.ErrAlreadyRunning) {
						httpx.WriteError(w, http.StatusConflict, "sync_running", err.Error(), nil)
						return
					}
					httpx.WriteError(w, http.StatusInternalServerError, "sync_failed", err.Error(), nil)
					return
				}
				httpx.WriteJSON(w, http.StatusOK, map[string]any{
					"success": true,
					"message": "synchronization completed",
				})
			})
		})

		r.Get("/sync/status", func(w http.ResponseWriter, r *http.Request) {
			runs, err := d.SyncRuns.ListRecent(r.Context(), 10)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"recent_syncs": runs,
				"total_syncs":  len(runs),
			})
		})

		// ---------- users ----------
		r.Get("/users/{userID}/aggregates", func(w http.ResponseWriter, r *http.Request) {
			userID := chi.URLParam(r, "userID")
			if ef := validate.Required("userID", userID); ef != nil {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", ef.Msg, nil)
				return
			}
			agg, err := d.AggregateSvc.Get(r.Context(), userID)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					httpx.WriteError(w, http.StatusNotFound, "not_found", "no data found for user "+userID, nil)
					return
				}
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, agg)
		})

		r.Post("/users/aggregates", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				UserIDs []string `json:"user_ids"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.UserIDs) == 0 {
				httpx.WriteError(w, http.StatusBadRequest, "bad_request", "user_ids required", nil)
				return
			}
			aggs, err := d.AggregateSvc.GetMany(r.Context(), req.UserIDs)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, aggs)
		})

		r.Get("/users/{userID}/transactions", func(w http.ResponseWriter, r *http.Request) {
			userID := chi.URLParam(r, "userID")
			limit, offset := 50, 0
			if v := r.URL.Query().Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					limit = n
				}
			}
			if v := r.URL.Query().Get("offset"); v != "" {
				if n, err := strconv.Atoi(v); err == nil && n >= 0 {
					offset = n
				}
			}
			txs, err := d.AggregateSvc.Transactions(r.Context(), userID, limit, offset)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, txs)
		})

		// ---------- payouts ----------
		r.Get("/payouts/requests", func(w http.ResponseWriter, r *http.Request) {
			totals, err := d.PayoutSvc.PendingTotals(r.Context())
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{"requests": totals})
		})

		r.Get("/payouts/requests/{userID}", func(w http.ResponseWriter, r *http.Request) {
			userID := chi.URLParam(r, "userID")
			totals, err := d.PayoutSvc.PendingTotalsForUser(r.Context(), userID)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			details, err := d.PayoutSvc.PendingDetails(r.Context(), userID)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, map[string]any{
				"totals":  totals,
				"details": details,
			})
		})

		r.Get("/payouts/statistics", func(w http.ResponseWriter, r *http.Request) {
			stats, err := d.PayoutSvc.Stats(r.Context())
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal_error", err.Error(), nil)
				return
			}
			httpx.WriteJSON(w, http.StatusOK, stats)
		})

		r.Group(func(r chi.Router) {
			r.Use(authmw.Auth, middleware.RequireRole("admin"))
			r.Post("/payouts/{id}/process", func(w http.ResponseWriter, r *http.Request) {
				id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
				if err != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", "invalid payout id", nil)
					return
				}
				if ef := validate.MinInt("id", id, 1); ef != nil {
					httpx.WriteError(w, http.StatusBadRequest, "bad_request", ef.Msg, nil)
					return
				}
				d.PayoutSvc.Process(id)
				w.WriteHeader(http.StatusAccepted)
				_ = json.NewEncoder(w).Encode(map[string]any{"accepted": true})
			})
		})
	})

	return r
}
