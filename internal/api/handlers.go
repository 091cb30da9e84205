package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coinforge/walletd/internal/models"
	"github.com/coinforge/walletd/internal/service"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_http_requests_total",
		Help: "Total HTTP requests processed, labeled by status code",
	}, []string{"method", "endpoint", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wallet_http_request_duration_seconds",
		Help:    "Latency distribution of HTTP requests",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	}, []string{"method", "endpoint"})

	creditsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wallet_credits_total",
		Help: "Credit requests by kind and whether they were newly applied or idempotent replays",
	}, []string{"kind", "result"})
)

type Handler struct {
	ledger *service.Ledger
}

func NewHandler(l *service.Ledger) *Handler {
	return &Handler{ledger: l}
}

func (h *Handler) TopupHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/wallet/topup"))
	defer timer.ObserveDuration()

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		h.respondError(w, http.StatusBadRequest, "Missing Idempotency-Key header", "POST", "/wallet/topup")
		return
	}

	var req models.TopupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/wallet/topup")
		return
	}

	// 1 USD buys 1 coin; cents are truncated, not rounded.
	coins := int64(req.AmountUSD)

	outcome, replayed, err := h.ledger.Credit(r.Context(), service.CreditParams{
		UserID:         req.UserID,
		Amount:         coins,
		Kind:           models.KindTopup,
		IdempotencyKey: idempotencyKey,
	})
	h.respondCredit(w, models.KindTopup, "/wallet/topup", outcome, replayed, err)
}

func (h *Handler) RewardHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(httpRequestDuration.WithLabelValues("POST", "/game/reward"))
	defer timer.ObserveDuration()

	idempotencyKey := r.Header.Get("Idempotency-Key")
	if idempotencyKey == "" {
		h.respondError(w, http.StatusBadRequest, "Missing Idempotency-Key header", "POST", "/game/reward")
		return
	}

	var req models.RewardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Malformed JSON body", "POST", "/game/reward")
		return
	}

	outcome, replayed, err := h.ledger.Credit(r.Context(), service.CreditParams{
		UserID:         req.UserID,
		Amount:         req.Amount,
		Kind:           models.KindReward,
		Metadata:       req.RewardID,
		IdempotencyKey: idempotencyKey,
	})
	h.respondCredit(w, models.KindReward, "/game/reward", outcome, replayed, err)
}

func (h *Handler) GetWalletHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	view := h.ledger.WalletView(r.Context(), userID)
	h.respondJSON(w, http.StatusOK, view, "GET", "/wallet/{userId}")
}

func (h *Handler) respondCredit(w http.ResponseWriter, kind models.OperationKind, endpoint string, outcome models.CreditOutcome, replayed bool, err error) {
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidAmount):
			h.respondError(w, http.StatusUnprocessableEntity, "Positive amount required", "POST", endpoint)
		case errors.Is(err, service.ErrMissingIdempotencyKey):
			h.respondError(w, http.StatusBadRequest, "Missing Idempotency-Key header", "POST", endpoint)
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal Server Error", "POST", endpoint)
		}
		return
	}

	if replayed {
		creditsTotal.WithLabelValues(string(kind), "replayed").Inc()
		h.respondJSON(w, http.StatusOK, outcome, "POST", endpoint)
		return
	}

	creditsTotal.WithLabelValues(string(kind), "created").Inc()
	h.respondJSON(w, http.StatusCreated, outcome, "POST", endpoint)
}

// Helpers
func (h *Handler) respondJSON(w http.ResponseWriter, code int, payload interface{}, method, endpoint string) {
	httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, msg, method, endpoint string) {
	h.respondJSON(w, code, map[string]string{"error": msg}, method, endpoint)
}
