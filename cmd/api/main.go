package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinforge/walletd/internal/api"
	"github.com/coinforge/walletd/internal/config"
	"github.com/coinforge/walletd/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Initialize Layers
	ledger := service.NewLedger()
	handler := api.NewHandler(ledger)

	// Router
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	apiV1 := r.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/wallet/topup", handler.TopupHandler).Methods("POST")
	apiV1.HandleFunc("/game/reward", handler.RewardHandler).Methods("POST")
	apiV1.HandleFunc("/wallet/{userId}", handler.GetWalletHandler).Methods("GET")

	log.Printf("Server starting on :%s (env=%s)", cfg.Port, cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
