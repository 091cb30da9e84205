package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"
)

var (
	targetURL    string
	totalWallets int
	initialUSD   float64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&totalWallets, "wallets", 1000, "Number of wallets to seed")
	flag.Float64Var(&initialUSD, "amount", 100.0, "Initial top-up per wallet in USD")
}

func main() {
	flag.Parse()
	log.Printf("--- Seeding %d wallets with $%.2f each ---", totalWallets, initialUSD)

	client := &http.Client{Timeout: 5 * time.Second}
	seeded := 0

	for i := 1; i <= totalWallets; i++ {
		payload := map[string]interface{}{
			"user_id":    fmt.Sprintf("user-%d", i),
			"amount_usd": initialUSD,
		}
		body, _ := json.Marshal(payload)

		req, err := http.NewRequest("POST", targetURL+"/api/v1/wallet/topup", bytes.NewBuffer(body))
		if err != nil {
			log.Fatalf("build request: %v", err)
		}
		req.Header.Set("Content-Type", "application/json")
		// Deterministic keys make re-running the seeder a no-op: the server
		// replays the original credit instead of stacking a second one.
		req.Header.Set("Idempotency-Key", fmt.Sprintf("seed-user-%d", i))

		resp, err := client.Do(req)
		if err != nil {
			log.Fatalf("seed user-%d: %v", i, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
			log.Fatalf("seed user-%d: unexpected status %d", i, resp.StatusCode)
		}
		seeded++
	}

	log.Printf("Successfully seeded %d wallets.", seeded)
}
