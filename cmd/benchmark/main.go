package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds the benchmark settings
var (
	targetURL   string
	concurrency int
	duration    time.Duration
	workload    string
	replayRate  float64
)

// Metrics
var (
	totalRequests uint64
	success200    uint64 // Idempotent replays
	success201    uint64 // Created
	fail4xx       uint64
	failOther     uint64
)

func init() {
	flag.StringVar(&targetURL, "url", "http://localhost:8080", "API Base URL")
	flag.IntVar(&concurrency, "workers", 10, "Number of concurrent workers")
	flag.DurationVar(&duration, "duration", 30*time.Second, "Test duration")
	flag.StringVar(&workload, "workload", "uniform", "Workload type: uniform | hotspot")
	flag.Float64Var(&replayRate, "replays", 0.0, "Fraction of requests that deliberately reuse a previous idempotency key")
}

func main() {
	flag.Parse()
	log.Printf("Starting Benchmark: %s | Workers: %d | Duration: %s | Replay rate: %.2f", workload, concurrency, duration, replayRate)

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(concurrency)

	for i := 0; i < concurrency; i++ {
		go worker(&wg, i, start)
	}

	wg.Wait()
	printResults(time.Since(start))
}

func worker(wg *sync.WaitGroup, id int, start time.Time) {
	defer wg.Done()
	client := &http.Client{Timeout: 5 * time.Second}

	var lastKey string
	seq := 0

	for time.Since(start) < duration {
		userID := pickUser()
		seq++

		// Reusing a key exercises the replay path: the server must answer 200
		// with the original outcome and must not credit again.
		key := lastKey
		if key == "" || rand.Float64() >= replayRate {
			key = fmt.Sprintf("bench-%d-%d-%d", id, seq, time.Now().UnixNano())
			lastKey = key
		}

		endpoint, body := buildRequest(userID)

		req, _ := http.NewRequest("POST", targetURL+endpoint, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", key)

		resp, err := client.Do(req)
		if err != nil {
			atomic.AddUint64(&failOther, 1)
			continue
		}

		atomic.AddUint64(&totalRequests, 1)
		switch {
		case resp.StatusCode == 201:
			atomic.AddUint64(&success201, 1)
		case resp.StatusCode == 200:
			atomic.AddUint64(&success200, 1)
		case resp.StatusCode >= 400 && resp.StatusCode < 500:
			atomic.AddUint64(&fail4xx, 1)
		default:
			atomic.AddUint64(&failOther, 1)
		}
		resp.Body.Close()
	}
}

func pickUser() string {
	// Assumes 1000 wallets seeded (user-1 .. user-1000)
	totalUsers := 1000

	if workload == "hotspot" {
		// Hotspot: 90% of traffic hits one wallet, maximizing lock contention
		if rand.Float32() < 0.90 {
			return "user-1"
		}
	}

	return fmt.Sprintf("user-%d", rand.Intn(totalUsers)+1)
}

func buildRequest(userID string) (string, []byte) {
	if rand.Float32() < 0.5 {
		payload := map[string]interface{}{
			"user_id":    userID,
			"amount_usd": 1.0,
		}
		body, _ := json.Marshal(payload)
		return "/api/v1/wallet/topup", body
	}

	payload := map[string]interface{}{
		"user_id":   userID,
		"amount":    int64(5),
		"reward_id": "bench-reward",
	}
	body, _ := json.Marshal(payload)
	return "/api/v1/game/reward", body
}

func printResults(d time.Duration) {
	total := atomic.LoadUint64(&totalRequests)
	s201 := atomic.LoadUint64(&success201)
	s200 := atomic.LoadUint64(&success200)
	f4xx := atomic.LoadUint64(&fail4xx)
	fErr := atomic.LoadUint64(&failOther)

	tps := float64(total) / d.Seconds()

	results := map[string]interface{}{
		"workload":        workload,
		"duration_sec":    d.Seconds(),
		"total_requests":  total,
		"throughput_tps":  tps,
		"success_created": s201,
		"success_replay":  s200,
		"client_errors":   f4xx,
		"errors":          fErr,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", workload)
	file, _ := os.Create(filename)
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
