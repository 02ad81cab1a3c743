package loadgen

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	BaseURL     string
	Profile     string
	Duration    time.Duration
	RPS         int
	Concurrency int
	Seed        int64
}

type Result struct {
	TotalRequests int64
	Failures      int64
	Status2xx     int64
	Status4xx     int64
	Status5xx     int64
}

type endpoint struct {
	method string
	path   string
	body   string
}

// Run drives synthetic traffic against the API so dashboards and alerts can
// be validated without the console. The profiles only hit endpoints that are
// safe without credentials: health, login rejections, and gated list routes.
func Run(ctx context.Context, cfg Config) (Result, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080"
	}
	if cfg.Duration <= 0 {
		cfg.Duration = 10 * time.Second
	}
	if cfg.RPS <= 0 {
		cfg.RPS = 15
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 5
	}

	client := &http.Client{Timeout: 5 * time.Second}
	endpoints := endpointsForProfile(cfg.Profile)
	if len(endpoints) == 0 {
		return Result{}, fmt.Errorf("unknown profile: %s", cfg.Profile)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	ctx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	var total, failures, s2xx, s4xx, s5xx int64
	jobs := make(chan endpoint, cfg.Concurrency*2)
	wg := sync.WaitGroup{}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ep := range jobs {
				var body *strings.Reader
				if ep.body != "" {
					body = strings.NewReader(ep.body)
				} else {
					body = strings.NewReader("")
				}
				req, err := http.NewRequestWithContext(ctx, ep.method, cfg.BaseURL+ep.path, body)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				if ep.body != "" {
					req.Header.Set("Content-Type", "application/json")
				}
				resp, err := client.Do(req)
				if err != nil {
					atomic.AddInt64(&failures, 1)
					continue
				}
				_ = resp.Body.Close()
				atomic.AddInt64(&total, 1)
				switch {
				case resp.StatusCode >= 200 && resp.StatusCode < 300:
					atomic.AddInt64(&s2xx, 1)
				case resp.StatusCode >= 400 && resp.StatusCode < 500:
					atomic.AddInt64(&s4xx, 1)
				case resp.StatusCode >= 500:
					atomic.AddInt64(&s5xx, 1)
				}
			}
		}()
	}

	ticker := time.NewTicker(time.Second / time.Duration(cfg.RPS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return Result{TotalRequests: total, Failures: failures, Status2xx: s2xx, Status4xx: s4xx, Status5xx: s5xx}, nil
		case <-ticker.C:
			jobs <- endpoints[rng.Intn(len(endpoints))]
		}
	}
}

func endpointsForProfile(profile string) []endpoint {
	health := endpoint{method: http.MethodGet, path: "/health/ready"}
	badLogin := endpoint{
		method: http.MethodPost,
		path:   "/api/v1/auth/login",
		body:   `{"email":"loadgen@example.com","password":"wrong"}`,
	}
	unauthorizedLists := []endpoint{
		{method: http.MethodGet, path: "/api/v1/tables?page=1&size=10"},
		{method: http.MethodGet, path: "/api/v1/products?page=1&size=10"},
		{method: http.MethodGet, path: "/api/v1/orders?page=1&size=10"},
	}

	switch strings.ToLower(profile) {
	case "", "mixed":
		return append([]endpoint{health, badLogin}, unauthorizedLists...)
	case "auth":
		return []endpoint{badLogin}
	case "error-heavy":
		return append([]endpoint{badLogin}, unauthorizedLists...)
	case "health":
		return []endpoint{health, {method: http.MethodGet, path: "/health/live"}}
	default:
		return nil
	}
}
