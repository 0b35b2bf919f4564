package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request tagged with a fresh request id and returns the
// status and the full body.
func (c *HTTPClient) Get(ctx context.Context, url string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Request-ID", "probe-"+uuid.NewString())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// fetchContacts issues cfg.Requests GETs across cfg.Workers goroutines.
func fetchContacts(ctx context.Context, cfg *Config, log logrus.FieldLogger) []result {
	log.Infof("fetching contacts %d times with %d workers", cfg.Requests, cfg.Workers)

	client := newHTTPClient(cfg.Timeout)
	url := cfg.BaseURL + "/contacts"

	results := make([]result, cfg.Requests)
	jobs := make(chan int, cfg.Workers*2)
	var done int64
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				start := time.Now()
				status, body, err := client.Get(ctx, url)
				results[i] = result{status: status, body: body, latency: time.Since(start), err: err}

				n := atomic.AddInt64(&done, 1)
				log.WithFields(logrus.Fields{
					"worker":  workerID,
					"request": i,
					"status":  status,
					"bytes":   len(body),
					"latency": results[i].latency,
				}).Debugf("response %d/%d", n, cfg.Requests)
			}
		}(w)
	}

	go func() {
		defer close(jobs)
		for i := 0; i < cfg.Requests; i++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	// Requests never dispatched because ctx ended count as failures.
	for i := range results {
		if results[i].status == 0 && results[i].err == nil {
			results[i].err = ctx.Err()
		}
	}
	return results
}
