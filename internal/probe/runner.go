package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Run executes the complete probe: readiness, concurrent fetch, verification.
func Run(ctx context.Context, cfg *Config, log logrus.FieldLogger) (*Stats, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	stats := &Stats{StartTime: time.Now()}

	log.WithFields(logrus.Fields{
		"baseURL":  cfg.BaseURL,
		"requests": cfg.Requests,
		"workers":  cfg.Workers,
		"timeout":  cfg.Timeout.String(),
		"expect":   cfg.Expect,
	}).Info("starting contacts probe")

	// Step 1: Check service readiness
	if err := checkServiceReady(ctx, cfg, log); err != nil {
		return nil, err
	}

	// Step 2: Fetch concurrently
	results := fetchContacts(ctx, cfg, log)
	summarize(results, stats)

	// Step 3: Verify
	rows, err := verifyResults(results, cfg.Expect, log)
	stats.Rows = rows

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats, log)

	if err != nil {
		return stats, fmt.Errorf("result verification failed: %w", err)
	}
	log.Info("probe completed successfully")
	return stats, nil
}

func validate(cfg *Config) error {
	switch {
	case cfg == nil:
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	case cfg.BaseURL == "":
		return fmt.Errorf("%w: empty url", ErrInvalidConfig)
	case cfg.Requests <= 0:
		return fmt.Errorf("%w: requests must be positive", ErrInvalidConfig)
	case cfg.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case cfg.Expect < ExpectUnchecked:
		return fmt.Errorf("%w: expect must be -1 or a row count", ErrInvalidConfig)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return nil
}

// checkServiceReady verifies the service can reach its database.
func checkServiceReady(ctx context.Context, cfg *Config, log logrus.FieldLogger) error {
	log.Info("checking service readiness")

	status, _, err := newHTTPClient(cfg.Timeout).Get(ctx, cfg.BaseURL+"/readyz")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrNotReady, err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("%w: /readyz returned %d", ErrNotReady, status)
	}

	log.Info("service is ready")
	return nil
}

func summarize(results []result, stats *Stats) {
	var total time.Duration
	for _, r := range results {
		stats.Requests++
		if r.err != nil || r.status != http.StatusOK {
			stats.Failed++
			continue
		}
		stats.Successful++
		stats.BodyBytes += len(r.body)
		total += r.latency
		if stats.MinLatency == 0 || r.latency < stats.MinLatency {
			stats.MinLatency = r.latency
		}
		if r.latency > stats.MaxLatency {
			stats.MaxLatency = r.latency
		}
	}
	if stats.Successful > 0 {
		stats.AvgLatency = total / time.Duration(stats.Successful)
	}
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats, log logrus.FieldLogger) {
	var successRate, requestsPerSecond float64
	if stats.Requests > 0 {
		successRate = float64(stats.Successful) / float64(stats.Requests) * 100
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	log.WithFields(logrus.Fields{
		"requests":          stats.Requests,
		"successful":        stats.Successful,
		"failed":            stats.Failed,
		"rows":              stats.Rows,
		"bodyBytes":         stats.BodyBytes,
		"minLatency":        stats.MinLatency.String(),
		"avgLatency":        stats.AvgLatency.String(),
		"maxLatency":        stats.MaxLatency.String(),
		"duration":          stats.Duration.String(),
		"successRate":       successRate,
		"requestsPerSecond": requestsPerSecond,
	}).Info("final statistics")
}
