// Package probe drives concurrent GET /contacts requests against a running
// service and checks the responses agree with each other.
package probe

import "time"

// Defaults used by the CLI.
const (
	DefaultBaseURL  = "http://localhost:9080"
	DefaultRequests = 100
	DefaultTimeout  = 30 * time.Second
	// ExpectUnchecked disables the row count check.
	ExpectUnchecked = -1
)

// Config holds configuration for one probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of GET /contacts requests
	Workers  int           // Number of concurrent workers
	Timeout  time.Duration // HTTP request timeout
	Expect   int           // Expected row count, ExpectUnchecked to skip
	Verbose  bool          // Log every response
}

// Stats holds run statistics.
type Stats struct {
	Requests   int
	Successful int
	Failed     int
	Rows       int
	BodyBytes  int
	MinLatency time.Duration
	MaxLatency time.Duration
	AvgLatency time.Duration
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// result is the outcome of a single request.
type result struct {
	status  int
	body    []byte
	latency time.Duration
	err     error
}
