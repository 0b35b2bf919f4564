package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/contacts/internal/probe"
)

// Default configuration constants.
const (
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL  = flag.String("url", probe.DefaultBaseURL, "Base URL of the service")
		requests = flag.Int("requests", probe.DefaultRequests, "Number of GET /contacts requests")
		workers  = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout  = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		expect   = flag.Int("expect", probe.ExpectUnchecked, "Expected number of contacts (-1 skips the check)")
		verbose  = flag.Bool("verbose", false, "Log every response")
		help     = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp(os.Stdout)
		return
	}

	log := probe.NewConsole(os.Stdout, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultRunTimeout)
	defer cancel()

	cfg := &probe.Config{
		BaseURL:  *baseURL,
		Requests: *requests,
		Workers:  *workers,
		Timeout:  *timeout,
		Expect:   *expect,
		Verbose:  *verbose,
	}

	if _, err := probe.Run(ctx, cfg, log); err != nil {
		log.WithError(err).Error("probe failed")
		cancel()
		stop()
		os.Exit(1)
	}
}
