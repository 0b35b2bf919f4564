package probe

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewConsole returns the logrus logger used for probe output.
func NewConsole(w io.Writer, verbose bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// ShowHelp prints usage information for the probe.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Contacts Probe
==============

Fires concurrent GET /contacts requests at a running contacts service and
checks that every response is a 200 carrying the same JSON array of contacts.

Usage:
  go run ./cmd/contacts-probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -requests int
        Number of GET /contacts requests (default 100)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -expect int
        Expected number of contacts, -1 to skip the check (default -1)
  -verbose
        Log every response
  -help
        Show this help message

Examples:
  # Probe a local service
  go run ./cmd/contacts-probe

  # Hammer with 64 workers and require 1200 rows
  go run ./cmd/contacts-probe -requests 5000 -workers 64 -expect 1200
`)
}
