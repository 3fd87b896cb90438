// Package natsconn provides the NATS connection factory with fail-fast
// semantics: event publishing is an optional subsystem, and the caller
// decides whether a connect failure is fatal.
package natsconn

import (
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

// Options configures the NATS connection behaviour.
// Zero values fall back to built-in defaults.
type Options struct {
	URL           string
	MaxReconnects int           // default 5
	ReconnectWait time.Duration // default 2s
}

// Connect establishes a NATS connection and returns a JetStream context
// for async publishing.
func Connect(opts Options) (*nats.Conn, nats.JetStreamContext, error) {
	if opts.URL == "" {
		opts.URL = nats.DefaultURL
	}
	if opts.MaxReconnects == 0 {
		opts.MaxReconnects = 5
	}
	if opts.ReconnectWait == 0 {
		opts.ReconnectWait = 2 * time.Second
	}

	nc, err := nats.Connect(opts.URL,
		nats.MaxReconnects(opts.MaxReconnects),
		nats.ReconnectWait(opts.ReconnectWait),
		nats.RetryOnFailedConnect(false),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("nats connect %s (max_reconnects=%d, wait=%s): %w",
			opts.URL, opts.MaxReconnects, opts.ReconnectWait, err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("nats jetstream: %w", err)
	}
	return nc, js, nil
}
