package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

type options struct {
	logger    *zerolog.Logger
	registry  prometheus.Registerer
	now       func() time.Time
	stateHook func(from, to State)
}

// Option configures a Client.
type Option func(*options)

// WithLogger sets the base logger. Default: the global zerolog logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithRegisterer registers the client metrics with reg.
// Default: metrics are collected but not registered.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = reg
	}
}

// WithClock sets the clock used to stamp received text.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithStateHook calls fn on every lifecycle transition.
// fn runs synchronously and must not call back into the Client.
func WithStateHook(fn func(from, to State)) Option {
	return func(o *options) {
		o.stateHook = fn
	}
}
