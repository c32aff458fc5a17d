// Package telemetry reports errors to Sentry when a DSN is configured and
// is a no-op otherwise.
package telemetry

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/vytor/skillswap/internal/logger"
)

type Config struct {
	DSN              string
	Environment      string
	Release          string
	TracesSampleRate float64
	// BeforeSend may inspect or drop events before they are sent.
	BeforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event
}

var enabled atomic.Bool

// Init configures the global Sentry client. It returns false without error
// when cfg.DSN is empty.
func Init(cfg Config) (bool, error) {
	if cfg.DSN == "" {
		enabled.Store(false)
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
		BeforeSend:       cfg.BeforeSend,
	})
	if err != nil {
		enabled.Store(false)
		return false, fmt.Errorf("init sentry: %w", err)
	}
	enabled.Store(true)
	return true, nil
}

// Enabled reports whether events are being sent.
func Enabled() bool {
	return enabled.Load()
}

// Capture reports err, using the request's hub when ctx carries one. It
// returns the event id, or "" when nothing was sent.
func Capture(ctx context.Context, err error) string {
	if err == nil || !Enabled() {
		return ""
	}
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	id := hub.CaptureException(err)
	if id == nil {
		return ""
	}
	logger.FromContext(ctx).WithPrefix("telemetry").Debug("captured event %s", *id)
	return string(*id)
}

// Middleware attaches a per-request hub and reports panics. Panics are
// re-raised so the recovery middleware still writes the response.
func Middleware(next http.Handler) http.Handler {
	if !Enabled() {
		return next
	}
	return sentryhttp.New(sentryhttp.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	}).Handle(next)
}

// Flush waits up to timeout for buffered events to be delivered.
func Flush(timeout time.Duration) bool {
	if !Enabled() {
		return true
	}
	return sentry.Flush(timeout)
}
