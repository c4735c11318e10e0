package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

// InitReporting enables Sentry error reporting. An empty dsn disables it and
// is not an error.
func InitReporting(dsn, environment, release string) error {
	if dsn == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      environment,
		Release:          release,
		AttachStacktrace: true,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			return scrubEvent(event)
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sentry: %w", err)
	}
	return nil
}

// FlushReporting waits for buffered events to be sent.
func FlushReporting() {
	sentry.Flush(2 * time.Second)
}

// reportError sends err to Sentry with the request route. It is a no-op when
// reporting is disabled.
func reportError(r *http.Request, err error) {
	hub := sentry.CurrentHub().Clone()
	hub.Scope().SetRequest(r)
	hub.Scope().SetTag("route", routePattern(r))
	hub.CaptureException(err)
}

// scrubEvent drops cookies and query strings, which can carry session tokens
// and API keys.
func scrubEvent(event *sentry.Event) *sentry.Event {
	if event == nil {
		return nil
	}
	event.User.IPAddress = ""
	if event.Request != nil {
		event.Request.Cookies = ""
		event.Request.QueryString = ""
		delete(event.Request.Headers, "Cookie")
		delete(event.Request.Headers, "Authorization")
	}
	return event
}
