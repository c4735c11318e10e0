package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cinestream_http_requests_total",
	Help: "HTTP requests by method, route and status.",
}, []string{"method", "route", "status"})

var httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "cinestream_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

var upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cinestream_tmdb_requests_total",
	Help: "Proxied TMDB requests by outcome.",
}, []string{"outcome"})

var authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "cinestream_auth_events_total",
	Help: "Authentication events by type and result.",
}, []string{"event", "result"})
