package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Authorization
	AuthzDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authz_denied_total",
			Help: "Mutations refused by the ownership guard",
		},
		[]string{"policy"}, // content|account|role
	)
	LoginFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_login_failures_total",
			Help: "Rejected login attempts",
		},
	)

	// Content
	PostsPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "posts_published_total",
			Help: "Publish calls that succeeded",
		},
	)
	CommentsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Comments created",
		},
	)

	registerOnce sync.Once
)

const (
	PolicyContent = "content"
	PolicyAccount = "account"
	PolicyRole    = "role"
)

func Handler() http.Handler { return promhttp.Handler() }

// Init registers every collector with the default registry. Safe to call more
// than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			AuthzDenied,
			LoginFailures,
			PostsPublished,
			CommentsCreated,
		)
	})
}
