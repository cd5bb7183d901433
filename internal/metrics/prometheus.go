package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paulson_ai_turns_total",
			Help: "Conversation turns processed, by outcome",
		},
		[]string{"status"},
	)

	EmotionsDetected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paulson_ai_emotions_detected_total",
			Help: "Detected emotions across all turns",
		},
		[]string{"emotion"},
	)

	ClassifierDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paulson_ai_classifier_duration_seconds",
			Help:    "Emotion classification latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "paulson_ai_generation_duration_seconds",
			Help:    "Reply generation latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)

	InteractionsLogged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paulson_ai_interactions_logged_total",
			Help: "Interaction records durably appended",
		},
	)

	LogFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paulson_ai_log_failures_total",
			Help: "Interaction appends that failed without aborting the turn",
		},
	)

	PlaceholderReplies = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paulson_ai_placeholder_replies_total",
			Help: "Turns answered with the missing-credential placeholder",
		},
	)

	ScoreCacheHits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paulson_ai_score_cache_hits_total",
			Help: "Emotion score cache hits",
		},
	)

	ScoreCacheMisses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "paulson_ai_score_cache_misses_total",
			Help: "Emotion score cache misses",
		},
	)

	AnalyticsRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "paulson_ai_analytics_requests_total",
			Help: "Analytics computations, by result",
		},
		[]string{"result"},
	)
)

func Init() {
	prometheus.MustRegister(TurnsTotal)
	prometheus.MustRegister(EmotionsDetected)
	prometheus.MustRegister(ClassifierDuration)
	prometheus.MustRegister(GenerationDuration)
	prometheus.MustRegister(InteractionsLogged)
	prometheus.MustRegister(LogFailures)
	prometheus.MustRegister(PlaceholderReplies)
	prometheus.MustRegister(ScoreCacheHits)
	prometheus.MustRegister(ScoreCacheMisses)
	prometheus.MustRegister(AnalyticsRequests)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
