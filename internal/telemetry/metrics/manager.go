package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterObservations        *prometheus.CounterVec
	CounterTransitions         *prometheus.CounterVec
	CounterRejectedTransitions *prometheus.CounterVec
	CounterRepetitions         *prometheus.CounterVec
	CounterSessions            prometheus.Counter
	CounterSummaryCacheLookups *prometheus.CounterVec
	CounterDroppedObservations prometheus.Counter

	// gauges
	GaugeRequests      prometheus.Gauge
	GaugeLifeSignal    prometheus.Gauge
	GaugeLiveExercises prometheus.Gauge
	GaugeLiveSessions  prometheus.Gauge

	// histograms
	HistogramRequestDuration    *prometheus.HistogramVec
	HistogramRepetitionDuration *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("physiotrack", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("physiotrack", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterObservations := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "observations",
		Help:      "The total number of pose observations processed",
	}, []string{"exercise"})
	counterTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "state_transitions",
		Help:      "The total number of exercise state transitions",
	}, []string{"exercise", "from", "to"})
	counterRejectedTransitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rejected_state_transitions",
		Help:      "The total number of refused exercise state transitions",
	}, []string{"exercise", "from", "to"})
	counterRepetitions := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "repetitions",
		Help:      "The total number of completed repetitions",
	}, []string{"exercise", "side", "outcome"})
	counterSessions := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "sessions",
		Help:      "The total number of started sessions",
	})
	counterSummaryCacheLookups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "summary_cache_lookups",
		Help:      "Lookups of closed session reports",
	}, []string{"result"})
	counterDroppedObservations := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "dropped_observations",
		Help:      "Observations that arrived after their exercise was stopped",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "current_requests",
		Help:        "Current number of requests served",
		ConstLabels: nil,
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Subsystem:   subsystem,
		Name:        "life_signal",
		Help:        "Shows whether the service is alive",
		ConstLabels: nil,
	})
	gaugeLiveExercises := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_exercises",
		Help:      "Exercise runners currently alive",
	})
	gaugeLiveSessions := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_sessions",
		Help:      "Sessions currently open",
	})

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})
	histogramRepetitionDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "repetition_duration_seconds",
		Help:      "Time from the start of a repetition to its completion",
		Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 12, 20, 30},
	}, []string{"exercise"})

	return &Manager{
		CounterRequests:             counterRequests,
		CounterHandleRequestPanic:   counterHandleRequestPanic,
		CounterObservations:         counterObservations,
		CounterTransitions:          counterTransitions,
		CounterRejectedTransitions:  counterRejectedTransitions,
		CounterRepetitions:          counterRepetitions,
		CounterSessions:             counterSessions,
		CounterSummaryCacheLookups:  counterSummaryCacheLookups,
		CounterDroppedObservations:  counterDroppedObservations,
		GaugeRequests:               gaugeRequests,
		GaugeLifeSignal:             gaugeLifeSignal,
		GaugeLiveExercises:          gaugeLiveExercises,
		GaugeLiveSessions:           gaugeLiveSessions,
		HistogramRequestDuration:    histogramRequestDuration,
		HistogramRepetitionDuration: histogramRepetitionDuration,
	}
}
