// Package metrics provides Prometheus metrics for the pricing pipeline. It
// only builds and updates metric instruments; exposing them over HTTP is the
// embedding caller's concern.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// Registry holds every metric instrument this module records.
type Registry struct {
	registry prometheus.Registerer

	modulesProcessedTotal prometheus.CounterVec
	moduleFailuresTotal   prometheus.CounterVec
	engineFaultsTotal     prometheus.CounterVec
	validationErrorsTotal prometheus.CounterVec
	refdataNotFoundTotal  prometheus.CounterVec

	moduleDuration  prometheus.HistogramVec
	refdataDuration prometheus.HistogramVec

	activeClaims prometheus.Gauge
	queueDepth   prometheus.GaugeVec

	mu sync.RWMutex
}

// NewRegistry creates and registers every metric against the global registerer.
func NewRegistry() *Registry {
	return NewRegistryWith(prometheus.DefaultRegisterer)
}

// NewRegistryWith creates and registers every metric against registerer, used
// in tests to avoid colliding with the global default registry.
func NewRegistryWith(registerer prometheus.Registerer) *Registry {
	m := &Registry{registry: registerer}

	m.modulesProcessedTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_modules_processed_total",
			Help: "Total module invocations by module name",
		},
		[]string{"module"},
	)
	m.registry.MustRegister(&m.modulesProcessedTotal)

	m.moduleFailuresTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_module_failures_total",
			Help: "Total module failures by module name and failure kind",
		},
		[]string{"module", "kind"},
	)
	m.registry.MustRegister(&m.moduleFailuresTotal)

	m.engineFaultsTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_engine_faults_total",
			Help: "Total engine faults by engine name and operation",
		},
		[]string{"engine", "operation"},
	)
	m.registry.MustRegister(&m.engineFaultsTotal)

	m.validationErrorsTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_validation_errors_total",
			Help: "Total claim validation failures by field",
		},
		[]string{"field"},
	)
	m.registry.MustRegister(&m.validationErrorsTotal)

	m.refdataNotFoundTotal = *prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_refdata_not_found_total",
			Help: "Total reference-data lookups that matched no row, by resource type",
		},
		[]string{"resource_type"},
	)
	m.registry.MustRegister(&m.refdataNotFoundTotal)

	m.moduleDuration = *prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claims_module_duration_seconds",
			Help:    "Module processing duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module"},
	)
	m.registry.MustRegister(&m.moduleDuration)

	m.refdataDuration = *prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "claims_refdata_query_duration_seconds",
			Help:    "Reference-data lookup duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource_type"},
	)
	m.registry.MustRegister(&m.refdataDuration)

	m.activeClaims = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "claims_in_flight",
		Help: "Claims currently being processed by the orchestrator",
	})
	m.registry.MustRegister(m.activeClaims)

	m.queueDepth = *prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "claims_queue_depth",
			Help: "Pending claim-processing tasks by queue name",
		},
		[]string{"queue_name"},
	)
	m.registry.MustRegister(&m.queueDepth)

	return m
}

// RecordModule records one module's outcome and duration.
func (m *Registry) RecordModule(module string, duration float64, err error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.modulesProcessedTotal.WithLabelValues(module).Inc()
	m.moduleDuration.WithLabelValues(module).Observe(duration)
	if err != nil {
		m.moduleFailuresTotal.WithLabelValues(module, failureKind(err)).Inc()
	}
}

// RecordEngineFault records a normalized vendor-engine fault.
func (m *Registry) RecordEngineFault(engine, operation string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.engineFaultsTotal.WithLabelValues(engine, operation).Inc()
}

// RecordValidationError records a claim validation failure by field.
func (m *Registry) RecordValidationError(field string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.validationErrorsTotal.WithLabelValues(field).Inc()
}

// RecordRefdataLookup records a reference-data lookup's duration and, when
// notFound is true, counts it against the not-found total as well.
func (m *Registry) RecordRefdataLookup(resourceType string, duration float64, notFound bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.refdataDuration.WithLabelValues(resourceType).Observe(duration)
	if notFound {
		m.refdataNotFoundTotal.WithLabelValues(resourceType).Inc()
	}
}

// IncrementActiveClaims marks a claim as entering processing.
func (m *Registry) IncrementActiveClaims() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.activeClaims.Inc()
}

// DecrementActiveClaims marks a claim as having finished processing.
func (m *Registry) DecrementActiveClaims() {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.activeClaims.Dec()
}

// SetQueueDepth sets the pending-task depth for a named queue.
func (m *Registry) SetQueueDepth(queueName string, depth int) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	m.queueDepth.WithLabelValues(queueName).Set(float64(depth))
}

// Handler returns an http.Handler serving this registry in Prometheus text
// format. Mounting it onto a server is the embedding caller's concern.
func (m *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry.(prometheus.Gatherer), promhttp.HandlerOpts{})
}

// failureKind classifies an error for the failure-count label against the
// error taxonomy in internal/claimerr.
func failureKind(err error) string {
	switch err.(type) {
	case *claimerr.UpstreamFailedError:
		return "upstream_failed"
	case *claimerr.EngineFaultError:
		return "engine_fault"
	case *claimerr.EngineBusyError:
		return "engine_busy"
	case *claimerr.ReferenceNotFoundError:
		return "reference_not_found"
	case *claimerr.ValidationError:
		return "validation"
	default:
		return "unknown"
	}
}
