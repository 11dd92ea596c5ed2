// Package observability holds the Prometheus collectors of the order
// lifecycle.
package observability

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
)

// Order outcomes recorded on bakery_orders_total.
const (
	OutcomeCreated           = "created"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeInvalid           = "invalid"
	OutcomeNotFound          = "not_found"
	OutcomeDuplicate         = "duplicate"
	OutcomePersistence       = "persistence_error"
	OutcomeError             = "error"
)

// Metrics exposes the collectors of the point-of-sale service.
type Metrics struct {
	orders              *prometheus.CounterVec
	invoicesDeleted     *prometheus.CounterVec
	shortages           *prometheus.CounterVec
	duration            *prometheus.HistogramVec
	persistenceFailures *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the collectors against registerer. A nil registerer
// uses the default Prometheus registerer, registering only once.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	orders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_orders_total",
		Help: "Order creation attempts partitioned by outcome.",
	}, []string{"outcome"})
	deleted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_invoices_deleted_total",
		Help: "Invoices deleted, partitioned by whether the order was deleted too.",
	}, []string{"order_deleted"})
	shortages := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_stock_shortages_total",
		Help: "Materials reported short when an order was rejected.",
	}, []string{"material_id"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bakery_mutation_duration_seconds",
		Help:    "Duration in seconds of state mutations including persistence.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	persistence := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bakery_persistence_failures_total",
		Help: "Failed commits partitioned by collection.",
	}, []string{"collection"})
	registerer.MustRegister(orders, deleted, shortages, duration, persistence)
	return &Metrics{
		orders:              orders,
		invoicesDeleted:     deleted,
		shortages:           shortages,
		duration:            duration,
		persistenceFailures: persistence,
	}
}

// Tracker times one mutation.
type Tracker struct {
	metrics *Metrics
	op      string
	start   time.Time
}

// Track starts timing op.
func (m *Metrics) Track(op string) *Tracker {
	return &Tracker{metrics: m, op: op, start: time.Now()}
}

// End records the duration and, for persistence failures, the failing
// collection. err is returned untouched.
func (t *Tracker) End(err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	t.metrics.duration.WithLabelValues(t.op).Observe(time.Since(t.start).Seconds())
	var perr *bakery.PersistenceError
	if errors.As(err, &perr) {
		t.metrics.persistenceFailures.WithLabelValues(string(perr.Collection)).Inc()
	}
	return err
}

// ObserveOrder counts an order attempt and, when it was rejected for stock,
// each short material.
func (m *Metrics) ObserveOrder(err error) {
	if m == nil {
		return
	}
	m.orders.WithLabelValues(Outcome(err)).Inc()
	var stock *bakery.InsufficientStockError
	if errors.As(err, &stock) {
		for _, s := range stock.Shortages {
			m.shortages.WithLabelValues(s.MaterialID).Inc()
		}
	}
}

// ObserveInvoiceDeleted counts a successful invoice deletion.
func (m *Metrics) ObserveInvoiceDeleted(orderDeleted bool) {
	if m == nil {
		return
	}
	m.invoicesDeleted.WithLabelValues(strconv.FormatBool(orderDeleted)).Inc()
}

// Outcome classifies an operation result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCreated
	case errors.Is(err, bakery.ErrInsufficientStock):
		return OutcomeInsufficientStock
	case errors.Is(err, bakery.ErrValidation):
		return OutcomeInvalid
	case errors.Is(err, bakery.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, bakery.ErrDuplicateKey):
		return OutcomeDuplicate
	case errors.Is(err, bakery.ErrPersistence):
		return OutcomePersistence
	}
	return OutcomeError
}
