// Package metrics exposes Prometheus instrumentation for the API and the worker.
// A nil *Collector is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	registry *prometheus.Registry
	logger   *slog.Logger

	httpRequests        *prometheus.CounterVec
	httpDuration        *prometheus.HistogramVec
	ledgerTransactions  *prometheus.CounterVec
	insufficientBalance prometheus.Counter
	recurringGenerated  prometheus.Counter
	recurringFailed     prometheus.Counter
	zakatPayments       *prometheus.CounterVec
	metalRateLookups    *prometheus.CounterVec
	eventsPublished     *prometheus.CounterVec
	billsPaid           prometheus.Counter
	savingsContributed  *prometheus.CounterVec
}

func NewCollector(logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		logger:   logger,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hifzmaal_http_request_duration_seconds",
			Help:    "Time taken to serve an HTTP request",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ledgerTransactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_ledger_transactions_total",
			Help: "Ledger transactions created by type and resulting status",
		}, []string{"type", "status"}),
		insufficientBalance: factory.NewCounter(prometheus.CounterOpts{
			Name: "hifzmaal_insufficient_balance_total",
			Help: "Expenses rejected because the account balance was too low",
		}),
		recurringGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "hifzmaal_recurring_generated_total",
			Help: "Occurrences generated by the recurring expander",
		}),
		recurringFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "hifzmaal_recurring_failed_total",
			Help: "Recurring roots that failed to expand",
		}),
		zakatPayments: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_zakat_payments_total",
			Help: "Zakat payments recorded by payment type",
		}, []string{"payment_type"}),
		metalRateLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_metal_rate_lookups_total",
			Help: "Metal rate lookups by result (hit, miss, fallback)",
		}, []string{"result"}),
		eventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_events_published_total",
			Help: "Domain events published by type and result",
		}, []string{"type", "result"}),
		billsPaid: factory.NewCounter(prometheus.CounterOpts{
			Name: "hifzmaal_bills_paid_total",
			Help: "Bills marked as paid",
		}),
		savingsContributed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hifzmaal_savings_contributions_total",
			Help: "Savings goal contributions by source (manual, auto)",
		}, []string{"source"}),
	}
}

func (m *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Collector) RecordLedgerTransaction(txType, status string) {
	if m == nil {
		return
	}
	m.ledgerTransactions.WithLabelValues(txType, status).Inc()
}

func (m *Collector) RecordInsufficientBalance() {
	if m == nil {
		return
	}
	m.insufficientBalance.Inc()
}

func (m *Collector) RecordRecurringRun(generated, failed int) {
	if m == nil {
		return
	}
	m.recurringGenerated.Add(float64(generated))
	m.recurringFailed.Add(float64(failed))
}

func (m *Collector) RecordZakatPayment(paymentType string) {
	if m == nil {
		return
	}
	m.zakatPayments.WithLabelValues(paymentType).Inc()
}

func (m *Collector) RecordBillPaid() {
	if m == nil {
		return
	}
	m.billsPaid.Inc()
}

// RecordSavingsContribution counts a contribution; source is manual or auto.
func (m *Collector) RecordSavingsContribution(source string) {
	if m == nil {
		return
	}
	m.savingsContributed.WithLabelValues(source).Inc()
}

// RecordMetalRateLookup counts a metal rate lookup; result is hit, miss or fallback.
func (m *Collector) RecordMetalRateLookup(result string) {
	if m == nil {
		return
	}
	m.metalRateLookups.WithLabelValues(result).Inc()
}

func (m *Collector) RecordEventPublished(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.eventsPublished.WithLabelValues(eventType, result).Inc()
}

func (m *Collector) GetHandler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// StartMetricsServer serves /metrics on addr in the background.
func (m *Collector) StartMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.GetHandler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		m.logger.Info("Starting metrics server", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("Metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return server
}

// Shutdown stops a server started by StartMetricsServer.
func (m *Collector) Shutdown(ctx context.Context, server *http.Server) error {
	if server == nil {
		return nil
	}
	m.logger.Info("Shutting down metrics server")
	return server.Shutdown(ctx)
}
