package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Peticiones HTTP atendidas por método, ruta y estado.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total de peticiones HTTP atendidas",
	}, []string{"method", "route", "status"})

	// Latencia de las peticiones HTTP.
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de las peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// Transacciones cerradas por la unidad de trabajo (commit | rollback).
	Transactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "uow_transactions_total",
		Help: "Transacciones finalizadas por resultado",
	}, []string{"outcome"})

	// Códigos de verificación emitidos.
	AuthCodesIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_codes_issued_total",
		Help: "Códigos de verificación emitidos",
	})

	// Intentos de verificación por resultado (ok, restored, rejected).
	AuthLogins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_logins_total",
		Help: "Verificaciones de código por resultado",
	}, []string{"result"})
)

var once sync.Once

// Init registra las métricas en el registro por defecto. Es idempotente.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequests,
			HTTPRequestDuration,
			Transactions,
			AuthCodesIssued,
			AuthLogins,
		)
	})
}
