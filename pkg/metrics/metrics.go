package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Métricas del motor de stock y del servidor HTTP.
var (
	StockMovementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Movimientos de stock registrados, por tipo",
	}, []string{"type"})

	StockOperationsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_operations_failed_total",
		Help: "Operaciones de stock rechazadas, por motivo",
	}, []string{"reason"})

	StockReservationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "stock_reservation_latency_seconds",
		Help:    "Latencia de reservas de stock",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Peticiones HTTP atendidas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de peticiones HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
