// Package metrics содержит метрики Prometheus сервиса рекомендаций.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "travel_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	RecommendationsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "travel_recommendations_returned",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		},
	)

	ChatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_chat_requests_total",
			Help: "Total number of chat messages by outcome",
		},
		[]string{"outcome"}, // "recommended", "no_results", "refused"
	)

	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_llm_calls_total",
			Help: "Total number of language model calls",
		},
		[]string{"operation", "result"}, // result: "ok", "error", "fallback"
	)

	DatasetReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "travel_dataset_reloads_total",
			Help: "Total number of dataset reload attempts",
		},
		[]string{"result"},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "travel_dataset_rows",
			Help: "Number of observations in the live dataset",
		},
	)

	ChatStoreErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "travel_chat_store_errors_total",
			Help: "Total number of failed chat history writes",
		},
	)
)

// RecordAPIRequest записывает метрики одного HTTP-запроса.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendations записывает размер выдачи движка.
func RecordRecommendations(n int) {
	RecommendationsReturned.Observe(float64(n))
}

// RecordChat записывает исход обработки сообщения чата.
func RecordChat(outcome string) {
	ChatRequestsTotal.WithLabelValues(outcome).Inc()
}

// RecordLLMCall записывает вызов языковой модели.
func RecordLLMCall(operation, result string) {
	LLMCallsTotal.WithLabelValues(operation, result).Inc()
}

// RecordDatasetReload записывает попытку перезагрузки датасета.
func RecordDatasetReload(rows int, err error) {
	if err != nil {
		DatasetReloadsTotal.WithLabelValues("error").Inc()
		return
	}
	DatasetReloadsTotal.WithLabelValues("ok").Inc()
	DatasetRows.Set(float64(rows))
}

// RecordChatStoreError записывает неудачную запись истории чата.
func RecordChatStoreError() {
	ChatStoreErrors.Inc()
}
