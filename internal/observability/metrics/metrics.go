// Package metrics holds the Prometheus instruments for the conversation
// pipeline. All observe methods are nil-safe so callers never need to
// guard against a disabled metrics setup.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConversationMetrics exposes counters/histograms for message processing
// and booking outcomes.
type ConversationMetrics struct {
	messagesTotal  *prometheus.CounterVec
	processLatency *prometheus.HistogramVec
	bookingsTotal  *prometheus.CounterVec
	llmFallbacks   prometheus.Counter
}

func NewConversationMetrics(reg prometheus.Registerer) *ConversationMetrics {
	m := &ConversationMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Subsystem: "conversation",
			Name:      "messages_total",
			Help:      "Total inbound messages processed",
		}, []string{"intent", "stage"}),
		processLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stagehand",
			Subsystem: "conversation",
			Name:      "process_latency_seconds",
			Help:      "Latency of message processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stagehand",
			Subsystem: "booking",
			Name:      "attempts_total",
			Help:      "Slot-choice confirmation attempts by outcome",
		}, []string{"outcome"}),
		llmFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stagehand",
			Subsystem: "conversation",
			Name:      "llm_fallback_total",
			Help:      "Messages answered by the LLM fallback responder",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.processLatency, m.bookingsTotal, m.llmFallbacks)
	return m
}

func (m *ConversationMetrics) ObserveMessage(intent, stage string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, stage).Inc()
}

func (m *ConversationMetrics) ObserveProcessLatency(stage string, seconds float64) {
	if m == nil {
		return
	}
	m.processLatency.WithLabelValues(stage).Observe(seconds)
}

func (m *ConversationMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(outcome).Inc()
}

func (m *ConversationMetrics) ObserveLLMFallback() {
	if m == nil {
		return
	}
	m.llmFallbacks.Inc()
}
