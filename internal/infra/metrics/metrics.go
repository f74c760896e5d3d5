package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	botMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_messages_total",
			Help: "Total number of inbound WhatsApp messages handled by the bot",
		},
		[]string{"outcome"},
	)

	leadsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_created_total",
			Help: "Total number of leads created by the bot",
		},
		[]string{"service"},
	)

	followUps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followups_total",
			Help: "Follow-up reminders by reminder and outcome",
		},
		[]string{"reminder", "outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

func RecordMessage(outcome string) {
	botMessages.WithLabelValues(outcome).Inc()
}

func RecordLeadCreated(service string) {
	leadsCreated.WithLabelValues(service).Inc()
}

func RecordFollowUp(reminder, outcome string) {
	followUps.WithLabelValues(reminder, outcome).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}
