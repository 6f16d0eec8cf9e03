package service

import (
	"todo_api/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	TaskOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_task_operations_total",
			Help: "Task store operations by kind and outcome",
		},
		[]string{"op", "outcome"},
	)
	CommandIntents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "todo_command_intents_total",
			Help: "Chat commands classified by intent",
		},
		[]string{"intent"},
	)
)

func init() {
	prometheus.MustRegister(TaskOperations)
	prometheus.MustRegister(CommandIntents)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case domain.IsNotFound(err):
		return "not_found"
	case domain.IsValidation(err):
		return "invalid"
	default:
		return "error"
	}
}
