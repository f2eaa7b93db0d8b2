// Package metrics содержит счётчики Prometheus для запросов клиента
// к API аутентификации. Счётчики регистрируются в реестре по умолчанию,
// приложение само решает, как их отдавать.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Возможные исходы обмена с сервером для метки outcome.
// Учитывается транспортный уровень: дошёл ли запрос и вернулся ли ответ.
const (
	OutcomeOK           = "ok"
	OutcomeNetworkError = "network_error"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tenant_platform",
	Subsystem: "auth_client",
	Name:      "requests_total",
	Help:      "Количество запросов к API аутентификации по операциям и исходам.",
}, []string{"op", "outcome"})

// ObserveRequest увеличивает счётчик запросов для операции op с данным исходом.
func ObserveRequest(op, outcome string) {
	requestsTotal.WithLabelValues(op, outcome).Inc()
}
