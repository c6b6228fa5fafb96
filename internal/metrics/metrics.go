// Package metrics содержит счётчики Prometheus для ключевых событий
// платёжного цикла и отправки кодов.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OTPSendsTotal — число отправленных одноразовых кодов.
	OTPSendsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bizportal_otp_sends_total",
		Help: "Number of one-time codes dispatched.",
	})

	// PaymentsConfirmedTotal — число подтверждённых платежей по видам заявок.
	PaymentsConfirmedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizportal_payments_confirmed_total",
		Help: "Number of successfully confirmed payments.",
	}, []string{"kind"})

	// PaymentsRejectedTotal — число отклонённых колбэков по причинам.
	PaymentsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bizportal_payments_rejected_total",
		Help: "Number of rejected payment callbacks.",
	}, []string{"reason"})
)
