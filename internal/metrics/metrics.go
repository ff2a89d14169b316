package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	CommandsSet = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asistencia", Name: "commands_set_total", Help: "Commands issued by the operator",
	}, []string{"kind"})
	CommandsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "asistencia", Name: "commands_delivered_total", Help: "Commands drained by scanner polls",
	})
	Recognitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asistencia", Name: "recognitions_total", Help: "Recognition claims by result",
	}, []string{"result"})
	CheckInWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asistencia", Name: "checkin_writes_total", Help: "Attendance append outcomes",
	}, []string{"status"})
)

func init() {
	prometheus.MustRegister(CommandsSet, CommandsDelivered, Recognitions, CheckInWrites)
}

func Handler() http.Handler { return promhttp.Handler() }
