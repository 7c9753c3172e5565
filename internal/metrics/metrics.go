package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MarksTotal counts mark-attendance outcomes by kind. "accepted" is the
// success path; rejections are labeled with the gate that fired.
var MarksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "qrattend_marks_total",
	Help: "Attendance mark attempts by outcome.",
}, []string{"outcome"})

// SessionsCreated counts opened attendance sessions.
var SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
	Name: "qrattend_sessions_created_total",
	Help: "Attendance sessions opened.",
})
