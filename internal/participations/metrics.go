package participations

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	transitionJoin   = "join"
	transitionLeave  = "leave"
	transitionRemove = "remove"
)

var transitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "planazo_participation_transitions_total",
	Help: "Committed participation state changes by transition.",
}, []string{"transition"})
