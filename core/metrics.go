package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	resultOK     = "ok"
	resultFailed = "failed"
	resultError  = "error"
)

var fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "onstar",
	Name:      "fetch_total",
	Help:      "Number of status fetches by result",
}, []string{"result"})
