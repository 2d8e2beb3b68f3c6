// Package metrics exports direct-upload telemetry to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Observer captures telemetry for adapter operations.
type Observer interface {
	ObserveOperation(filesystem, operation string, duration time.Duration, err error)
}

// PrometheusObserver exports adapter metrics to Prometheus.
type PrometheusObserver struct {
	duration *prometheus.HistogramVec
	errors   *prometheus.CounterVec
}

// NewPrometheusObserver registers the operation histogram and error counter.
func NewPrometheusObserver(namespace string, reg prometheus.Registerer) (*PrometheusObserver, error) {
	if namespace == "" {
		namespace = "webfile"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "directupload",
		Name:      "operation_duration_seconds",
		Help:      "Latency of direct-upload adapter operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"filesystem", "operation"})
	errs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "directupload",
		Name:      "operation_errors_total",
		Help:      "Count of failed direct-upload adapter operations.",
	}, []string{"filesystem", "operation"})

	var err error
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if errs, err = register(reg, errs); err != nil {
		return nil, err
	}
	return &PrometheusObserver{duration: duration, errors: errs}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register direct upload metric: %w", err)
	}
	return c, nil
}

func (o *PrometheusObserver) ObserveOperation(filesystem, operation string, duration time.Duration, err error) {
	if o == nil {
		return
	}
	o.duration.WithLabelValues(filesystem, operation).Observe(duration.Seconds())
	if err != nil {
		o.errors.WithLabelValues(filesystem, operation).Inc()
	}
}
