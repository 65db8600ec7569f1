// Copyright 2021 the u-root Authors. All rights reserved
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricOpts contains naming pieces of the exposed metric
type MetricOpts struct {
	Namespace string
	Subsystem string
	Name      string
}

// Counter creates and registers a prometheus.Counter, or returns the one
// already registered under the same name
func Counter(opts MetricOpts, help string) prometheus.Counter {
	c := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      help,
	})
	return register(c).(prometheus.Counter)
}

// Histogram creates and registers a prometheus.HistogramVec partitioned by
// labels, or returns the one already registered under the same name
func Histogram(opts MetricOpts, help string, labels []string) *prometheus.HistogramVec {
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: opts.Namespace,
		Subsystem: opts.Subsystem,
		Name:      opts.Name,
		Help:      help,
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, labels)
	return register(h).(*prometheus.HistogramVec)
}

// Name returns the fully qualified name the options produce
func Name(opts MetricOpts) string {
	return prometheus.BuildFQName(opts.Namespace, opts.Subsystem, opts.Name)
}

func register(c prometheus.Collector) prometheus.Collector {
	err := prometheus.Register(c)
	if err == nil {
		return c
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector
	}
	panic(err)
}
