// Copyright (c) 2025 The Meridian developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestNoopByDefault(t *testing.T) {
	// before the prometheus backend is installed every meter is a no-op
	Counter("noop_counter").Add(1)
	CounterVec("noop_counter_vec", []string{"a"}).AddWithLabel(1, map[string]string{"a": "b"})
	Gauge("noop_gauge").Set(42)
	assert.Nil(t, HTTPHandler())
}

func TestLazyLoad(t *testing.T) {
	calls := 0
	lazy := LazyLoad(func() CountMeter {
		calls++
		return Counter("lazy_counter")
	})
	lazy().Add(1)
	lazy().Add(1)
	assert.Equal(t, 1, calls)
}

func TestPromMetrics(t *testing.T) {
	InitializePrometheusMetrics()

	Counter("count1").Add(1)
	Counter("count1").Add(2)

	CounterVec("count_vec1", []string{"kind"}).
		AddWithLabel(5, map[string]string{"kind": "yes"})
	Gauge("gauge1").Set(7)

	require.NotNil(t, HTTPHandler())

	gathered, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily)
	for _, family := range gathered {
		byName[family.GetName()] = family
	}

	count1 := byName[namespace+"_count1"]
	require.NotNil(t, count1)
	assert.Equal(t, float64(3), count1.GetMetric()[0].GetCounter().GetValue())

	gauge1 := byName[namespace+"_gauge1"]
	require.NotNil(t, gauge1)
	assert.Equal(t, float64(7), gauge1.GetMetric()[0].GetGauge().GetValue())
}
