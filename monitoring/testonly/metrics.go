// Copyright 2025 Google LLC. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testonly holds a conformance suite that every MetricFactory
// implementation is expected to pass.
package testonly

import (
	"testing"

	"github.com/google/bonsai/monitoring"
)

var metricLabels = []struct {
	suffix     string
	labelNames []string
	labelVals  []string
}{
	{
		suffix:     "0",
		labelNames: nil,
		labelVals:  nil,
	},
	{
		suffix:     "1",
		labelNames: []string{"key1"},
		labelVals:  []string{"val1"},
	},
	{
		suffix:     "2",
		labelNames: []string{"key1", "key2"},
		labelVals:  []string{"val1", "val2"},
	},
}

// TestCounter runs a test on a Counter produced from the provided MetricFactory.
func TestCounter(t *testing.T, factory monitoring.MetricFactory) {
	for _, test := range metricLabels {
		name := "test_counter" + test.suffix
		counter := factory.NewCounter(name, "Test only", test.labelNames...)
		if got, want := counter.Value(test.labelVals...), 0.0; got != want {
			t.Errorf("Counter(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		counter.Inc(test.labelVals...)
		if got, want := counter.Value(test.labelVals...), 1.0; got != want {
			t.Errorf("Counter(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		counter.Add(2.5, test.labelVals...)
		if got, want := counter.Value(test.labelVals...), 3.5; got != want {
			t.Errorf("Counter(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		// Use an invalid number of labels.
		libels := append(test.labelVals, "bogus")
		counter.Add(10.0, libels...)
		counter.Inc(libels...)
		if got, want := counter.Value(libels...), 0.0; got != want {
			t.Errorf("Counter(%s)[%v].Value()=%v; want %v", name, libels, got, want)
		}
	}
}

// TestGauge runs a test on a Gauge produced from the provided MetricFactory.
func TestGauge(t *testing.T, factory monitoring.MetricFactory) {
	for _, test := range metricLabels {
		name := "test_gauge" + test.suffix
		gauge := factory.NewGauge(name, "Test only", test.labelNames...)
		if got, want := gauge.Value(test.labelVals...), 0.0; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		gauge.Inc(test.labelVals...)
		if got, want := gauge.Value(test.labelVals...), 1.0; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		gauge.Dec(test.labelVals...)
		if got, want := gauge.Value(test.labelVals...), 0.0; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		gauge.Add(2.5, test.labelVals...)
		if got, want := gauge.Value(test.labelVals...), 2.5; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		gauge.Set(42.0, test.labelVals...)
		if got, want := gauge.Value(test.labelVals...), 42.0; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, test.labelVals, got, want)
		}
		// Use an invalid number of labels.
		libels := append(test.labelVals, "bogus")
		gauge.Add(10.0, libels...)
		gauge.Inc(libels...)
		gauge.Dec(libels...)
		gauge.Set(120.0, libels...)
		if got, want := gauge.Value(libels...), 0.0; got != want {
			t.Errorf("Gauge(%s)[%v].Value()=%v; want %v", name, libels, got, want)
		}
	}
}

// TestHistogram runs a test on a Histogram produced from the provided MetricFactory.
func TestHistogram(t *testing.T, factory monitoring.MetricFactory) {
	for _, test := range metricLabels {
		name := "test_histogram" + test.suffix
		histogram := factory.NewHistogram(name, "Test only", test.labelNames...)
		checkHistogram(t, name, histogram, test.labelVals)
	}
	// A histogram with explicit buckets must behave the same way.
	for _, test := range metricLabels {
		name := "test_bucket_histogram" + test.suffix
		histogram := factory.NewHistogramWithBuckets(name, "Test only", []float64{0.5, 1.5, 2.5}, test.labelNames...)
		checkHistogram(t, name, histogram, test.labelVals)
	}
}

func checkHistogram(t *testing.T, name string, histogram monitoring.Histogram, labelVals []string) {
	t.Helper()
	gotCount, gotSum := histogram.Info(labelVals...)
	if wantCount, wantSum := uint64(0), 0.0; gotCount != wantCount || gotSum != wantSum {
		t.Errorf("Histogram(%s)[%v].Info()=%v,%v; want %v,%v", name, labelVals, gotCount, gotSum, wantCount, wantSum)
	}
	histogram.Observe(1.0, labelVals...)
	histogram.Observe(2.0, labelVals...)
	histogram.Observe(3.0, labelVals...)
	gotCount, gotSum = histogram.Info(labelVals...)
	if wantCount, wantSum := uint64(3), 6.0; gotCount != wantCount || gotSum != wantSum {
		t.Errorf("Histogram(%s)[%v].Info()=%v,%v; want %v,%v", name, labelVals, gotCount, gotSum, wantCount, wantSum)
	}

	// Use an invalid number of labels.
	libels := append(labelVals, "bogus")
	histogram.Observe(100.0, libels...)
	histogram.Observe(200.0, libels...)
	gotCount, gotSum = histogram.Info(libels...)
	if wantCount, wantSum := uint64(0), 0.0; gotCount != wantCount || gotSum != wantSum {
		t.Errorf("Histogram(%s)[%v].Info()=%v,%v; want %v,%v", name, libels, gotCount, gotSum, wantCount, wantSum)
	}
}
