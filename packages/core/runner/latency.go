package runner

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// LatencyStats summarises the durations of repeated runs.
type LatencyStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Mean  time.Duration
	P50   time.Duration
	P95   time.Duration
	P99   time.Duration
}

type latencyRecorder struct {
	// 1us to 60s range, 3 significant digits
	histogram *hdrhistogram.Histogram
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

func (l *latencyRecorder) record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}
	_ = l.histogram.RecordValue(us)
}

func (l *latencyRecorder) stats() *LatencyStats {
	if l.histogram.TotalCount() == 0 {
		return nil
	}
	return &LatencyStats{
		Count: l.histogram.TotalCount(),
		Min:   time.Duration(l.histogram.Min()) * time.Microsecond,
		Max:   time.Duration(l.histogram.Max()) * time.Microsecond,
		Mean:  time.Duration(l.histogram.Mean()) * time.Microsecond,
		P50:   time.Duration(l.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(l.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(l.histogram.ValueAtQuantile(99)) * time.Microsecond,
	}
}
