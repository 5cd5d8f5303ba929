// Package metrics accumulates training statistics over a window of steps
// and summarizes them for periodic progress logging.
package metrics

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Window accumulates per-step measurements since the last snapshot.
type Window struct {
	start       time.Time
	images      int
	steps       int
	dataTime    time.Duration
	computeTime time.Duration
	losses      []float64
}

// NewWindow creates an empty measurement window.
func NewWindow() *Window {
	return &Window{start: time.Now()}
}

// Record adds one training step's measurements.
func (w *Window) Record(batchSize int, dataTime, computeTime time.Duration, loss float64) {
	w.images += batchSize
	w.steps++
	w.dataTime += dataTime
	w.computeTime += computeTime
	w.losses = append(w.losses, loss)
}

// Snapshot summarizes the window and resets it.
type Snapshot struct {
	Images       int
	Steps        int
	ImagesPerSec float64
	AvgDataMS    float64
	AvgComputeMS float64
	MeanLoss     float64
	StdLoss      float64
	LastLoss     float64
}

// Snapshot returns a summary of the window since the last snapshot and
// resets the accumulators.
func (w *Window) Snapshot() Snapshot {
	elapsed := time.Since(w.start)

	s := Snapshot{
		Images: w.images,
		Steps:  w.steps,
	}
	if elapsed > 0 {
		s.ImagesPerSec = float64(w.images) / elapsed.Seconds()
	}
	if w.steps > 0 {
		s.AvgDataMS = float64(w.dataTime.Milliseconds()) / float64(w.steps)
		s.AvgComputeMS = float64(w.computeTime.Milliseconds()) / float64(w.steps)
	}
	if len(w.losses) > 0 {
		s.MeanLoss = stat.Mean(w.losses, nil)
		s.StdLoss = stat.StdDev(w.losses, nil)
		s.LastLoss = w.losses[len(w.losses)-1]
	}

	w.start = time.Now()
	w.images = 0
	w.steps = 0
	w.dataTime = 0
	w.computeTime = 0
	w.losses = w.losses[:0]

	return s
}
