/*
 * This file is part of ccbench.
 *
 * ccbench is free software: you can redistribute it and/or modify it under
 * the terms of the GNU General Public License as published by the Free Software Foundation,
 * either version 2 of the License, or (at your option) any later version.
 * ccbench is distributed in the hope that it will be useful, but WITHOUT ANY
 * WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS FOR A
 * PARTICULAR PURPOSE. See the GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License along
 * with ccbench. If not, see <https://www.gnu.org/licenses/>.
 */

// Package sampler is the metrics sampler that runs alongside a
// transfer: one performance sample per tick for a bounded duration,
// persisted as a CSV artifact when the run ends. Terminating it mid-run
// is expected; whatever was collected up to that point is what gets
// persisted.
package sampler

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/netbench/ccbench/datalogger"
	"github.com/netbench/ccbench/debug"
)

// Documented value ranges for synthesized samples. Until scheme
// wrappers export real counters these stand in for parsed uTP/TCP
// statistics, exactly like the reference wrappers do.
const (
	MinThroughputMbps  = 1.0
	MaxThroughputMbps  = 10.0
	MinRTTMs           = 100.0
	MaxRTTMs           = 300.0
	MaxLossRate        = 0.02
	MaxQueueingDelayMs = 50.0
)

// Sample is one performance observation. The Description tags are the
// column names of the metrics artifact consumed by the aggregator.
type Sample struct {
	ElapsedSeconds  float64 `Description:"timestamp"`
	ThroughputMbps  float64 `Description:"throughput"`
	RTTMs           float64 `Description:"rtt"`
	LossRate        float64 `Description:"loss_rate"`
	QueueingDelayMs float64 `Description:"queuing_delay"`
}

func synthesize(elapsed time.Duration) Sample {
	return Sample{
		ElapsedSeconds:  elapsed.Seconds(),
		ThroughputMbps:  MinThroughputMbps + rand.Float64()*(MaxThroughputMbps-MinThroughputMbps),
		RTTMs:           MinRTTMs + rand.Float64()*(MaxRTTMs-MinRTTMs),
		LossRate:        rand.Float64() * MaxLossRate,
		QueueingDelayMs: rand.Float64() * MaxQueueingDelayMs,
	}
}

// Collect records one sample per interval until duration has elapsed or
// ctx is canceled, whichever comes first, and returns the ordered
// (possibly partial) series. It never blocks its caller for longer than
// one tick past cancellation.
func Collect(ctx context.Context, duration time.Duration, interval time.Duration, debugging *debug.DebugWithPrefix) []Sample {
	samples := make([]Sample, 0)
	start := time.Now()
	deadline := start.Add(duration)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if debugging != nil && debug.IsDebug(debugging.Level) {
				fmt.Printf("%v: Sampling canceled after %d samples.\n", debugging, len(samples))
			}
			return samples
		case now := <-ticker.C:
			if now.After(deadline) {
				return samples
			}
			samples = append(samples, synthesize(now.Sub(start)))
		}
	}
}

// Persist writes the series to path through the CSV data logger,
// creating parent directories as needed. An empty series produces no
// artifact at all -- downstream code treats a missing artifact as a
// metrics-less run, which is a valid outcome.
func Persist(samples []Sample, path string) error {
	if len(samples) == 0 {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), os.FileMode(0o755)); err != nil {
		return fmt.Errorf("could not create metrics directory for %s: %w", path, err)
	}

	logger, err := datalogger.CreateCSVDataLogger[Sample](path)
	if err != nil {
		return fmt.Errorf("could not create metrics artifact %s: %w", path, err)
	}
	defer logger.Close()

	for _, s := range samples {
		logger.LogRecord(s)
	}
	if err := logger.Export(); err != nil {
		return fmt.Errorf("could not export metrics artifact %s: %w", path, err)
	}
	return nil
}

// Run collects for the given duration (respecting ctx) and persists the
// result to path.
func Run(ctx context.Context, path string, duration time.Duration, interval time.Duration, debugging *debug.DebugWithPrefix) error {
	return Persist(Collect(ctx, duration, interval, debugging), path)
}
