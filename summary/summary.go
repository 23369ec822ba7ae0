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

// Package summary is the derived-statistics generator: a pure function
// of the aggregate dataset that computes per-(profile, scheme)
// descriptive statistics and persists them as the rtt_summary and
// algorithm_comparison artifacts.
package summary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netbench/ccbench/aggregate"
	"github.com/netbench/ccbench/catalog"
	"github.com/netbench/ccbench/datalogger"
	"github.com/netbench/ccbench/distribution"
	"github.com/netbench/ccbench/executor"
	"github.com/netbench/ccbench/utilities"
)

const (
	RTTSummaryFilename = "rtt_summary.csv"
	ComparisonFilename = "algorithm_comparison.csv"
)

// RTTSummary is one group's latency statistics. The Description tags
// are the artifact's column headings.
type RTTSummary struct {
	Algorithm   string  `Description:"Algorithm"`
	Profile     string  `Description:"Profile"`
	LatencyMs   int     `Description:"Latency (ms)"`
	AvgRTTMs    float64 `Description:"Avg RTT (ms)"`
	MinRTTMs    float64 `Description:"Min RTT (ms)"`
	MaxRTTMs    float64 `Description:"Max RTT (ms)"`
	MedianRTTMs float64 `Description:"Median RTT (ms)"`
	StdDevMs    float64 `Description:"Std Dev (ms)"`
	P95Ms       float64 `Description:"95th %ile (ms)"`
	JitterMs    float64 `Description:"Jitter (ms)"`
}

// Comparison is one group's throughput/loss comparison record.
type Comparison struct {
	Profile           string  `Description:"Profile"`
	Algorithm         string  `Description:"Algorithm"`
	AvgThroughputMbps float64 `Description:"Avg Throughput (Mbps)"`
	ThroughputStdDev  float64 `Description:"Throughput Std Dev"`
	AvgRTTMs          float64 `Description:"Avg RTT (ms)"`
	AvgLossPercent    float64 `Description:"Avg Loss Rate (%)"`
	P90ThroughputMbps float64 `Description:"90% Throughput (Mbps)"`
}

type Generator struct {
	cat       catalog.Catalog
	graphsDir string
}

func New(cat catalog.Catalog, graphsDir string) *Generator {
	return &Generator{cat: cat, graphsDir: graphsDir}
}

// Generate computes one RTTSummary and one Comparison per (profile,
// scheme) group present in the dataset, in catalog order. It is a
// deterministic function of the dataset: recomputing is always safe.
// An empty dataset yields no records and only a warning.
func (g *Generator) Generate(data aggregate.Dataset) ([]RTTSummary, []Comparison) {
	if len(data) == 0 {
		logrus.Warn("No data available for summary statistics")
		return nil, nil
	}

	rttRecords := make([]RTTSummary, 0)
	comparisonRecords := make([]Comparison, 0)

	for _, profile := range g.cat.Profiles {
		for _, scheme := range g.cat.Schemes {
			group := groupRows(data, profile.ID, scheme)
			if len(group) == 0 {
				continue
			}
			if record, ok := summarizeRTT(group, profile, scheme); ok {
				rttRecords = append(rttRecords, record)
			}
			if record, ok := compare(group, profile, scheme); ok {
				comparisonRecords = append(comparisonRecords, record)
			}
		}
	}

	return rttRecords, comparisonRecords
}

// Write persists both artifacts under the graphs directory. The two
// files are independent, so they are exported in parallel.
func (g *Generator) Write(rttRecords []RTTSummary, comparisonRecords []Comparison) error {
	if len(rttRecords) == 0 && len(comparisonRecords) == 0 {
		logrus.Warn("No summary records to write")
		return nil
	}
	if err := os.MkdirAll(g.graphsDir, os.FileMode(0o755)); err != nil {
		return fmt.Errorf("could not create graphs directory %s: %w", g.graphsDir, err)
	}

	var rttErr, comparisonErr error
	executor.Execute(executor.Parallel, []executor.ExecutionUnit{
		func() {
			rttErr = writeRecords(filepath.Join(g.graphsDir, RTTSummaryFilename), rttRecords)
		},
		func() {
			comparisonErr = writeRecords(filepath.Join(g.graphsDir, ComparisonFilename), comparisonRecords)
		},
	}).Wait()

	if rttErr != nil {
		return rttErr
	}
	return comparisonErr
}

func writeRecords[T any](path string, records []T) error {
	logger, err := datalogger.CreateCSVDataLogger[T](path)
	if err != nil {
		return fmt.Errorf("could not create summary artifact %s: %w", path, err)
	}
	defer logger.Close()

	for _, record := range records {
		logger.LogRecord(record)
	}
	if err := logger.Export(); err != nil {
		return fmt.Errorf("could not export summary artifact %s: %w", path, err)
	}
	return nil
}

// groupRows selects one run's rows, preserving their sequence order.
func groupRows(data aggregate.Dataset, profileID string, scheme string) []aggregate.Row {
	return utilities.Filter(data, func(row aggregate.Row) bool {
		return row.ProfileID == profileID && row.Scheme == scheme
	})
}

// summarizeRTT reports ok = false when no sample of the group survives
// validation; a group with nothing to describe gets no record rather
// than a record full of NaNs.
func summarizeRTT(group []aggregate.Row, profile catalog.Profile, scheme string) (RTTSummary, bool) {
	dist := distribution.New()
	rtts := make([]float64, 0, len(group))
	for _, row := range group {
		if err := dist.AddSample(row.RTTMs); err != nil {
			logrus.WithError(err).Warnf("Skipping invalid RTT sample for %s (profile %s)", scheme, profile.ID)
			continue
		}
		rtts = append(rtts, row.RTTMs)
	}
	if dist.NumberOfSamples() == 0 {
		logrus.Warnf("No valid RTT samples for %s (profile %s); omitting its latency summary", scheme, profile.ID)
		return RTTSummary{}, false
	}

	return RTTSummary{
		Algorithm:   strings.ToUpper(scheme),
		Profile:     profile.Name,
		LatencyMs:   profile.LatencyMs,
		AvgRTTMs:    dist.GetAverage(),
		MinRTTMs:    dist.GetMinimum(),
		MaxRTTMs:    dist.GetMaximum(),
		MedianRTTMs: dist.GetMedian(),
		StdDevMs:    dist.GetStandardDeviation(),
		P95Ms:       dist.GetPercentile(95.0),
		// Jitter is order sensitive: mean absolute first difference
		// along the run's time axis.
		JitterMs: utilities.MeanAbsoluteDifference(rtts),
	}, true
}

// compare reports ok = false when no throughput sample of the group
// survives validation.
func compare(group []aggregate.Row, profile catalog.Profile, scheme string) (Comparison, bool) {
	throughput := distribution.New()
	rtt := distribution.New()
	for _, row := range group {
		if err := throughput.AddSample(row.ThroughputMbps); err != nil {
			logrus.WithError(err).Warnf("Skipping invalid throughput sample for %s (profile %s)", scheme, profile.ID)
		}
		if err := rtt.AddSample(row.RTTMs); err != nil {
			logrus.WithError(err).Warnf("Skipping invalid RTT sample for %s (profile %s)", scheme, profile.ID)
		}
	}
	if throughput.NumberOfSamples() == 0 {
		logrus.Warnf("No valid throughput samples for %s (profile %s); omitting its comparison record", scheme, profile.ID)
		return Comparison{}, false
	}

	losses := utilities.Fmap(
		utilities.Filter(group, func(row aggregate.Row) bool { return utilities.IsSome(row.LossRate) }),
		func(row aggregate.Row) float64 { return utilities.GetSome(row.LossRate) },
	)

	// A group without the loss column at all is a valid degraded state;
	// its mean loss is reported as 0.
	avgLossPercent := float64(0)
	if len(losses) != 0 {
		avgLossPercent = utilities.CalculateAverage(losses) * 100.0
	}

	return Comparison{
		Profile:           profile.Name,
		Algorithm:         strings.ToUpper(scheme),
		AvgThroughputMbps: throughput.GetAverage(),
		ThroughputStdDev:  throughput.GetStandardDeviation(),
		AvgRTTMs:          rtt.GetAverage(),
		AvgLossPercent:    avgLossPercent,
		P90ThroughputMbps: throughput.GetPercentile(90.0),
	}, true
}
