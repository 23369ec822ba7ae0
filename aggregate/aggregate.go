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

// Package aggregate joins the per-run metrics artifacts into one
// dataset. Every row is tagged with its run's catalog metadata and a
// zero-based sequence index that preserves the source artifact's
// temporal order. Missing and malformed artifacts degrade the dataset;
// they never abort the join.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/netbench/ccbench/catalog"
	"github.com/netbench/ccbench/runner"
	"github.com/netbench/ccbench/utilities"
)

// Row is one metric sample augmented with its run's metadata. LossRate
// is optional because older scheme wrappers do not emit the column.
type Row struct {
	ElapsedSeconds  float64
	ThroughputMbps  float64
	RTTMs           float64
	LossRate        utilities.Optional[float64]
	QueueingDelayMs float64

	Scheme        string
	ProfileID     string
	ProfileName   string
	LatencyMs     int
	SequenceIndex int
}

// Dataset is the union of all successfully parsed runs' rows. Within
// one run the rows keep their artifact order; across runs there is no
// ordering guarantee.
type Dataset []Row

// Collect probes every (profile, scheme) pair of the catalog for its
// per-run metrics artifact under resultsDir and parses what it finds.
// An empty dataset is the documented no-data condition, not an error:
// the caller decides whether that is terminal.
func Collect(cat catalog.Catalog, resultsDir string) Dataset {
	dataset := make(Dataset, 0)

	for _, profile := range cat.Profiles {
		for _, scheme := range cat.Schemes {
			path := filepath.Join(resultsDir, profile.ID, scheme, runner.MetricsFilename(scheme))
			rows, err := parseRun(path, profile, scheme)
			if err != nil {
				if os.IsNotExist(err) {
					logrus.Warnf("Missing metrics file for %s (profile %s)", scheme, profile.ID)
				} else {
					logrus.WithError(err).Errorf("Failed to process %s", path)
				}
				continue
			}
			dataset = append(dataset, rows...)
		}
	}

	return dataset
}

// parseRun reads one per-run artifact. The header must name at least
// the throughput and rtt columns; timestamp, loss_rate and
// queuing_delay are optional. Any malformed record excludes the whole
// run, so a run's rows are either all present or all absent.
func parseRun(path string, profile catalog.Profile, scheme string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("could not read metrics header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, required := range []string{"throughput", "rtt"} {
		if _, found := columns[required]; !found {
			return nil, fmt.Errorf("metrics artifact lacks required column %q", required)
		}
	}

	rows := make([]Row, 0)
	for sequenceIndex := 0; ; sequenceIndex++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
		}

		row := Row{
			Scheme:        scheme,
			ProfileID:     profile.ID,
			ProfileName:   profile.Name,
			LatencyMs:     profile.LatencyMs,
			SequenceIndex: sequenceIndex,
			LossRate:      utilities.None[float64](),
		}

		if row.ThroughputMbps, err = field(record, columns, "throughput"); err != nil {
			return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
		}
		if row.RTTMs, err = field(record, columns, "rtt"); err != nil {
			return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
		}
		if _, found := columns["timestamp"]; found {
			if row.ElapsedSeconds, err = field(record, columns, "timestamp"); err != nil {
				return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
			}
		}
		if _, found := columns["queuing_delay"]; found {
			if row.QueueingDelayMs, err = field(record, columns, "queuing_delay"); err != nil {
				return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
			}
		}
		if _, found := columns["loss_rate"]; found {
			lossRate, err := field(record, columns, "loss_rate")
			if err != nil {
				return nil, fmt.Errorf("malformed metrics record %d: %w", sequenceIndex, err)
			}
			row.LossRate = utilities.Some(lossRate)
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func field(record []string, columns map[string]int, name string) (float64, error) {
	index := columns[name]
	if index >= len(record) {
		return 0, fmt.Errorf("record lacks column %q", name)
	}
	value, err := strconv.ParseFloat(record[index], 64)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", name, err)
	}
	return value, nil
}
