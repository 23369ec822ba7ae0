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
package aggregate

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netbench/ccbench/catalog"
	"github.com/netbench/ccbench/runner"
	"github.com/netbench/ccbench/utilities"
)

func testCatalog() catalog.Catalog {
	return catalog.Catalog{
		Profiles: []catalog.Profile{
			{ID: "P1", Name: "Low", LatencyMs: 5},
			{ID: "P2", Name: "High", LatencyMs: 200},
		},
		Schemes: []string{"A", "B"},
	}
}

func writeRunArtifact(t *testing.T, resultsDir string, profileID string, scheme string, contents string) {
	runDir := filepath.Join(resultsDir, profileID, scheme)
	assert.NoError(t, os.MkdirAll(runDir, 0o755))
	assert.NoError(t, os.WriteFile(filepath.Join(runDir, runner.MetricsFilename(scheme)), []byte(contents), 0o644))
}

const fullArtifact = `timestamp, throughput, rtt, loss_rate, queuing_delay
0, 4, 100, 0.01, 5
1, 5, 110, 0.02, 6
2, 6, 120, 0, 7
`

func TestSingleRunScenario(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", fullArtifact)

	data := Collect(testCatalog(), resultsDir)
	assert.Len(t, data, 3)

	for i, row := range data {
		assert.Equal(t, "P1", row.ProfileID)
		assert.Equal(t, "Low", row.ProfileName)
		assert.Equal(t, "A", row.Scheme)
		assert.Equal(t, 5, row.LatencyMs)
		assert.Equal(t, i, row.SequenceIndex)
	}
	assert.Equal(t, 4.0, data[0].ThroughputMbps)
	assert.Equal(t, 5.0, data[1].ThroughputMbps)
	assert.Equal(t, 6.0, data[2].ThroughputMbps)
	assert.Equal(t, 110.0, data[1].RTTMs)
	assert.Equal(t, utilities.Some(0.02), data[1].LossRate)
	assert.Equal(t, 6.0, data[1].QueueingDelayMs)
}

func TestMissingLossColumnIsTolerated(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", "throughput, rtt\n4, 100\n")

	data := Collect(testCatalog(), resultsDir)
	assert.Len(t, data, 1)
	assert.True(t, utilities.IsNone(data[0].LossRate))
	assert.Equal(t, 0.0, data[0].ElapsedSeconds)
	assert.Equal(t, 0.0, data[0].QueueingDelayMs)
}

func TestPartialFailureIsolation(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", fullArtifact)
	// (P2, B) is malformed; (P1, B) and (P2, A) are missing entirely.
	writeRunArtifact(t, resultsDir, "P2", "B", "timestamp, throughput, rtt\n0, not-a-number, 100\n")

	data := Collect(testCatalog(), resultsDir)
	assert.Len(t, data, 3)
	for _, row := range data {
		assert.Equal(t, "P1", row.ProfileID)
		assert.Equal(t, "A", row.Scheme)
	}
}

func TestRequiredColumnsEnforced(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", "timestamp, rtt\n0, 100\n")

	assert.Empty(t, Collect(testCatalog(), resultsDir))
}

func TestRowsNeverLeaveTheCatalog(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", fullArtifact)
	// A stray artifact outside the catalog must never be probed.
	writeRunArtifact(t, resultsDir, "P9", "Z", fullArtifact)

	cat := testCatalog()
	data := Collect(cat, resultsDir)
	assert.Len(t, data, 3)
	for _, row := range data {
		assert.True(t, cat.Contains(row.ProfileID, row.Scheme))
	}
}

func TestEmptyResultsYieldEmptyDataset(t *testing.T) {
	data := Collect(testCatalog(), t.TempDir())
	assert.NotNil(t, data)
	assert.Empty(t, data)
}

func TestCollectIsIdempotent(t *testing.T) {
	resultsDir := t.TempDir()
	writeRunArtifact(t, resultsDir, "P1", "A", fullArtifact)
	writeRunArtifact(t, resultsDir, "P2", "B", fullArtifact)

	first := Collect(testCatalog(), resultsDir)
	second := Collect(testCatalog(), resultsDir)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Re-aggregating the same artifacts produced a different dataset.")
	}
}
