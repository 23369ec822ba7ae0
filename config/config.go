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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/netbench/ccbench/utilities"
)

// Config collects the paths and timing knobs of one experiment.
// Precedence, lowest to highest: built-in defaults, the JSON config
// file, CCBENCH_* environment variables.
type Config struct {
	// ResultsDir receives one directory per (profile, scheme) pair with
	// the captured log and the copied metrics artifact.
	ResultsDir string `json:"results_dir" env:"CCBENCH_RESULTS_DIR"`

	// GraphsDir receives the derived-statistics artifacts.
	GraphsDir string `json:"graphs_dir" env:"CCBENCH_GRAPHS_DIR"`

	// MetricsLogDir is the shared area scanned for the newest
	// metrics_<scheme>_*.csv after each run. Scheme wrappers write
	// here; the harness only reads.
	MetricsLogDir string `json:"metrics_log_dir" env:"CCBENCH_METRICS_LOG_DIR"`

	// SchemeCommand is the command invoked inside the emulation
	// sandbox; the scheme identifier is appended as --schemes "<id>".
	SchemeCommand string `json:"scheme_command" env:"CCBENCH_SCHEME_COMMAND"`

	// PeerBinary is the transfer-peer executable spawned by the
	// lifecycle manager in sender/receiver mode.
	PeerBinary string `json:"peer_binary" env:"CCBENCH_PEER_BINARY"`

	TransferDurationSeconds int `json:"transfer_duration_seconds" env:"CCBENCH_TRANSFER_DURATION_SECONDS"`
	SampleIntervalMs        int `json:"sample_interval_ms"        env:"CCBENCH_SAMPLE_INTERVAL_MS"`
}

func Default() *Config {
	return &Config{
		ResultsDir:              "results",
		GraphsDir:               "graphs",
		MetricsLogDir:           "logs",
		SchemeCommand:           "python3 tests/test_schemes.py",
		PeerBinary:              "ucat-static",
		TransferDurationSeconds: 75,
		SampleIntervalMs:        1000,
	}
}

// Load builds a Config from the optional JSON file at path and the
// environment. An empty path means defaults plus environment only.
func Load(path string) (*Config, error) {
	c := Default()

	if len(path) != 0 {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read configuration file %s: %w", path, err)
		}
		if err := json.Unmarshal(contents, c); err != nil {
			return nil, fmt.Errorf("could not parse configuration file %s: %w", path, err)
		}
	}

	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("could not apply environment overrides: %w", err)
	}

	if err := c.IsValid(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) TransferDuration() time.Duration {
	return time.Duration(c.TransferDurationSeconds) * time.Second
}

func (c *Config) SampleInterval() time.Duration {
	return time.Duration(c.SampleIntervalMs) * time.Millisecond
}

func (c *Config) IsValid() error {
	if len(c.ResultsDir) == 0 {
		return fmt.Errorf(
			"configuration results_dir is invalid: %s",
			utilities.Conditional(len(c.ResultsDir) != 0, c.ResultsDir, "Missing"),
		)
	}
	if len(c.GraphsDir) == 0 {
		return fmt.Errorf(
			"configuration graphs_dir is invalid: %s",
			utilities.Conditional(len(c.GraphsDir) != 0, c.GraphsDir, "Missing"),
		)
	}
	if len(c.MetricsLogDir) == 0 {
		return fmt.Errorf(
			"configuration metrics_log_dir is invalid: %s",
			utilities.Conditional(len(c.MetricsLogDir) != 0, c.MetricsLogDir, "Missing"),
		)
	}
	if len(c.SchemeCommand) == 0 {
		return fmt.Errorf(
			"configuration scheme_command is invalid: %s",
			utilities.Conditional(len(c.SchemeCommand) != 0, c.SchemeCommand, "Missing"),
		)
	}
	if len(c.PeerBinary) == 0 {
		return fmt.Errorf(
			"configuration peer_binary is invalid: %s",
			utilities.Conditional(len(c.PeerBinary) != 0, c.PeerBinary, "Missing"),
		)
	}
	if c.TransferDurationSeconds <= 0 {
		return fmt.Errorf("configuration transfer_duration_seconds must be positive: %d", c.TransferDurationSeconds)
	}
	if c.SampleIntervalMs <= 0 {
		return fmt.Errorf("configuration sample_interval_ms must be positive: %d", c.SampleIntervalMs)
	}
	return nil
}

func (c *Config) String() string {
	return fmt.Sprintf(
		"Results dir: %s\nGraphs dir: %s\nMetrics log dir: %s\nScheme command: %s\nPeer binary: %s\nTransfer duration: %v\nSample interval: %v\n",
		c.ResultsDir,
		c.GraphsDir,
		c.MetricsLogDir,
		c.SchemeCommand,
		c.PeerBinary,
		c.TransferDuration(),
		c.SampleInterval(),
	)
}
