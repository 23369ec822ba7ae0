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

// Package runner executes the (profile x scheme) run matrix: each pair
// is invoked under the profile's emulated network conditions, its
// combined output captured to a per-run log, and its freshest metrics
// artifact copied into the per-run storage slot. One pair failing never
// stops the rest.
package runner

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/netbench/ccbench/catalog"
	"github.com/netbench/ccbench/config"
	"github.com/netbench/ccbench/executor"
)

// Outcome is the tri-state result of one run: Succeeded runs have a
// metrics artifact, Degraded runs completed but produced none, Failed
// runs did not complete.
type Outcome int

const (
	Succeeded Outcome = iota
	Degraded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Succeeded:
		return "succeeded"
	case Degraded:
		return "degraded"
	case Failed:
		return "failed"
	}
	return "unrecognized outcome"
}

type RunResult struct {
	Profile catalog.Profile
	Scheme  string
	Outcome Outcome
	Err     error
}

// LogFilename is the per-run capture of the invocation's combined
// stdout and stderr.
const LogFilename = "log.txt"

// MetricsFilename is the fixed per-run name the freshest shared
// metrics artifact is copied to.
func MetricsFilename(scheme string) string {
	return scheme + "_cc_log.csv"
}

type invoker func(cmdline string, logPath string) error

type Runner struct {
	cat    catalog.Catalog
	cfg    *config.Config
	invoke invoker
}

func New(cat catalog.Catalog, cfg *config.Config) *Runner {
	return &Runner{cat: cat, cfg: cfg, invoke: invokeShell}
}

// RunAll executes every pair of the matrix serially, profiles outer and
// schemes inner, in catalog order. It always returns one RunResult per
// pair; re-running overwrites the previous artifacts for each pair.
func (r *Runner) RunAll() []RunResult {
	results := make([]RunResult, 0, r.cat.Size())

	units := make([]executor.ExecutionUnit, 0, r.cat.Size())
	for _, profile := range r.cat.Profiles {
		profile := profile
		for i, scheme := range r.cat.Schemes {
			scheme := scheme
			// The banner belongs to the profile's first run, not to
			// matrix construction time.
			announce := i == 0
			units = append(units, func() {
				if announce {
					logrus.Infof("Running tests for network profile %v", profile)
				}
				results = append(results, r.runPair(profile, scheme))
			})
		}
	}
	executor.Execute(executor.Serial, units).Wait()

	return results
}

func (r *Runner) runPair(profile catalog.Profile, scheme string) RunResult {
	logrus.Infof("Testing congestion control algorithm: %s", strings.ToUpper(scheme))

	runDir := filepath.Join(r.cfg.ResultsDir, profile.ID, scheme)
	if err := os.MkdirAll(runDir, os.FileMode(0o755)); err != nil {
		return RunResult{profile, scheme, Failed,
			fmt.Errorf("could not create run directory %s: %w", runDir, err)}
	}

	cmdline := r.commandFor(profile, scheme)
	if err := r.invoke(cmdline, filepath.Join(runDir, LogFilename)); err != nil {
		logrus.WithError(err).Errorf("Test failed for %s (profile %s)", strings.ToUpper(scheme), profile.ID)
		return RunResult{profile, scheme, Failed, err}
	}
	logrus.Infof("%s test completed for profile %s", strings.ToUpper(scheme), profile.ID)

	newest, err := r.findLatestMetrics(scheme)
	if err != nil {
		logrus.Warnf("No metrics file found for %s (profile %s)", strings.ToUpper(scheme), profile.ID)
		return RunResult{profile, scheme, Degraded, nil}
	}
	if err := copyFile(newest, filepath.Join(runDir, MetricsFilename(scheme))); err != nil {
		logrus.WithError(err).Warnf("Could not copy metrics file for %s (profile %s)", strings.ToUpper(scheme), profile.ID)
		return RunResult{profile, scheme, Degraded, err}
	}
	logrus.Infof("Metrics file saved for %s (profile %s)", strings.ToUpper(scheme), profile.ID)
	return RunResult{profile, scheme, Succeeded, nil}
}

// commandFor composes the emulation invocation: mm-delay for the
// profile's one-way latency, mm-link for its trace pair, then the
// scheme test command.
func (r *Runner) commandFor(profile catalog.Profile, scheme string) string {
	return fmt.Sprintf("mm-delay %d mm-link %s %s -- %s --schemes %q",
		profile.LatencyMs,
		profile.DownlinkTrace,
		profile.UplinkTrace,
		r.cfg.SchemeCommand,
		scheme,
	)
}

// findLatestMetrics returns the most recently modified
// metrics_<scheme>_*.csv in the shared metrics area. Runs execute
// sequentially, so last-writer-wins by modification time is safe here;
// it would not be if pairs ever ran in parallel.
func (r *Runner) findLatestMetrics(scheme string) (string, error) {
	pattern := filepath.Join(r.cfg.MetricsLogDir, fmt.Sprintf("metrics_%s_*.csv", scheme))
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", err
	}

	newest := ""
	var newestMod int64
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = match
			newestMod = info.ModTime().UnixNano()
		}
	}
	if newest == "" {
		return "", fmt.Errorf("no metrics artifact matching %s", pattern)
	}
	return newest, nil
}

func invokeShell(cmdline string, logPath string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("could not create run log %s: %w", logPath, err)
	}
	defer logFile.Close()

	cmd := exec.Command("sh", "-c", cmdline)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	return cmd.Run()
}

func copyFile(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
