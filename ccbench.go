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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/netbench/ccbench/aggregate"
	"github.com/netbench/ccbench/catalog"
	"github.com/netbench/ccbench/config"
	"github.com/netbench/ccbench/debug"
	"github.com/netbench/ccbench/runner"
	"github.com/netbench/ccbench/summary"
	"github.com/netbench/ccbench/transfer"
)

var (
	// Variables to hold CLI arguments.
	configPath  = flag.String("config", "", "Path to the harness configuration file (JSON). Defaults apply when empty.")
	debugLevel  = flag.String("debug", "none", "Debug level for component diagnostics (none, debug, warn, error).")
	mode        = flag.String("mode", "experiment", "experiment runs the full matrix; sender/receiver run one transfer lifecycle inside the sandbox.")
	scheme      = flag.String("scheme", "", "Scheme identifier, sender/receiver modes only.")
	peerAddress = flag.String("peer", "127.0.0.1", "Transfer peer address, sender mode only.")
	peerPort    = flag.Int("port", 9000, "Transfer peer port, sender/receiver modes only.")
)

// errNoData is the terminal no-data condition: every pair of the matrix
// failed to produce a metrics artifact. It is user-visible and halts
// analysis, but it is not an unexpected fault.
var errNoData = errors.New("no metrics were collected from any run; check the per-run logs")

func main() {
	flag.Parse()

	// Anything unexpected below is reported with context and re-raised
	// so the process still exits nonzero with a stack.
	defer func() {
		if fault := recover(); fault != nil {
			logrus.Errorf("Unexpected fault during orchestration: %v", fault)
			panic(fault)
		}
	}()

	level, err := debug.ParseLevel(*debugLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if debug.IsDebug(level) {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.WithError(err).Error("Invalid configuration")
		os.Exit(1)
	}
	if debug.IsDebug(level) {
		fmt.Printf("Configuration: %s\n", cfg)
	}

	switch *mode {
	case "sender", "receiver":
		err = runTransfer(cfg, level)
	case "experiment":
		err = runExperiment(cfg, catalog.Default())
	default:
		err = fmt.Errorf("unrecognized mode: %s", *mode)
	}
	if err != nil {
		logrus.WithError(err).Error("ccbench failed")
		os.Exit(1)
	}
}

// runTransfer is the in-sandbox wrapper path: the externally-invoked
// scheme command execs this binary with -mode sender or -mode receiver
// and the harness supervises the peer process plus the metrics sampler.
func runTransfer(cfg *config.Config, level debug.DebugLevel) error {
	if len(*scheme) == 0 {
		return fmt.Errorf("sender/receiver modes require -scheme")
	}
	role, err := transfer.ParseRole(*mode)
	if err != nil {
		return err
	}

	manager := &transfer.Manager{
		PeerBinary:     cfg.PeerBinary,
		Scheme:         *scheme,
		MetricsDir:     cfg.MetricsLogDir,
		SampleInterval: cfg.SampleInterval(),
		Debug:          debug.NewDebugWithPrefix(level, *mode),
	}
	return manager.Run(context.Background(), role, *peerAddress, *peerPort, cfg.TransferDuration())
}

func runExperiment(cfg *config.Config, cat catalog.Catalog) error {
	for _, dir := range []string{cfg.ResultsDir, cfg.GraphsDir, cfg.MetricsLogDir} {
		if err := os.MkdirAll(dir, os.FileMode(0o755)); err != nil {
			return fmt.Errorf("could not create %s: %w", dir, err)
		}
	}

	results := runner.New(cat, cfg).RunAll()
	succeeded, degraded, failed := 0, 0, 0
	for _, result := range results {
		switch result.Outcome {
		case runner.Succeeded:
			succeeded++
		case runner.Degraded:
			degraded++
		case runner.Failed:
			failed++
		}
	}
	logrus.Infof("Run matrix finished: %d succeeded, %d metrics-less, %d failed", succeeded, degraded, failed)

	data := aggregate.Collect(cat, cfg.ResultsDir)
	if len(data) == 0 {
		return errNoData
	}
	logrus.Infof("Aggregated %d samples across %d runs", len(data), succeeded)

	generator := summary.New(cat, cfg.GraphsDir)
	rttRecords, comparisonRecords := generator.Generate(data)
	if err := generator.Write(rttRecords, comparisonRecords); err != nil {
		return err
	}
	logrus.Infof("Summary artifacts saved in %s", cfg.GraphsDir)
	return nil
}
