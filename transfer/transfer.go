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

// Package transfer is the transfer lifecycle manager: it brings up
// exactly one foreground transfer-peer process and one supervised
// metrics sampler, runs them concurrently against a deadline, and
// guarantees both are stopped on every exit path.
package transfer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/netbench/ccbench/debug"
	"github.com/netbench/ccbench/sampler"
)

type Role int

const (
	RoleSender Role = iota
	RoleReceiver
)

func (r Role) String() string {
	switch r {
	case RoleSender:
		return "sender"
	case RoleReceiver:
		return "receiver"
	}
	return "unrecognized role"
}

func ParseRole(name string) (Role, error) {
	switch name {
	case "sender":
		return RoleSender, nil
	case "receiver":
		return RoleReceiver, nil
	}
	return RoleSender, fmt.Errorf("unrecognized transfer role: %s", name)
}

// Payload chunk size for the full-speed send loop.
const chunkSize = 1024

// Manager supervises one transfer-peer process and its metrics
// sampler. One Manager value per lifecycle invocation.
type Manager struct {
	// PeerBinary is the transfer-peer executable: an opaque byte pipe
	// that listens (receiver) or connects (sender).
	PeerBinary string

	// Scheme names the metrics artifact (metrics_<scheme>_<ts>.csv).
	Scheme string

	// MetricsDir is the shared metrics-output area the runner scans.
	MetricsDir string

	SampleInterval time.Duration

	Debug *debug.DebugWithPrefix
}

// Run starts the peer process and the sampler and blocks until both
// have stopped. Deadline expiry is the normal way a sender run ends and
// is not an error. A spawn failure is fatal and propagated; a write
// failure mid-transfer kills the peer and propagates. In all cases the
// sampler's termination is requested in a cleanup phase that runs
// regardless of the exit path.
func (m *Manager) Run(ctx context.Context, role Role, peerAddress string, peerPort int, duration time.Duration) error {
	ctx, cancel := context.WithDeadline(ctx, time.Now().Add(duration))
	defer cancel()

	cmd, stdin, stdout, err := m.spawn(ctx, role, peerAddress, peerPort)
	if err != nil {
		return err
	}

	// A stuck peer must never block the experiment: once the deadline
	// passes, the process is terminated, which unblocks any pipe
	// read/write below.
	go func() {
		<-ctx.Done()
		terminate(cmd)
	}()

	metricsPath := filepath.Join(m.MetricsDir,
		fmt.Sprintf("metrics_%s_%d.csv", m.Scheme, time.Now().UnixNano()))

	eg := &errgroup.Group{}
	samplerCtx, stopSampler := context.WithCancel(ctx)
	defer stopSampler()

	eg.Go(func() error {
		// A failed or partial metrics series degrades the run; it never
		// fails the transfer.
		if err := sampler.Run(samplerCtx, metricsPath, duration, m.SampleInterval, m.Debug); err != nil {
			logrus.WithError(err).Warnf("metrics sampler for %s did not persist a series", m.Scheme)
		}
		return nil
	})

	eg.Go(func() (err error) {
		// Cleanup phase: release the sampler and reap the peer no
		// matter how the transfer leg exits.
		defer func() {
			stopSampler()
			terminate(cmd)
			waitErr := cmd.Wait()
			if err == nil && ctx.Err() == nil && waitErr != nil {
				err = fmt.Errorf("transfer peer exited abnormally: %w", waitErr)
			} else if waitErr != nil && m.Debug != nil && debug.IsWarn(m.Debug.Level) {
				fmt.Printf("%v: Transfer peer reaped after termination: %v.\n", m.Debug, waitErr)
			}
		}()

		switch role {
		case RoleSender:
			return m.send(ctx, stdin, cmd)
		case RoleReceiver:
			return m.receive(ctx, stdout)
		}
		return fmt.Errorf("unrecognized transfer role: %v", role)
	})

	return eg.Wait()
}

// spawn builds and starts the peer process for the given role. The
// receiver listens on peerPort; the sender connects to
// peerAddress:peerPort and feeds the process through stdin.
func (m *Manager) spawn(ctx context.Context, role Role, peerAddress string, peerPort int) (*exec.Cmd, io.WriteCloser, io.ReadCloser, error) {
	var cmd *exec.Cmd
	switch role {
	case RoleSender:
		cmd = exec.Command(m.PeerBinary, peerAddress, strconv.Itoa(peerPort))
	case RoleReceiver:
		cmd = exec.Command(m.PeerBinary, "-l", "-p", strconv.Itoa(peerPort))
	default:
		return nil, nil, nil, fmt.Errorf("unrecognized transfer role: %v", role)
	}

	var stdin io.WriteCloser
	var stdout io.ReadCloser
	var err error
	if role == RoleSender {
		if stdin, err = cmd.StdinPipe(); err != nil {
			return nil, nil, nil, fmt.Errorf("could not open transfer peer stdin: %w", err)
		}
		cmd.Stdout = io.Discard
	} else {
		if stdout, err = cmd.StdoutPipe(); err != nil {
			return nil, nil, nil, fmt.Errorf("could not open transfer peer stdout: %w", err)
		}
	}

	if err = cmd.Start(); err != nil {
		return nil, nil, nil, fmt.Errorf("could not start transfer peer %s: %w", m.PeerBinary, err)
	}
	if m.Debug != nil && debug.IsDebug(m.Debug.Level) {
		fmt.Printf("%v: Started transfer peer %s (pid %d) as %v.\n", m.Debug, m.PeerBinary, cmd.Process.Pid, role)
	}
	return cmd, stdin, stdout, nil
}

// send writes fixed-size opaque chunks into the peer's stdin at the
// fastest rate the process accepts, until the deadline elapses. A write
// failure after the deadline is the expected consequence of the
// watchdog kill and is not reported.
func (m *Manager) send(ctx context.Context, stdin io.WriteCloser, cmd *exec.Cmd) error {
	chunk := make([]byte, chunkSize)
	for {
		if ctx.Err() != nil {
			stdin.Close()
			return nil
		}
		rand.Read(chunk)
		if _, err := stdin.Write(chunk); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if m.Debug != nil && debug.IsError(m.Debug.Level) {
				fmt.Printf("%v: Mid-transfer write failed, killing the peer: %v.\n", m.Debug, err)
			}
			kill(cmd)
			return fmt.Errorf("could not write to transfer peer: %w", err)
		}
	}
}

// receive consumes and discards the peer's output until the process
// exits or the deadline terminates it.
func (m *Manager) receive(ctx context.Context, stdout io.ReadCloser) error {
	if _, err := io.Copy(io.Discard, stdout); err != nil && ctx.Err() == nil {
		return fmt.Errorf("could not drain transfer peer output: %w", err)
	}
	return nil
}
