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
package transfer

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/netbench/ccbench/debug"
)

// A stdin-draining script is a perfectly serviceable opaque byte pipe
// for exercising the lifecycle manager without a real ucat binary; a
// bare cat would treat the sender's address/port argv as filenames and
// exit without reading stdin.
func testManager(t *testing.T) *Manager {
	peer := filepath.Join(t.TempDir(), "peer")
	if err := os.WriteFile(peer, []byte("#!/bin/sh\nexec cat >/dev/null\n"), 0o755); err != nil {
		t.Fatalf("could not write peer script: %v", err)
	}
	return &Manager{
		PeerBinary:     peer,
		Scheme:         "cubic",
		MetricsDir:     filepath.Join(t.TempDir(), "logs"),
		SampleInterval: 50 * time.Millisecond,
	}
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("sender")
	assert.NoError(t, err)
	assert.Equal(t, RoleSender, role)

	role, err = ParseRole("receiver")
	assert.NoError(t, err)
	assert.Equal(t, RoleReceiver, role)

	_, err = ParseRole("bystander")
	assert.Error(t, err)
}

func TestSenderStopsAtDeadlineAndPersistsMetrics(t *testing.T) {
	m := testManager(t)

	then := time.Now()
	err := m.Run(context.Background(), RoleSender, "127.0.0.1", 9000, 300*time.Millisecond)
	assert.NoError(t, err)
	assert.Less(t, time.Since(then), 3*time.Second)

	matches, globErr := filepath.Glob(filepath.Join(m.MetricsDir, "metrics_cubic_*.csv"))
	assert.NoError(t, globErr)
	assert.Len(t, matches, 1)
}

func TestExpiredDeadlineStillCleansUp(t *testing.T) {
	m := testManager(t)

	then := time.Now()
	err := m.Run(context.Background(), RoleSender, "127.0.0.1", 9000, 0)
	assert.NoError(t, err)
	// The point is not the precise bound; it is that an expired
	// deadline cannot hang the experiment.
	assert.Less(t, time.Since(then), 2*time.Second)
}

func TestWriteFailureKillsPeerAndPropagates(t *testing.T) {
	m := testManager(t)
	// true exits without reading stdin, so the send loop's next write
	// hits a closed pipe long before the deadline.
	m.PeerBinary = "true"
	m.Debug = debug.NewDebugWithPrefix(debug.Error, "sender")

	then := time.Now()
	err := m.Run(context.Background(), RoleSender, "127.0.0.1", 9000, 10*time.Second)
	assert.Error(t, err)
	assert.ErrorContains(t, err, "could not write to transfer peer")
	assert.Less(t, time.Since(then), 5*time.Second)
}

func TestReceiverReturnsWhenPeerExits(t *testing.T) {
	m := testManager(t)
	// echo prints its flags and exits immediately; the receiver must
	// notice the exit rather than wait out the deadline.
	m.PeerBinary = "echo"

	then := time.Now()
	err := m.Run(context.Background(), RoleReceiver, "", 9000, 10*time.Second)
	assert.NoError(t, err)
	assert.Less(t, time.Since(then), 5*time.Second)
}

func TestSpawnFailureIsFatal(t *testing.T) {
	m := testManager(t)
	m.PeerBinary = "/nonexistent/transfer-peer"

	err := m.Run(context.Background(), RoleSender, "127.0.0.1", 9000, time.Second)
	assert.Error(t, err)
}
