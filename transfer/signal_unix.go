//go:build darwin || dragonfly || freebsd || linux || netbsd || openbsd
// +build darwin dragonfly freebsd linux netbsd openbsd

package transfer

import (
	"os/exec"

	"golang.org/x/sys/unix"
)

// terminate asks the peer to exit. Signaling an already-exited process
// fails with ESRCH, which is exactly the no-op we want.
func terminate(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(cmd.Process.Pid, unix.SIGTERM)
}

// kill stops the peer immediately, for exit paths where waiting on a
// graceful shutdown could block the experiment.
func kill(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(cmd.Process.Pid, unix.SIGKILL)
}
