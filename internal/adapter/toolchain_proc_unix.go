//go:build unix

package adapter

import (
	"os/exec"
	"syscall"
)

// killProcessTree starts cmd in its own process group and makes cancellation
// kill the whole group, so make and compiler children die with the build.
func killProcessTree(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
