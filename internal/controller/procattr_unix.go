//go:build !windows

package controller

import (
	"os/exec"
	"syscall"
)

// configureDetached starts the child in a new session (setsid) so it is
// detached from the controlling terminal and survives parent exit.
func configureDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
