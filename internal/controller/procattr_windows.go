//go:build windows

package controller

import (
	"os/exec"
	"syscall"
)

const detachedProcess = 0x00000008

// configureDetached detaches the child from this console and gives it its
// own process group so it survives parent exit.
func configureDetached(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP | detachedProcess,
	}
}
