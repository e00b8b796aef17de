//go:build !windows

package controller

import "syscall"

// terminateProcess force-kills the emulator server by pid, no grace period.
func terminateProcess(pid int) error {
	return syscall.Kill(pid, syscall.SIGKILL)
}

// processAlive reports whether a process with the given pid exists.
func processAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
