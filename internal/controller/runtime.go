package controller

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// minInspectMajor is the smallest runtime major version that understands
// the --inspect flag.
const minInspectMajor = 6

// inspectSupported asks the configured runtime (the first token of the
// emulator command) for its version and checks it against minInspectMajor.
// Any failure to determine the version counts as unsupported; the caller
// downgrades that to a warning and drops the flag.
func inspectSupported(command string) (bool, string) {
	parts := strings.Fields(strings.TrimSpace(command))
	if len(parts) == 0 {
		return false, "emulator command not configured"
	}
	// ok: queries the configured runtime binary
	// #nosec G204
	out, err := exec.Command(parts[0], "--version").Output()
	if err != nil {
		return false, fmt.Sprintf("cannot determine %s version: %v", parts[0], err)
	}
	major, err := parseMajorVersion(string(out))
	if err != nil {
		return false, err.Error()
	}
	if major < minInspectMajor {
		return false, fmt.Sprintf("runtime major version %d < %d", major, minInspectMajor)
	}
	return true, ""
}

// parseMajorVersion extracts the major version from strings like "v6.9.1"
// or "10.1.0".
func parseMajorVersion(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	major, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unparseable runtime version %q", s)
	}
	return major, nil
}
