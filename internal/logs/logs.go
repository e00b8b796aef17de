// Package logs reads the emulator server's log file, which receives the
// child process's stdout and stderr in append mode.
package logs

import (
	"os"
	"strings"
)

// ReadLastLines returns the last n lines of the file at path in
// chronological order. When the file holds fewer lines, all of them are
// returned. n <= 0 yields an empty slice.
func ReadLastLines(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimRight(string(b), "\n")
	if text == "" {
		return nil, nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
