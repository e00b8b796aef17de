package controller

import (
	"errors"
	"net"
	"strconv"
	"time"
)

var (
	ErrStartTimeout = errors.New("emulator did not start within the timeout")
	ErrStopTimeout  = errors.New("emulator did not stop within the timeout")
	ErrNotRunning   = errors.New("emulator is not running")
)

const defaultPollInterval = 500 * time.Millisecond

// probeDialTimeout bounds a single liveness probe. It is independent of the
// retry cadence so a short poll interval cannot starve the TCP dial and
// misreport a laggy server as down.
const probeDialTimeout = time.Second

// awaitCondition polls probe at a fixed interval until it reports true or
// the deadline passes. The deadline is a wall-clock timestamp so slow
// probes do not stretch the effective timeout. There is no external
// cancellation; the budget is the only way out.
func awaitCondition(probe func() bool, timeout, interval time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for {
		if probe() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}

// probeTCP reports whether something accepts TCP connections at host:port.
// The connection is closed immediately; it exists only to test liveness,
// independent of the HTTP API.
func probeTCP(host string, port int, dialTimeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), dialTimeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
