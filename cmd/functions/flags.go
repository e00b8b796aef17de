package main

import "time"

// GlobalFlags holds minimal global/persistent flags for CLI commands
type GlobalFlags struct {
	ConfigPath string // Only config path for CLI commands
}

// StartFlags holds flags for start and restart
type StartFlags struct {
	Host      string
	Port      int
	ProjectID string
	Timeout   time.Duration
	LogFile   string
	Verbose   bool
	UseMocks  bool
	Debug     bool
	DebugPort int
	Inspect   bool
}

// DeployFlags holds flags for deploy
type DeployFlags struct {
	LocalPath         string
	TriggerHTTP       bool
	TriggerBackground bool
}

// CallFlags holds flags for call
type CallFlags struct {
	Data string
	File string
}

// LogsFlags holds flags for logs read
type LogsFlags struct {
	Limit int
}
