package main

import "testing"

func TestBuildRootSubcommands(t *testing.T) {
	root := buildRoot()
	want := []string{
		"start", "stop", "kill", "restart", "status",
		"deploy", "delete", "list", "describe", "call", "clear", "prune",
		"logs",
	}
	have := make(map[string]bool)
	for _, c := range root.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Fatalf("missing subcommand %q", name)
		}
	}
}

func TestRootHasConfigFlag(t *testing.T) {
	root := buildRoot()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Fatalf("missing persistent --config flag")
	}
}
