package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandWiring(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"run", "batch", "prospect", "leads", "serve", "runs"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestRunsSubcommands(t *testing.T) {
	sub := map[string]bool{}
	for _, c := range runsCmd.Commands() {
		sub[c.Name()] = true
	}
	for _, want := range []string{"list", "show", "stats", "prune"} {
		assert.True(t, sub[want], "missing runs subcommand %s", want)
	}
}

func TestRunRequiresQueryArg(t *testing.T) {
	require.Error(t, runCmd.Args(runCmd, nil))
	require.NoError(t, runCmd.Args(runCmd, []string{"hotels"}))
}
