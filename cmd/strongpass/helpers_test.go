package main

import (
	"bytes"
	"testing"

	"github.com/jonathan/strongpass/internal/config"
	"github.com/jonathan/strongpass/internal/server"
)

// resetGlobals clears every flag variable and the resolved settings so that
// in-process command runs do not leak state into each other.
func resetGlobals() {
	configPath = ""
	flagMinLength, flagMaxLength, flagMaxRepeat = 0, 0, 0
	verbose = false
	checkJSON = false
	fixDiff, fixTrace = false, false
	batchInput, batchOutput, batchWorkers, batchEdits = "", "", 0, false
	servePort, serveMaxBatch = 8080, server.DefaultMaxBatch
	settings, logger = nil, nil
}

// clearEnv unsets the STRONGPASS_* variables for the duration of a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvMinLength, config.EnvMaxLength, config.EnvMaxRepeat, config.EnvWorkers, config.EnvVerbose} {
		t.Setenv(name, "")
	}
}

// execute runs the root command in-process with args and returns stdout,
// stderr and the command error.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	clearEnv(t)
	resetGlobals()
	t.Cleanup(resetGlobals)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}
