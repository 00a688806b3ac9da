package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// portCommand mirrors serveCmd's --port flag on a fresh command so Changed
// state does not leak between cases.
func portCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	resetGlobals()
	t.Cleanup(resetGlobals)

	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().IntVar(&servePort, "port", 8080, "")
	require.NoError(t, cmd.Flags().Parse(args))
	return cmd
}

func TestResolvePort(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		args    []string
		want    int
		wantErr bool
	}{
		{name: "default", want: 8080},
		{name: "env", env: "9090", want: 9090},
		{name: "flag beats env", env: "9090", args: []string{"--port", "7070"}, want: 7070},
		{name: "invalid env", env: "http", wantErr: true},
		{name: "out of range env", env: "70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvPort, tt.env)
			cmd := portCommand(t, tt.args...)

			got, err := resolvePort(cmd)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), EnvPort)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestServe_InvalidPolicyFromFlags(t *testing.T) {
	_, _, err := execute(t, "", "serve", "--min-length", "30", "--max-length", "10")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid policy")
}
