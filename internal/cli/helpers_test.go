package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const inertRun = `model: "inert"
seed:  3
time: {start: 0, end: 10, timestep: 1}
signal: samples: [[0, 0.5], [5, 1], [10, 2]]
`

const calmodulinRun = `model: "calmodulin"
seed:  20240601
time: {end: 50, timestep: 5}
signal: constant: 1.0
`

// writeRunFile writes content as name in dir and returns its path.
func writeRunFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with args and returns stdout and the error.
func execute(t *testing.T, env Env, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand(env)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeResponse parses a JSON CLIResponse and unmarshals its data into v.
func decodeResponse(t *testing.T, out string, v any) CLIResponse {
	t.Helper()
	var raw struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &raw), "output: %s", out)
	if v != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, v))
	}
	return CLIResponse{Status: raw.Status, Error: raw.Error}
}

// simulateJSON runs simulate in JSON mode and returns the decoded result.
func simulateJSON(t *testing.T, env Env, args ...string) SimulateResult {
	t.Helper()
	out, err := execute(t, env, append([]string{"--format", "json", "simulate"}, args...)...)
	require.NoError(t, err, "output: %s", out)
	var res SimulateResult
	resp := decodeResponse(t, out, &res)
	require.Equal(t, "ok", resp.Status)
	return res
}
