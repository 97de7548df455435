package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jimyag/highstate/pkg/color"
)

const sample = `
minion1:
  pkg_|-vim_|-vim_|-installed:
    result: true
    changes: {}
    comment: Package installed
    duration: 10
    __run_num__: 0
  pkg_|-git_|-git_|-installed:
    result: false
    changes: {}
    comment: Failed to install
    __run_num__: 1
`

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(fs)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/result.yaml", []byte(sample), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/etc/highstate.yaml", []byte("state_output: terse\nstate_verbose: true\n"), 0o644))

	tests := []struct {
		name     string
		args     []string
		stdin    string
		contains []string
		excludes []string
	}{
		{
			name:  "stdin",
			stdin: sample,
			contains: []string{
				"minion1:\n----------\n          ID: git\n",
				"Succeeded: 1\nFailed:    1\n",
				"Total states run:     2\n",
			},
			excludes: []string{"ID: vim", "\033["},
		},
		{
			name:     "file argument",
			args:     []string{"/tmp/result.yaml"},
			contains: []string{"ID: git"},
		},
		{
			name:     "dash reads stdin",
			args:     []string{"-"},
			stdin:    sample,
			contains: []string{"ID: git"},
		},
		{
			name:     "config file",
			args:     []string{"--config", "/etc/highstate.yaml", "/tmp/result.yaml"},
			contains: []string{"  Name: vim - Function: pkg.installed - Result: Clean", "  Name: git - Function: pkg.installed - Result: Failed"},
			excludes: []string{"ID: git"},
		},
		{
			name:     "flags override config",
			args:     []string{"-c", "/etc/highstate.yaml", "--state-output", "full", "--verbose=false", "/tmp/result.yaml"},
			contains: []string{"ID: git"},
			excludes: []string{"ID: vim", "Name: vim"},
		},
		{
			name:     "tabular flag",
			args:     []string{"--state-output", "terse", "--tabular", "true", "/tmp/result.yaml"},
			contains: []string{"   1        pkg.installed  Failed    Name: git"},
		},
		{
			name:     "template flag",
			args:     []string{"--state-output", "terse", "--tabular", "{{ .name }}={{ .status }}", "-v", "/tmp/result.yaml"},
			contains: []string{"\nvim=Clean\ngit=Failed\n"},
		},
		{
			name:     "profile",
			args:     []string{"--profile", "/tmp/result.yaml"},
			contains: []string{"Total run time:  10.000 ms"},
		},
		{
			name:     "forced color",
			args:     []string{"--color", "always", "--theme", "default", "/tmp/result.yaml"},
			contains: []string{color.Red + "minion1:" + color.Reset},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, fs, tt.stdin, tt.args...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/bad.yaml", []byte("colour: true\n"), 0o644))

	tests := []struct {
		name  string
		args  []string
		stdin string
		want  string
	}{
		{name: "missing file", args: []string{"/nope.yaml"}, want: "failed to read result file"},
		{name: "bad color flag", args: []string{"--color", "sometimes"}, want: `invalid --color value "sometimes"`},
		{name: "invalid config", args: []string{"-c", "/bad.yaml"}, want: "config validation failed"},
		{name: "invalid input", stdin: "- just\n- a list\n", want: "result data must be a mapping of hosts"},
		{name: "bad template", args: []string{"--tabular", "{{ .name "}, stdin: sample, want: "failed to render terse template"},
		{name: "too many args", args: []string{"a", "b"}, want: "accepts at most 1 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, fs, tt.stdin, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
