package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/csvmd"
)

const peopleCSV = "Name,Age,City\nJohn,25,NYC\nJane,30,LA\n"

const peopleMD = "| Name | Age | City |\n| --- | --- | --- |\n| John | 25 | NYC |\n| Jane | 30 | LA |\n"

type testIO struct {
	stdin  string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (tio *testIO) run(t *testing.T, args ...string) error {
	t.Helper()
	return run(args, stdio{in: strings.NewReader(tio.stdin), out: &tio.stdout, err: &tio.stderr})
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunFile(t *testing.T) {
	t.Parallel()
	path := writeTemp(t, "people.csv", peopleCSV)
	for _, args := range [][]string{{path}, {"--stream", path}} {
		tio := &testIO{}
		require.NoError(t, tio.run(t, args...))
		assert.Equal(t, peopleMD, tio.stdout.String())
		assert.Empty(t, tio.stderr.String())
	}
}

func TestRunStdin(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		stdin string
		args  []string
		want  string
	}{
		"defaults": {
			stdin: "Product,Price\nLaptop,$999\nMouse,$25",
			want:  "| Product | Price |\n| --- | --- |\n| Laptop | $999 |\n| Mouse | $25 |\n",
		},
		"dash": {
			stdin: "a,b",
			args:  []string{"-"},
			want:  "| a | b |\n| --- | --- |\n",
		},
		"stream": {
			stdin: "A,B,C\nX,Y\nP,Q,R,S",
			args:  []string{"--stream"},
			want:  "| A | B | C |  |\n| --- | --- | --- | --- |\n| X | Y |  |  |\n| P | Q | R | S |\n",
		},
		"delimiter and align": {
			stdin: "Name;Age\nJohn;25",
			args:  []string{"-d", ";", "--align", "centre"},
			want:  "| Name | Age |\n| :---: | :---: |\n| John | 25 |\n",
		},
		"tab escape": {
			stdin: "a\tb",
			args:  []string{"--delimiter", `\t`},
			want:  "| a | b |\n| --- | --- |\n",
		},
		"no headers": {
			stdin: "Data1,Data2\nValue1,Value2",
			args:  []string{"--no-headers"},
			want:  "|  |  |\n| --- | --- |\n| Data1 | Data2 |\n| Value1 | Value2 |\n",
		},
		"pad": {
			stdin: "Name,Age\nJohn,25",
			args:  []string{"--pad", "--align", "right"},
			want:  "| Name | Age |\n| ---: | --: |\n| John |  25 |\n",
		},
		"stray quote kept": {
			stdin: "A\nsay \"hi\"",
			want:  "| A |\n| --- |\n| say \"hi\" |\n",
		},
		"empty": {
			stdin: "",
			want:  "|  |\n| --- |\n",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tio := &testIO{stdin: tt.stdin}
			require.NoError(t, tio.run(t, tt.args...))
			assert.Equal(t, tt.want, tio.stdout.String())
		})
	}
}

func TestRunConfigFile(t *testing.T) {
	t.Parallel()
	cfgPath := writeTemp(t, "csvmd.yaml", "delimiter: \";\"\nalign: right\nheaders: false\n")

	tio := &testIO{stdin: "a;b"}
	require.NoError(t, tio.run(t, "--config", cfgPath))
	assert.Equal(t, "|  |  |\n| ---: | ---: |\n| a | b |\n", tio.stdout.String())
}

func TestRunFlagsOverrideConfigFile(t *testing.T) {
	t.Parallel()
	cfgPath := writeTemp(t, "csvmd.yaml", "delimiter: \";\"\nalign: right\n")

	tio := &testIO{stdin: "a,b"}
	require.NoError(t, tio.run(t, "-c", cfgPath, "-d", ",", "--align", "left"))
	assert.Equal(t, "| a | b |\n| --- | --- |\n", tio.stdout.String())
}

func TestRunVerbose(t *testing.T) {
	t.Parallel()
	tio := &testIO{stdin: "a,b"}
	require.NoError(t, tio.run(t, "-v"))
	assert.Contains(t, tio.stderr.String(), "reading <stdin>")
	assert.Contains(t, tio.stderr.String(), "done")
}

func TestRunInteractiveHint(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	err := run([]string{"--stream"}, stdio{
		in:          strings.NewReader("a,b\n1,2"),
		out:         &stdout,
		err:         &stderr,
		interactive: true,
	})
	require.NoError(t, err)
	assert.Contains(t, stderr.String(), "Waiting for input via stdin")
	assert.Equal(t, "| a | b |\n| --- | --- |\n| 1 | 2 |\n", stdout.String())
}

func TestRunHelpAndVersion(t *testing.T) {
	t.Parallel()
	tio := &testIO{}
	require.NoError(t, tio.run(t, "--help"))
	assert.Contains(t, tio.stderr.String(), "Usage: csvmd")
	assert.Contains(t, tio.stderr.String(), "--no-headers")

	tio = &testIO{}
	require.NoError(t, tio.run(t, "--version"))
	assert.Equal(t, "csvmd dev\n", tio.stdout.String())
}

func TestRunErrors(t *testing.T) {
	t.Parallel()
	missing := filepath.Join(t.TempDir(), "missing.csv")
	tests := map[string]struct {
		stdin string
		args  []string
		code  int
	}{
		"unknown flag":       {args: []string{"--bogus"}, code: ExitUsage},
		"too many files":     {args: []string{"a.csv", "b.csv"}, code: ExitUsage},
		"bad alignment":      {args: []string{"--align", "justify"}, code: ExitUsage},
		"long delimiter":     {args: []string{"-d", "::"}, code: ExitUsage},
		"missing config":     {args: []string{"-c", missing + ".yaml"}, code: ExitUsage},
		"missing input":      {args: []string{missing}, code: ExitIO},
		"unterminated quote": {stdin: "A\n\"open", code: ExitParse},
		"strict bare quote":  {stdin: "A\nsay \"hi\"", args: []string{"--strict-quotes"}, code: ExitParse},
		"quote left open":    {stdin: "a,b\n1,\"open", args: []string{"--stream"}, code: ExitParse},
		"invalid utf8":       {stdin: "A\n\xff\xfe\xfd", code: ExitParse},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			tio := &testIO{stdin: tt.stdin}
			err := tio.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCodeFor(err))
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestRunOutputError(t *testing.T) {
	t.Parallel()
	var stderr bytes.Buffer
	err := run(nil, stdio{in: strings.NewReader("a,b"), out: failingWriter{}, err: &stderr})
	require.ErrorIs(t, err, io.ErrClosedPipe)
	assert.Equal(t, ExitIO, exitCodeFor(err))
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error", nil, ExitSuccess},
		{"unknown", errors.New("boom"), ExitGeneral},
		{"usage", ErrUsage, ExitUsage},
		{"config", csvmd.ErrConfig, ExitUsage},
		{"config file missing", fmt.Errorf("%w: %w", csvmd.ErrConfig, os.ErrNotExist), ExitUsage},
		{"parse", csvmd.ErrParse, ExitParse},
		{"wrapped parse", fmt.Errorf("input.csv: %w", csvmd.ErrParse), ExitParse},
		{"io", csvmd.ErrIO, ExitIO},
		{"open input", ErrOpenInput, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestExitCodesBelowReserved(t *testing.T) {
	t.Parallel()
	for _, code := range []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitParse} {
		assert.Less(t, code, 126)
	}
}
