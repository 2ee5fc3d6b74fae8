package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LdDl/lightanchor-go/lightanchor"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeLog(t *testing.T, dir string, code uint32, frames int) string {
	t.Helper()
	var sb strings.Builder
	sb.WriteString("frame;corners;brightness\n")
	for frame := 0; frame < frames; frame++ {
		brightness := 50
		if (code>>(7-uint(frame%8)))&0x1 == 1 {
			brightness = 200
		}
		fmt.Fprintf(&sb, "%d;60,44|68,44|68,52|60,52;%d\n", frame, brightness)
	}
	path := filepath.Join(dir, "frames.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o644))
	return path
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeLog(t, dir, 0b10110100, 20)
	configPath := filepath.Join(dir, "tuning.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"range_threshold": 20}`), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(options{
		InputPath:  inputPath,
		ConfigPath: configPath,
		Codes:      []string{"0b10110100"},
		Trace:      true,
	}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stderr.String(), "frames=20 skipped=0 detections=5")
	assert.Contains(t, stderr.String(), "event=lock")
	assert.Contains(t, stdout.String(), ";10110100;1;64.000000,48.000000;")
}

func TestRunOutputFile(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeLog(t, dir, 0b10110100, 16)
	outputPath := filepath.Join(dir, "detections.csv")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--input", inputPath, "--output", outputPath, "--code", "0xb4"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 2)
	assert.Empty(t, stdout.String())
}

func TestRunWithoutCodes(t *testing.T) {
	dir := t.TempDir()
	inputPath := writeLog(t, dir, 0b10110100, 4)
	var stdout, stderr bytes.Buffer
	err := run(options{InputPath: inputPath}, &stdout, &stderr)
	assert.Equal(t, lightanchor.ErrEmptyCodeTable, errors.Cause(err))
}
