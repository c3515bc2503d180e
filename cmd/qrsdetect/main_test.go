package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunFailsWithoutInputFlag(t *testing.T) {
	assert.Equal(t, 1, run(nil))
}

func TestRunFailsOnUnopenableInputFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")

	assert.Equal(t, 1, run([]string{"-i", missing}))
}

func TestRunWritesCSVForReplayedSamples(t *testing.T) {
	dir := t.TempDir()
	inputPath := filepath.Join(dir, "samples.txt")
	outputPath := filepath.Join(dir, "out.csv")

	samples := make([]string, 300)
	for i := range samples {
		samples[i] = "0"
	}

	require.NoError(t, os.WriteFile(inputPath, []byte(strings.Join(samples, "\n")), 0o644))

	exitCode := run([]string{"-i", inputPath, "-o", outputPath})

	require.Equal(t, 0, exitCode)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "Input,LPFilter,HPFilter,DerivativeF,SQRFilter,MVAFilter,RBeat,RunningThI1,SignalLevel,NoiseLevel,RunningThF", lines[0])
	assert.Len(t, lines, 1+len(samples))
}
