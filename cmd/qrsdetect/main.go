// Command qrsdetect replays a text file of ECG samples through the
// detector and writes the per-sample CSV instrumentation spec.md §6
// specifies, the direct analogue of the teacher's atest.go file-replay
// harness -- minus the WAV framing, since the detector's input contract
// is already a bare sample stream.
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/doismellburning/qrsdetect/pkg/config"
	"github.com/doismellburning/qrsdetect/pkg/detector"
	"github.com/doismellburning/qrsdetect/pkg/sink"
	"github.com/doismellburning/qrsdetect/pkg/source"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("qrsdetect", pflag.ContinueOnError)

	input := flags.StringP("input", "i", "", "input file of whitespace-separated integer samples (required)")
	output := flags.StringP("output", "o", "", "CSV output path")
	verbosity := flags.IntP("verbosity", "v", 0, "verbosity: 0 (beats only) or 1 (every sample)")
	configPath := flags.StringP("config", "c", "", "optional YAML config path")

	if err := flags.Parse(args); err != nil {
		return 1
	}

	if *input == "" {
		fmt.Fprintln(os.Stderr, "qrsdetect: -i/--input is required")
		flags.Usage()

		return 1
	}

	logger := log.New(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "err", err)

		return 1
	}

	if *verbosity != 0 {
		cfg.Verbosity = *verbosity
	}

	if *output != "" {
		cfg.CSVOutput = *output
	}

	reader, err := source.OpenFile(*input)
	if err != nil {
		logger.Error("opening input file", "err", err)

		return 1
	}
	defer reader.Close()

	var csvWriter *sink.CSVWriter

	if cfg.CSVOutput != "" {
		f, err := os.Create(cfg.CSVOutput)
		if err != nil {
			logger.Error("creating csv output", "err", err)

			return 1
		}
		defer f.Close()

		csvWriter, err = sink.NewCSVWriter(f)
		if err != nil {
			logger.Error("writing csv header", "err", err)

			return 1
		}
	}

	det := detector.NewDetector()

	for x := range reader.Samples() {
		beatDelay := det.ProcessSample(x)
		snap := det.Snapshot()

		if csvWriter != nil {
			if err := csvWriter.WriteSample(x, beatDelay, snap); err != nil {
				logger.Error("writing csv row", "err", err)

				return 1
			}
		}

		if cfg.Verbosity >= 1 {
			fmt.Printf("lpf=%d hpf=%d drf=%d sqf=%d mva=%d thI1=%d thF1=%d state=%s\n",
				snap.LPFVal, snap.HPFVal, snap.DRFVal, snap.SQFVal, snap.MVAVal,
				snap.ThI1, snap.ThF1, snap.State)
		}

		if beatDelay != 0 {
			logger.Info("beat detected", "delay", beatDelay, "state", snap.State)
		}
	}

	if err := reader.Err(); err != nil {
		logger.Error("reading input", "err", err)

		return 1
	}

	if csvWriter != nil {
		if err := csvWriter.Flush(); err != nil {
			logger.Error("flushing csv output", "err", err)

			return 1
		}
	}

	stats := det.Stats()
	logger.Info("done",
		"samples", stats.SamplesProcessed,
		"beats", stats.BeatsEmitted,
		"resets", stats.Resets,
		"search_backs", stats.SearchBacks,
	)

	return 0
}
