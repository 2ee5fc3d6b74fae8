package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/LdDl/lightanchor-go/internal/config"
	"github.com/LdDl/lightanchor-go/internal/replay"
	"github.com/LdDl/lightanchor-go/lightanchor"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Version is the application version.
const Version = "0.1.0"

type options struct {
	InputPath  string
	OutputPath string
	ConfigPath string
	Codes      []string
	Doubled    bool
	Trace      bool
}

func newRootCmd() *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:          "lightanchor-replay",
		Short:        "Replay recorded quad/brightness log through lightanchor tracker",
		Version:      Version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	cmd.Flags().StringVarP(&opts.InputPath, "input", "i", "", "Path to frame log (';'-separated CSV)")
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Path to detections CSV (default: stdout)")
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to JSON tuning config")
	cmd.Flags().StringSliceVar(&opts.Codes, "code", nil, "Registered code, e.g. 0b10110100 (repeatable)")
	cmd.Flags().BoolVar(&opts.Doubled, "doubled", false, "Use doubled encoding with even/odd matching")
	cmd.Flags().BoolVar(&opts.Trace, "trace", false, "Print decoder trace to stderr")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func run(opts options, stdout, stderr io.Writer) error {
	cfg := config.EmptyTuningConfig()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadTuningConfig(opts.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if opts.Doubled {
		cfg.SetMatcher(config.MatcherEvenOdd)
	}
	cfg.Codes = append(cfg.Codes, opts.Codes...)
	codes, err := cfg.ParsedCodes()
	if err != nil {
		return err
	}
	if len(codes) == 0 {
		return errors.Wrap(lightanchor.ErrEmptyCodeTable, "use --code or \"codes\" in config")
	}

	trackerOpts := cfg.Options()
	if opts.Trace {
		trackerOpts.Tracer = lightanchor.NewLogTracer(log.New(stderr, "", log.Lmicroseconds))
	}
	tracker, err := lightanchor.NewTracker(trackerOpts, codes...)
	if err != nil {
		return err
	}

	input, err := os.Open(opts.InputPath)
	if err != nil {
		return errors.Wrap(err, "Can't open frame log")
	}
	defer input.Close()
	frames, err := replay.ReadFrames(input)
	if err != nil {
		return err
	}

	output := stdout
	if opts.OutputPath != "" {
		file, err := os.Create(opts.OutputPath)
		if err != nil {
			return errors.Wrap(err, "Can't create output file")
		}
		defer file.Close()
		output = file
	}
	writer := replay.NewDetectionWriter(output, trackerOpts.Matcher.LogicalWidth())
	stats, err := replay.Run(tracker, frames, writer.Write)
	if err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrap(err, "Can't flush detections")
	}
	fmt.Fprintf(stderr, "frames=%d skipped=%d detections=%d\n", stats.Frames, stats.SkippedFrames, stats.Detections)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
