// Package cmd implements the mousemine-dump command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mgijax/mousemine-dumper/internal/config"
	"github.com/mgijax/mousemine-dumper/internal/exitcode"
	"github.com/mgijax/mousemine-dumper/internal/log"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/drawer"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/measure"
	"github.com/mgijax/mousemine-dumper/pkg/pipeline/model"
)

type options struct {
	configPath string
	logFile    string
	logLevel   string
	logFormat  string
	graphPath  string
	heartbeat  time.Duration
	dryRun     bool
	quiet      bool
}

// NewRootCommand returns the mousemine-dump command.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "mousemine-dump",
		Short: "Dump MGI items to ItemXML and check the dumped IDs",
		Long: `mousemine-dump runs the MGI item dump and then the item ID check, one after the other.

The run stops at the first step that cannot be launched or exits with a non-zero
status; later steps are not run. The exit code is 0 when every step succeeded
and 1 otherwise. The failing step's own log explains the failure.

Without --config the embedded pipeline is used. Its ${NAME} placeholders
(PYTHON, DUMPER_HOME, DUMPDIR, DUMPLOG, OBOFILE) are read from the environment.`,
		Args: func(cmd *cobra.Command, args []string) error {
			return exitcode.NewUsageError(cobra.NoArgs(cmd, args))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.NewUsageError(err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "YAML pipeline file (default: embedded MGI dump pipeline)")
	flags.StringVar(&opts.logFile, "log-file", "", "also append the runner log to this file")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	flags.StringVar(&opts.graphPath, "graph", "", "write a Graphviz DOT graph of the run to this file")
	flags.DurationVar(&opts.heartbeat, "heartbeat", 10*time.Minute, "log that a step is still running at this interval (0 disables)")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the resolved steps without running them")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not print the run summary")

	return cmd
}

// ExecuteContext runs the root command with os.Args.
func ExecuteContext(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}

	return config.Load(path)
}

func newLogger(opts *options, stderr io.Writer) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, nil, exitcode.NewUsageError(err)
	}

	format, err := log.ParseFormat(opts.logFormat)
	if err != nil {
		return nil, nil, exitcode.NewUsageError(err)
	}

	if opts.logFile == "" {
		return log.New(log.Config{Output: stderr, Level: level, Format: format}), func() {}, nil
	}

	file, err := log.OpenFile(opts.logFile)
	if err != nil {
		return nil, nil, err
	}

	logger := log.New(log.Config{Output: io.MultiWriter(stderr, file), Level: level, Format: format})

	return logger, func() { _ = file.Close() }, nil
}

func buildPipeline(steps []pipeline.Step, pipeOpts ...model.PipelineOption) (*pipeline.Pipeline, error) {
	pipe, err := pipeline.New(pipeOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	for _, step := range steps {
		_, err = pipeline.AddStep(pipe, step)
		if err != nil {
			return nil, errors.Wrap(err, "unable to add step")
		}
	}

	return pipe, nil
}

func printSteps(wrt io.Writer, pipe *pipeline.Pipeline) {
	for _, step := range pipe.Steps() {
		fmt.Fprintf(wrt, "%d. %s: %s\n", step.Index+1, step.Name, step.CommandLine())

		if step.Dir != "" {
			fmt.Fprintf(wrt, "   dir: %s\n", step.Dir)
		}

		for _, env := range step.Env {
			fmt.Fprintf(wrt, "   env: %s\n", env)
		}
	}
}

func logHeartbeat(logger *log.Logger) pipeline.HeartbeatFunc {
	return func(step *model.StepInfo, elapsed time.Duration) {
		logger.Info("step running",
			"step", step.Name,
			"index", step.Index+1,
			"elapsed", elapsed.Round(time.Second),
		)
	}
}

func run(ctx context.Context, stdout, stderr io.Writer, opts *options) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	steps, err := cfg.Resolve(os.LookupEnv)
	if err != nil {
		return errors.Wrap(err, "unable to resolve steps")
	}

	if opts.dryRun {
		pipe, err := buildPipeline(steps)
		if err != nil {
			return err
		}

		printSteps(stdout, pipe)

		return nil
	}

	logger, closeLog, err := newLogger(opts, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	msr := measure.NewDefaultMeasure()
	pipeOpts := []model.PipelineOption{
		log.PipelineLogger(logger),
		measure.PipelineMeasure(msr),
	}

	if opts.graphPath != "" {
		dotDrawer, err := drawer.NewDOTDrawer(opts.graphPath)
		if err != nil {
			return errors.Wrap(err, "unable to create drawer")
		}

		pipeOpts = append(pipeOpts, drawer.PipelineDrawer(dotDrawer))
	}

	pipe, err := buildPipeline(steps, pipeOpts...)
	if err != nil {
		return err
	}

	pipe.WithLauncher(&pipeline.ExecLauncher{
		Stdout:      stdout,
		Stderr:      stderr,
		Heartbeat:   opts.heartbeat,
		OnHeartbeat: logHeartbeat(logger.With("run_id", pipe.RunID())),
	})

	res, err := pipe.Run(ctx)
	if err != nil {
		return errors.Wrap(err, "unable to run pipeline")
	}

	if !opts.quiet {
		renderSummary(stderr, pipe.Steps(), res, msr)
	}

	return res.Err()
}
