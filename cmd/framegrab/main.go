// Package main provides the CLI entry point for framegrab.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/framegrab/pkg/adapters/logger"
	"github.com/user/framegrab/pkg/adapters/osfilesystem"
	"github.com/user/framegrab/pkg/adapters/pgmwriter"
	"github.com/user/framegrab/pkg/adapters/probe"
	"github.com/user/framegrab/pkg/adapters/smartdecoder"
	"github.com/user/framegrab/pkg/config"
	"github.com/user/framegrab/pkg/orchestrator"
	"github.com/user/framegrab/pkg/pipeline"
	"github.com/user/framegrab/pkg/ports"
	"github.com/user/framegrab/pkg/stages/decode"
	"github.com/user/framegrab/pkg/summarizer"
)

var version = "dev"

// Process exit codes, one per failure kind.
const (
	exitOK          = 0
	exitOther       = 1
	exitUsage       = 2
	exitOpen        = 3
	exitProbe       = 4
	exitNoVideo     = 5
	exitDecoderInit = 6
	exitSubmission  = 7
	exitDecode      = 8
	exitIO          = 9
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	app := newApp(stdout, stderr)
	err := app.Run(args)
	code := exitCode(err)
	if code == exitUsage || code == exitOther {
		fmt.Fprintln(stderr, l10n.F("Error: %s", err))
	}
	return code
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "framegrab",
		Usage:     l10n.T("Write the first decoded video frames of a media file as PGM images"),
		UsageText: "framegrab [options] <input>",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    l10n.T("YAML configuration file"),
				Category: l10n.T("Configuration"),
			},
			&cli.StringFlag{
				Name:     "output-dir",
				Aliases:  []string{"o"},
				Usage:    l10n.T("Directory for the PGM files (default: .)"),
				Category: l10n.T("Output"),
			},
			&cli.StringFlag{
				Name:     "base-name",
				Aliases:  []string{"b"},
				Usage:    l10n.T("File name prefix of the PGM files (default: frame)"),
				Category: l10n.T("Output"),
			},
			&cli.IntFlag{
				Name:     "budget",
				Aliases:  []string{"n"},
				Usage:    l10n.T("Number of video packets to decode (default: 8)"),
				Category: l10n.T("Decoding"),
			},
			&cli.StringFlag{
				Name:     "backend",
				Usage:    l10n.T("Container backend (auto, libav, mp4, mkv)"),
				Category: l10n.T("Decoding"),
			},
			&cli.StringFlag{
				Name:     "summary",
				Usage:    l10n.T("Output execution summary to file (Markdown format)"),
				Category: l10n.T("Output"),
			},
			&cli.StringFlag{
				Name:     "log-level",
				Aliases:  []string{"l"},
				Usage:    l10n.T("Log level (debug, info, warn, error)"),
				Category: l10n.T("Logging"),
			},
			&cli.BoolFlag{
				Name:     "quiet",
				Aliases:  []string{"q"},
				Usage:    l10n.T("Suppress all log output"),
				Category: l10n.T("Logging"),
			},
		},
		OnUsageError: func(c *cli.Context, err error, isSubcommand bool) error {
			return fmt.Errorf("%w: %w", errUsage, err)
		},
		Action: extract,
	}
}

// extract executes one extraction run for the single input argument.
func extract(c *cli.Context) error {
	if c.NArg() != 1 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("%w: %s", errUsage, l10n.T("Exactly one input file argument is required"))
	}
	input := c.Args().First()

	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	level, _ := ports.ParseLogLevel(cfg.LogLevel)
	log := logger.NewConsole(level)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	opener := probe.NewOpener(fs, cfg.Backend, log)
	resolver := smartdecoder.New(log)
	decodeStage := decode.NewStage(pgmwriter.New(fs), log)

	orch := orchestrator.New(opener, resolver, decodeStage, fs, log)

	result, runErr := orch.Run(ctx, cfg.ToOrchestratorConfig(input))

	if cfg.Summary != "" {
		writeSummary(fs, log, cfg, input, result, runErr)
	}

	return runErr
}

// loadConfig layers defaults, the YAML file, FRAMEGRAB_* variables and
// command-line flags, in that order.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadFromFile(path); err != nil {
			return cfg, err
		}
	}

	if err := config.LoadEnv(&cfg, nil); err != nil {
		return cfg, err
	}

	if c.IsSet("output-dir") {
		cfg.OutputDir = c.String("output-dir")
	}
	if c.IsSet("base-name") {
		cfg.BaseName = c.String("base-name")
	}
	if c.IsSet("budget") {
		cfg.PacketBudget = c.Int("budget")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("summary") {
		cfg.Summary = c.String("summary")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("quiet") {
		cfg.LogLevel = ports.LevelQuiet.String()
	}

	return cfg, cfg.Validate()
}

func writeSummary(fs ports.FileSystem, log ports.Logger, cfg config.Config, input string, result orchestrator.RunResult, runErr error) {
	summary := summarizer.NewBuilder().
		WithRun(input, result).
		WithSettings(summarizer.Settings{
			PacketBudget: cfg.PacketBudget,
			OutputDir:    cfg.OutputDir,
			BaseName:     cfg.BaseName,
			Backend:      cfg.Backend,
		}).
		WithError(runErr).
		Build()

	formatter := summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	)
	if err := summarizer.NewWriter(formatter, fs).Write(cfg.Summary, summary); err != nil {
		log.Warn("Failed to write summary: %s", err)
		return
	}
	log.Info("Summary saved to %s", cfg.Summary)
}

// exitCode maps a run error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, pipeline.ErrOpen):
		return exitOpen
	case errors.Is(err, pipeline.ErrProbe):
		return exitProbe
	case errors.Is(err, pipeline.ErrNoVideoStream):
		return exitNoVideo
	case errors.Is(err, pipeline.ErrDecoderInit):
		return exitDecoderInit
	case errors.Is(err, pipeline.ErrSubmission):
		return exitSubmission
	case errors.Is(err, pipeline.ErrDecode):
		return exitDecode
	case errors.Is(err, pipeline.ErrIO):
		return exitIO
	default:
		return exitOther
	}
}
