// This tool prints the header metadata of WAV files: the format chunk, the
// LIST and fact chunks when present, and the offset of every chunk.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/cwbudde/wavinspect"
	"github.com/cwbudde/wavinspect/internal/config"
	"github.com/cwbudde/wavinspect/internal/logging"
	"github.com/cwbudde/wavinspect/internal/report"
)

const (
	flagConfig     = "config"
	flagColor      = "color"
	flagNoOffsets  = "no-offsets"
	flagWorkers    = "workers"
	flagLogLevel   = "log-level"
	flagNoExtCheck = "no-ext-check"
)

var (
	errMissingPath     = errors.New("no file path provided")
	errNotAFile        = errors.New("not a file")
	errNotWavExtension = errors.New("not a wav file")
	// errInspectionFailed is returned once every failure has been logged.
	errInspectionFailed = errors.New("inspection failed")
)

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err == nil {
		return
	}

	if !errors.Is(err, errInspectionFailed) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(1)
}

func run(args []string, stdout, stderr io.Writer) error {
	app := &cli.App{
		Name:            "wavinspect",
		Usage:           "print the header of WAV files",
		ArgsUsage:       "<file.wav> [file.wav...]",
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to a config file (yaml, toml or json)",
			},
			&cli.StringFlag{
				Name:  flagColor,
				Usage: "colorize output: auto, always or never",
			},
			&cli.BoolFlag{
				Name:  flagNoOffsets,
				Usage: "do not print the chunk offset table",
			},
			&cli.IntFlag{
				Name:    flagWorkers,
				Aliases: []string{"j"},
				Usage:   "number of files inspected in parallel",
			},
			&cli.StringFlag{
				Name:  flagLogLevel,
				Usage: "debug, info, warn or error",
			},
			&cli.BoolFlag{
				Name:  flagNoExtCheck,
				Usage: "accept files without a .wav extension",
			},
		},
		Action: func(cCtx *cli.Context) error {
			return inspect(cCtx, stdout, stderr)
		},
	}

	return app.Run(append([]string{"wavinspect"}, args...))
}

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(cCtx.String(flagConfig))
	if err != nil {
		return nil, err
	}

	if cCtx.IsSet(flagColor) {
		cfg.Color = cCtx.String(flagColor)
	}

	if cCtx.IsSet(flagNoOffsets) {
		cfg.Offsets = !cCtx.Bool(flagNoOffsets)
	}

	if cCtx.IsSet(flagWorkers) {
		cfg.Workers = cCtx.Int(flagWorkers)
	}

	if cCtx.IsSet(flagLogLevel) {
		cfg.LogLevel = cCtx.String(flagLogLevel)
	}

	if cCtx.IsSet(flagNoExtCheck) {
		cfg.RequireExtension = !cCtx.Bool(flagNoExtCheck)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func inspect(cCtx *cli.Context, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cCtx.NArg() < 1 {
		return errMissingPath
	}

	printer := &report.Printer{
		Color:       report.ColorEnabled(cfg.Color, stdout),
		ShowOffsets: cfg.Offsets,
	}

	if f, ok := stdout.(*os.File); ok {
		stdout = colorable.NewColorable(f)
	}

	failed := false
	paths := make([]string, 0, cCtx.NArg())

	for _, path := range cCtx.Args().Slice() {
		if err := checkPath(path, cfg.RequireExtension); err != nil {
			logger.Error("invalid input", zap.Error(err))
			failed = true

			continue
		}

		paths = append(paths, path)
	}

	logger.Debug("inspecting files", zap.Int("count", len(paths)), zap.Int("workers", cfg.Workers))

	results := wavinspect.InspectFiles(cCtx.Context, paths, cfg.Workers)

	printed := 0

	for _, res := range results {
		if !logResult(logger, res) {
			failed = true
		}

		if res.Header == nil {
			continue
		}

		if printed > 0 {
			fmt.Fprintln(stdout)
		}

		printed++

		if err := printer.Print(stdout, res.Header); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if failed {
		return errInspectionFailed
	}

	return nil
}

// logResult logs the diagnostics of one result and reports whether it
// succeeded.
func logResult(logger *zap.Logger, res wavinspect.Result) bool {
	log := logger.With(zap.String("file", res.Path))

	if res.Header != nil {
		log.Debug("scan complete",
			zap.Int("chunks", len(res.Header.Chunks)),
			zap.Int("warnings", len(res.Header.Warnings)))

		for _, w := range res.Header.Warnings {
			log.Warn("chunk problem", zap.Error(w))
		}
	}

	if res.Err != nil {
		log.Error("failed to inspect", zap.Error(res.Err))
		return false
	}

	return true
}

func checkPath(path string, requireExt bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s is %w", path, errNotAFile)
	}

	if requireExt && !strings.EqualFold(filepath.Ext(path), ".wav") {
		return fmt.Errorf("%s is %w", path, errNotWavExtension)
	}

	return nil
}
