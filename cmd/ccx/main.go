// ccx is a codebase complexity analyzer: it walks a repository, parses every
// recognized source file with tree-sitter, and emits a canonical JSON report
// of cyclomatic and cognitive complexity.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccx/internal/config"
	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/lang"
	"github.com/standardbeagle/ccx/internal/report"
	"github.com/standardbeagle/ccx/internal/scan"
	"github.com/standardbeagle/ccx/internal/types"
	"github.com/standardbeagle/ccx/internal/version"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "ccx",
		Usage:                  "Codebase complexity analyzer for multi-language repositories",
		ArgsUsage:              "[path]",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Writer:                 os.Stdout,
		ErrWriter:              os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the JSON report to `FILE` instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "include-files",
				Usage: "Include the per-file breakdown in the report",
			},
			&cli.BoolFlag{
				Name:  "include-hidden",
				Usage: "Also scan dot-files and dot-directories",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Parser pool size (0 = CPU count)",
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Aliases: []string{"t"},
				Usage:   "Abort the scan after `DUR` (e.g. 90s)",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Length of the ranked complex-function list",
			},
			&cli.StringSliceFlag{
				Name:    "lang",
				Aliases: []string{"l"},
				Usage:   "Restrict the scan to a language (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "include",
				Aliases: []string{"i"},
				Usage:   "Keep only paths matching a doublestar glob (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:    "exclude",
				Aliases: []string{"e"},
				Usage:   "Extra gitignore-style exclusion (repeatable)",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Repository name in the report (default: root directory name)",
			},
			&cli.Int64Flag{
				Name:  "max-file-size",
				Usage: "Skip files larger than `BYTES`",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress progress output on stderr",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging on stderr",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("debug") {
				debug.SetEnabled(true)
				debug.SetDebugOutput(c.App.ErrWriter)
			}
			return nil
		},
		Commands: []*cli.Command{
			schemaCommand(),
			mcpCommand(),
			configCommand(),
			versionCommand(),
		},
		Action: scanAction,
	}
}

// loadConfigWithOverrides loads the layered configuration for root and
// applies CLI flag overrides on top.
func loadConfigWithOverrides(c *cli.Context, root string) (*config.Config, error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if langFlags := c.StringSlice("lang"); len(langFlags) > 0 {
		cfg.Languages = langFlags
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("timeout") {
		cfg.Timeout = c.Duration("timeout")
	}
	if c.IsSet("top") {
		cfg.Top = c.Int("top")
	}
	if c.IsSet("max-file-size") {
		cfg.MaxFileSize = c.Int64("max-file-size")
	}
	if c.Bool("include-hidden") {
		cfg.IncludeHidden = true
	}
	return cfg, nil
}

func scanAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return fmt.Errorf("expected at most one path argument, got %d", c.NArg())
	}
	root := c.Args().First()
	if root == "" {
		root = "."
	}

	cfg, err := loadConfigWithOverrides(c, root)
	if err != nil {
		return err
	}

	registry := lang.NewRegistry()
	opts, err := scan.OptionsFromConfig(cfg, registry)
	if err != nil {
		return err
	}
	opts.IncludeFiles = c.Bool("include-files")
	opts.Name = c.String("name")

	quiet := c.Bool("quiet")
	stderr := c.App.ErrWriter
	if !quiet {
		fmt.Fprintf(stderr, "Scanning %s...\n", root)
		opts.OnDiscover = func(n int) {
			fmt.Fprintf(stderr, "Found %d source files\n", n)
		}
		opts.Progress = func(done, total int) {
			fmt.Fprintf(stderr, "Parsed %d/%d files\n", done, total)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := scan.New(registry).Scan(ctx, root, opts)
	if err != nil {
		return err
	}

	if path := c.String("output"); path != "" {
		if err := report.Save(path, res.Report); err != nil {
			return err
		}
		if !quiet {
			fmt.Fprintf(stderr, "Report written to %s\n", path)
		}
	} else if err := report.Fprint(c.App.Writer, res.Report); err != nil {
		return err
	}

	if !quiet {
		report.FprintScanSummary(stderr, res.Report, failedCount(res.Units))
	}
	return nil
}

// failedCount tallies parse failures from the per-unit outcomes; the report
// itself only carries the rounded success rate.
func failedCount(units []types.SourceFile) int {
	n := 0
	for i := range units {
		if units[i].Status == types.StatusParseFailure {
			n++
		}
	}
	return n
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Action: func(c *cli.Context) error {
			fmt.Fprintln(c.App.Writer, version.FullInfo())
			return nil
		},
	}
}
