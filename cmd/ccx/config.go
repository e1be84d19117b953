package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccx/internal/config"
	"github.com/standardbeagle/ccx/internal/lang"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage .ccx.kdl configuration",
		Subcommands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "Write a commented starter .ccx.kdl",
				ArgsUsage: "[path]",
				Action:    configInitAction,
			},
			{
				Name:      "show",
				Usage:     "Print the effective merged configuration",
				ArgsUsage: "[path]",
				Action:    configShowAction,
			},
			{
				Name:      "validate",
				Usage:     "Check config files for syntax and value errors",
				ArgsUsage: "[path]",
				Action:    configValidateAction,
			},
		},
	}
}

func configRoot(c *cli.Context) string {
	if root := c.Args().First(); root != "" {
		return root
	}
	return "."
}

func configInitAction(c *cli.Context) error {
	path := filepath.Join(configRoot(c), config.FileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(config.Starter()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func configShowAction(c *cli.Context) error {
	cfg, err := config.Load(configRoot(c))
	if err != nil {
		return err
	}
	fmt.Fprint(c.App.Writer, cfg.Render())
	return nil
}

func configValidateAction(c *cli.Context) error {
	root := configRoot(c)
	files, issues := config.Validate(root)

	// Language names need the registry, which the config package stays
	// free of; check the merged result here.
	if cfg, err := config.Load(root); err == nil {
		if _, err := lang.NewRegistry().ResolveFilter(cfg.Languages); err != nil {
			issues = append(issues, config.Issue{Path: filepath.Join(root, config.FileName), Message: err.Error()})
		}
	}

	w := c.App.Writer
	if len(files) == 0 {
		fmt.Fprintln(w, "No config files found")
		return nil
	}
	for _, f := range files {
		fmt.Fprintf(w, "Checked %s\n", f)
	}
	if len(issues) == 0 {
		fmt.Fprintln(w, "Configuration is valid")
		return nil
	}
	for _, issue := range issues {
		fmt.Fprintln(w, issue.String())
	}
	return fmt.Errorf("%d config issue(s)", len(issues))
}
