package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ccx/internal/debug"
	"github.com/standardbeagle/ccx/internal/lang"
	ccxmcp "github.com/standardbeagle/ccx/internal/mcp"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Run as an MCP stdio server",
		Action: mcpAction,
	}
}

func mcpAction(c *cli.Context) error {
	// Stdout carries the protocol stream; debug output may only go to a
	// file from here on.
	debug.SetMCPMode(true)
	if c.Bool("debug") {
		if logPath, err := debug.InitDebugLogFile(); err == nil {
			defer debug.CloseDebugLog()
			debug.LogMCP("debug log at %s\n", logPath)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return ccxmcp.NewServer(lang.NewRegistry()).Start(ctx)
}
