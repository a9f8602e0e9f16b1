package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neboloop/mindsort/internal/server"
)

// ServeCmd starts the HTTP server
func ServeCmd() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API, websocket and MCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, server.ServerOptions{Quiet: quiet})
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress startup messages and access logs")
	return cmd
}

func runServe(cmd *cobra.Command, opts ...server.ServerOptions) error {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, *ServerConfig, opts...); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
