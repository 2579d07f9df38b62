package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/aretw0/calcgame"
	"github.com/aretw0/calcgame/internal/cli"
	"github.com/aretw0/calcgame/pkg/adapters/mcp"
	"github.com/aretw0/calcgame/pkg/domain"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes calculator sessions as MCP tools so agents can play.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSetup(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		host, backend, err := s.openHost(domain.LifecycleHooks{})
		if err != nil {
			return err
		}
		defer backend.Close()

		srv := mcp.NewServer(host, strings.TrimSpace(calcgame.Version), mcp.WithLogger(s.logger))

		switch transport {
		case "stdio":
			// Logs must not corrupt JSON-RPC on stdout.
			log.SetOutput(os.Stderr)
			s.logger.Info("starting calcgame MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			s.logger.Info("starting calcgame MCP server (sse)", "port", port)
			ctx := cli.NewSignalContext(cmd.Context())
			defer ctx.Cancel()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			s.logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
