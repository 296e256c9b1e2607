package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/njchilds90/goroots/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server exposing the solve, differentiate
and evaluate tools.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start a streamable HTTP server instead.

Examples:
  # Stdio mode (default)
  goroots mcp serve

  # HTTP mode
  goroots mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	serverCfg := mcpserver.Config{
		Defaults: cfg.SolverOptions(),
		Logger:   logger,
	}
	if cfg.History.Enabled {
		store, err := openHistory()
		if err != nil {
			return err
		}
		defer store.Close()
		serverCfg.History = store
	}

	server, err := mcpserver.NewServer(serverCfg)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		logger.Info("MCP server listening", zap.String("url", "http://localhost"+addr))
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
