package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the propmatch MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents search listings, explain
scores, tune weights and look up stations through standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(cmd, args); err != nil {
			return err
		}
		// Stdout carries the protocol, so no headers may be printed there.
		rootCtx = core.WithSuppressHeader(rootCtx)
		return nil
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}
