package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ironsheep/chat-ocr/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chat tools over MCP on stdin/stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := server.New(cfg, Version, slog.Default())
		if err != nil {
			return err
		}
		slog.Debug("Starting MCP server", "version", Version, "built", BuildTime, "commit", GitCommit)
		return srv.Run(cmd.Context())
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
