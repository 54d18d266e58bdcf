package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/chat-ocr/internal/ocr"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and OCR availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "chat-ocr %s\n", Version)
		fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)

		info := ocr.Probe(cfg.OCR)
		if info.Available {
			fmt.Fprintf(out, "  OCR: %s %s (%s)\n", info.Backend, info.Version, info.Language)
		} else {
			fmt.Fprintf(out, "  OCR: unavailable (%s)\n", info.Error)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(versionCmd)
}
