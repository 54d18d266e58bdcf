package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/chat-ocr/internal/detection"
)

var regionsCmd = &cobra.Command{
	Use:   "regions <image>",
	Short: "Print the detected line rectangles of a screenshot as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rects, err := newTranscriber().RegionsFile(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		records := make([]detection.Record, len(rects))
		for i, r := range rects {
			records[i] = r.Record()
		}
		return writeJSON(cmd.OutOrStdout(), records)
	},
}

func init() {
	RootCmd.AddCommand(regionsCmd)
}
