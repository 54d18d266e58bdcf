package cli

import (
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	chatimaging "github.com/ironsheep/chat-ocr/internal/imaging"
)

var overlayOutput string

var overlayCmd = &cobra.Command{
	Use:   "overlay <image>",
	Short: "Draw the detected rectangles over a screenshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		palette, err := cfg.Palette()
		if err != nil {
			return err
		}

		t := newTranscriber()
		img, err := t.Cache.Load(args[0])
		if err != nil {
			return err
		}
		rects, err := t.Regions(cmd.Context(), img)
		if err != nil {
			return err
		}

		if err := imaging.Save(chatimaging.DrawOverlay(img, rects, palette), overlayOutput); err != nil {
			return fmt.Errorf("failed to save overlay: %w", err)
		}
		slog.Info("Wrote overlay", "path", overlayOutput, "regions", len(rects))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(overlayCmd)

	overlayCmd.Flags().StringVarP(&overlayOutput, "output", "o", "", "Output image path (format from extension, required)")
	_ = overlayCmd.MarkFlagRequired("output")
}
