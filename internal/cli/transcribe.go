package cli

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/chat-ocr/internal/ocr"
)

var transcribeLanguage string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe <images...>",
	Short: "Recognize the messages of one or more screenshots",
	Long: `Recognize the messages of one or more screenshots.

Non-image arguments are ignored. Images are processed one at a time in
natural filename order and the transcripts are printed as JSON.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.OCR
		if transcribeLanguage != "" {
			opts.Language = transcribeLanguage
		}
		engine, err := ocr.New(opts)
		if err != nil {
			return err
		}
		defer engine.Close()

		t := newTranscriber()
		t.Recognizer = engine

		results, err := t.TranscribeBatch(cmd.Context(), args)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), results)
	},
}

func init() {
	RootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "", "Tesseract language code (overrides the config)")
}
