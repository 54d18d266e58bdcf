// Package cli implements the chat-ocr command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/chat-ocr/internal/config"
	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
	"github.com/ironsheep/chat-ocr/internal/transcript"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// EnvConfig names the config file when --config is not given.
const EnvConfig = "CHAT_OCR_CONFIG"

// cfg is loaded before every command runs.
var cfg *config.Config

var RootCmd = &cobra.Command{
	Use:   "chat-ocr",
	Short: "Transcribe chat screenshots into LEFT/RIGHT messages",
	Long: `chat-ocr finds the message bubbles of chat screenshots, labels each line as
LEFT (incoming), RIGHT (outgoing) or NONE (centered) and recognizes its text
with Tesseract. Run "chat-ocr serve" to expose the same tools over MCP.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		if path == "" {
			path = os.Getenv(EnvConfig)
		}
		ll, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}
		cfg, err = config.Load(path, ll)
		if err != nil {
			return err
		}

		level, err := config.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		// stdout carries command output and the MCP protocol
		handler := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(handler)
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().String("log-level", "", "The logging level for the command (debug, info, warn, error)")
	RootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default $"+EnvConfig+")")
}

// newTranscriber builds the detection pipeline from the loaded config.
func newTranscriber() *transcript.Transcriber {
	detector := detection.NewDetector(cfg.Detection, imaging.NewSurface())
	detector.Logger = slog.Default()
	return &transcript.Transcriber{
		Detector: detector,
		Edges:    cfg.Edges,
		Cache:    imaging.NewImageCache(),
		Logger:   slog.Default(),
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
