package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/chat-ocr/internal/detection"
	"github.com/ironsheep/chat-ocr/internal/imaging"
	"github.com/ironsheep/chat-ocr/internal/transcript"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "chat_transcribe").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "chat_detect_regions":
		return s.handleDetectRegions(ctx, args)
	case "chat_transcribe":
		return s.handleTranscribe(ctx, args)
	case "chat_transcribe_batch":
		return s.handleTranscribeBatch(ctx, args)
	case "chat_overlay":
		return s.handleOverlay(ctx, args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return a, err
	}
	if a.Path == "" {
		return a, errors.New("path is required")
	}
	return a, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// RegionsResult is the response of chat_detect_regions.
type RegionsResult struct {
	Width   int                `json:"width"`
	Height  int                `json:"height"`
	Count   int                `json:"count"`
	Regions []detection.Record `json:"regions"`
}

func (s *Server) handleDetectRegions(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rects, err := s.transcriber.Regions(ctx, img)
	if err != nil {
		return nil, err
	}

	records := make([]detection.Record, len(rects))
	for i, r := range rects {
		records[i] = r.Record()
	}
	return &RegionsResult{
		Width:   img.Bounds().Dx(),
		Height:  img.Bounds().Dy(),
		Count:   len(records),
		Regions: records,
	}, nil
}

type transcribeArgs struct {
	Path     string   `json:"path"`
	Paths    []string `json:"paths"`
	Language string   `json:"language"`
}

// withEngine runs fn with a transcriber whose recognizer is a fresh engine
// for language, closing the engine afterwards.
func (s *Server) withEngine(language string, fn func(*transcript.Transcriber) error) error {
	opts := s.ocr
	if language != "" {
		opts.Language = language
	}
	eng, err := s.newEngine(opts)
	if err != nil {
		return fmt.Errorf("failed to start OCR engine: %w", err)
	}
	defer eng.Close()

	t := *s.transcriber
	t.Recognizer = eng
	return fn(&t)
}

// TranscribeResult is the response of chat_transcribe.
type TranscribeResult struct {
	Path     string               `json:"path"`
	Count    int                  `json:"count"`
	Messages []transcript.Message `json:"messages"`
}

func (s *Server) handleTranscribe(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a transcribeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}

	var messages []transcript.Message
	err := s.withEngine(a.Language, func(t *transcript.Transcriber) error {
		var err error
		messages, err = t.TranscribeFile(ctx, a.Path)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &TranscribeResult{Path: a.Path, Count: len(messages), Messages: messages}, nil
}

// BatchResult is the response of chat_transcribe_batch.
type BatchResult struct {
	Count   int                 `json:"count"`
	Results []transcript.Result `json:"results"`
}

func (s *Server) handleTranscribeBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a transcribeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, errors.New("paths is required")
	}

	var results []transcript.Result
	err := s.withEngine(a.Language, func(t *transcript.Transcriber) error {
		var err error
		results, err = t.TranscribeBatch(ctx, a.Paths)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &BatchResult{Count: len(results), Results: results}, nil
}

// OverlayResult is the response of chat_overlay.
type OverlayResult struct {
	*imaging.EncodedImage
	Count int `json:"count"`
}

func (s *Server) handleOverlay(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	rects, err := s.transcriber.Regions(ctx, img)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.RenderOverlay(img, rects, s.palette)
	if err != nil {
		return nil, err
	}
	return &OverlayResult{EncodedImage: enc, Count: len(rects)}, nil
}
