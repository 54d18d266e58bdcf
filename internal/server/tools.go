package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the screenshot",
}

var languageProperty = map[string]interface{}{
	"type":        "string",
	"description": "Tesseract language code, e.g. \"eng\" or \"eng+deu\". Defaults to the configured language",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chat_detect_regions",
			Description: "Detect the message bubbles of a chat screenshot. Returns one rectangle per text line with its side: LEFT (incoming), RIGHT (outgoing) or NONE (centered, e.g. timestamps).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chat_transcribe",
			Description: "Transcribe a chat screenshot into ordered messages, each with its text and side.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":     pathProperty,
					"language": languageProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "chat_transcribe_batch",
			Description: "Transcribe several chat screenshots one after another. Non-image paths are ignored and the rest are processed in natural filename order (shot2 before shot10).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to the screenshots",
					},
					"language": languageProperty,
				},
				"required": []string{"paths"},
			},
		},
		{
			Name:        "chat_overlay",
			Description: "Render the detected rectangles over the screenshot (LEFT blue, RIGHT green, NONE red) and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
