// Package server implements the MCP (Model Context Protocol) server for chat
// screenshot transcription.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// Logs go to stderr; stdout carries protocol messages only.
//
// # Available Tools
//
//   - image_dimensions: Get width and height
//   - chat_detect_regions: Line rectangles with their LEFT/RIGHT/NONE side
//   - chat_transcribe: Recognized messages of one screenshot
//   - chat_transcribe_batch: Messages of many screenshots, in natural filename order
//   - chat_overlay: Debug rendering of the detected rectangles
//
// # Response Format
//
// Tool results are JSON documents wrapped in MCP text content:
//
//	{"content": [{"type": "text", "text": "{\"count\": 2, ...}"}]}
//
// # Image Caching
//
// Decoded screenshots are cached by path for the lifetime of the server, so
// detecting and then transcribing the same file decodes it once.
//
// # Recognition
//
// Each transcription call opens its own Tesseract engine for the requested
// language and closes it when done. Requests are handled one at a time.
package server
