package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/ironsheep/plate-reader/internal/config"
	"github.com/ironsheep/plate-reader/internal/deskew"
	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/pipeline"
	"github.com/ironsheep/plate-reader/internal/segment"
)

const (
	serverName      = "plate-reader"
	protocolVersion = "2024-11-05"
)

// JSON-RPC error codes used in responses.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server handles MCP protocol communication
type Server struct {
	// Version is reported in the initialize handshake.
	Version string

	cache       *imaging.ImageCache
	coordinator *pipeline.Coordinator
	detectors   []detection.PlateDetector
	deskewer    deskew.Deskewer
	segmenter   *segment.Segmenter
	logger      *slog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New builds a server whose tools run the components described by cfg and
// read characters with recognizer.
func New(recognizer pipeline.Recognizer, cfg config.Config, logger *slog.Logger) (*Server, error) {
	detectors, err := detection.NewSet(cfg.Detectors, cfg.Detection)
	if err != nil {
		return nil, err
	}
	deskewer, err := deskew.New(cfg.Deskew)
	if err != nil {
		return nil, err
	}
	segmenter := segment.New(cfg.Segment)

	return &Server{
		Version:   "dev",
		cache:     imaging.NewImageCache(),
		detectors: detectors,
		deskewer:  deskewer,
		segmenter: segmenter,
		logger:    logger,
		coordinator: pipeline.New(recognizer,
			pipeline.WithDetectors(detectors...),
			pipeline.WithDeskewer(deskewer),
			pipeline.WithSegmenter(segmenter),
			pipeline.WithParallel(cfg.Parallel),
			pipeline.WithLogger(logger),
		),
	}, nil
}

// Run serves newline-delimited requests from in until it is exhausted,
// writing responses to out.
func (s *Server) Run(in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	// Requests carry paths and small argument objects; 1MB is generous.
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.logger.Warn("Failed to parse request", "error", err)
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.logger.Error("Failed to encode response", "method", req.Method, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}
	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	s.logger.Debug("Request received", "method", req.Method, "id", req.ID)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{"tools": ToolDefinitions()},
		}
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": s.Version,
			},
		},
	}
}

func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{JSONRPC: "2.0", ID: id, Error: e}
}
