package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"

	"github.com/ironsheep/plate-reader/internal/detection"
	"github.com/ironsheep/plate-reader/internal/imaging"
	"github.com/ironsheep/plate-reader/internal/render"
)

var errMissingPath = errors.New("path is required")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall executes a tool and wraps its result in MCP's content
// format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool failures are JSON-RPC errors with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("Tool failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
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

func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "plate_recognize":
		return s.handlePlateRecognize(args)
	case "plate_detect":
		return s.handlePlateDetect(args)
	case "plate_segment":
		return s.handlePlateSegment(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON; marshal
// failures yield an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals args into v and returns the path it names.
func decodeArgs(args json.RawMessage, v interface{ path() string }) error {
	if len(args) > 0 {
		if err := json.Unmarshal(args, v); err != nil {
			return err
		}
	}
	if v.path() == "" {
		return errMissingPath
	}
	return nil
}

func encodePNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode PNG: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

type pathArgs struct {
	Path string `json:"path"`
}

func (a *pathArgs) path() string { return a.Path }

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handlePlateRecognize(args json.RawMessage) (interface{}, error) {
	var a pathArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return s.coordinator.Process(a.Path, img), nil
}

// CandidateInfo describes one detected plate region.
type CandidateInfo struct {
	Detector string  `json:"detector"`
	X1       int     `json:"x1"`
	Y1       int     `json:"y1"`
	X2       int     `json:"x2"`
	Y2       int     `json:"y2"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Angle    float64 `json:"angle"`
}

// DetectResult is the plate_detect response.
type DetectResult struct {
	Candidates   []CandidateInfo `json:"candidates"`
	AnnotatedPNG string          `json:"annotated_png,omitempty"`
}

type plateDetectArgs struct {
	pathArgs
	Detector string `json:"detector"`
	Annotate bool   `json:"annotate"`
}

func (s *Server) handlePlateDetect(args json.RawMessage) (interface{}, error) {
	var a plateDetectArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	detectors := s.detectors
	if a.Detector != "" {
		detectors = nil
		for _, d := range s.detectors {
			if d.Name() == a.Detector {
				detectors = append(detectors, d)
			}
		}
		if len(detectors) == 0 {
			return nil, fmt.Errorf("%w: %q is not configured", detection.ErrUnknownDetector, a.Detector)
		}
	}

	var candidates []detection.Candidate
	for _, d := range detectors {
		candidates = append(candidates, d.FindPlates(img)...)
	}

	result := &DetectResult{Candidates: make([]CandidateInfo, 0, len(candidates))}
	for _, c := range candidates {
		result.Candidates = append(result.Candidates, CandidateInfo{
			Detector: c.Detector,
			X1:       c.Rect.Box.Min.X,
			Y1:       c.Rect.Box.Min.Y,
			X2:       c.Rect.Box.Max.X,
			Y2:       c.Rect.Box.Max.Y,
			Width:    c.Rect.Width,
			Height:   c.Rect.Height,
			Angle:    c.Rect.Angle,
		})
	}

	if a.Annotate {
		result.AnnotatedPNG, err = encodePNG(render.DrawCandidates(img, candidates))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// CharacterInfo is one character box within the straightened plate.
type CharacterInfo struct {
	Index int `json:"index"`
	X1    int `json:"x1"`
	Y1    int `json:"y1"`
	X2    int `json:"x2"`
	Y2    int `json:"y2"`
}

// SegmentResult is the plate_segment response.
type SegmentResult struct {
	PlateWidth  int             `json:"plate_width"`
	PlateHeight int             `json:"plate_height"`
	Characters  []CharacterInfo `json:"characters"`
	MontagePNG  string          `json:"montage_png,omitempty"`
}

type plateSegmentArgs struct {
	pathArgs
	X1      int   `json:"x1"`
	Y1      int   `json:"y1"`
	X2      int   `json:"x2"`
	Y2      int   `json:"y2"`
	Deskew  *bool `json:"deskew"`
	Montage bool  `json:"montage"`
}

func (s *Server) handlePlateSegment(args json.RawMessage) (interface{}, error) {
	var a plateSegmentArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	region := image.Rect(a.X1, a.Y1, a.X2, a.Y2).Intersect(img.Bounds())
	if region.Empty() {
		return nil, fmt.Errorf("region (%d,%d)-(%d,%d) does not overlap the image", a.X1, a.Y1, a.X2, a.Y2)
	}

	var plate image.Image = imaging.Crop(img, region)
	if a.Deskew == nil || *a.Deskew {
		plate = s.deskewer.Deskew(plate)
	}
	chars := s.segmenter.Segment(plate)

	bounds := plate.Bounds()
	result := &SegmentResult{
		PlateWidth:  bounds.Dx(),
		PlateHeight: bounds.Dy(),
		Characters:  make([]CharacterInfo, 0, len(chars)),
	}
	for _, ch := range chars {
		result.Characters = append(result.Characters, CharacterInfo{
			Index: ch.Index,
			X1:    ch.Box.Min.X,
			Y1:    ch.Box.Min.Y,
			X2:    ch.Box.Max.X,
			Y2:    ch.Box.Max.Y,
		})
	}

	if a.Montage {
		result.MontagePNG, err = encodePNG(render.Montage(chars, nil))
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
