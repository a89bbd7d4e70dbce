package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ironsheep/plate-reader/internal/pipeline"
)

// callTool sends a tools/call request and decodes the text content into out.
// It returns the JSON-RPC error, if any.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) *MCPError {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{"name": name, "arguments": args})
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return resp.Error
	}

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), out); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	return nil
}

func decodePNG(t *testing.T, data string) image.Image {
	t.Helper()
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t)

	var info struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
	}
	if e := callTool(t, s, "image_load", map[string]interface{}{"path": path}, &info); e != nil {
		t.Fatalf("unexpected error: %+v", e)
	}
	if info.Width != 320 || info.Height != 200 || info.Format != "png" {
		t.Errorf("got %+v", info)
	}
}

func TestHandleToolsCall_PlateRecognize(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t)

	var result pipeline.Result
	if e := callTool(t, s, "plate_recognize", map[string]interface{}{"path": path}, &result); e != nil {
		t.Fatalf("unexpected error: %+v", e)
	}
	if result.Source != path {
		t.Errorf("source: got %q", result.Source)
	}
	if want := []string{"AB7XA"}; !reflect.DeepEqual(result.Plates, want) {
		t.Errorf("plates: got %v, want %v", result.Plates, want)
	}
}

func TestHandleToolsCall_PlateDetect(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t)

	var result DetectResult
	args := map[string]interface{}{"path": path, "detector": "threshold", "annotate": true}
	if e := callTool(t, s, "plate_detect", args, &result); e != nil {
		t.Fatalf("unexpected error: %+v", e)
	}
	if len(result.Candidates) == 0 {
		t.Fatal("expected a candidate")
	}

	center := image.Pt(160, 95)
	found := false
	for _, c := range result.Candidates {
		if c.Detector != "threshold" {
			t.Errorf("detector: got %q", c.Detector)
		}
		if center.In(image.Rect(c.X1, c.Y1, c.X2, c.Y2)) {
			found = true
		}
	}
	if !found {
		t.Errorf("no candidate covers the plate: %+v", result.Candidates)
	}

	annotated := decodePNG(t, result.AnnotatedPNG)
	if annotated.Bounds().Dx() != 320 || annotated.Bounds().Dy() != 200 {
		t.Errorf("annotated bounds: got %v", annotated.Bounds())
	}
}

func TestHandleToolsCall_PlateDetect_UnconfiguredDetector(t *testing.T) {
	s := newTestServer(t)
	var result DetectResult
	e := callTool(t, s, "plate_detect", map[string]interface{}{"path": writeScene(t), "detector": "canny"}, &result)
	if e == nil || e.Code != codeToolFailed {
		t.Errorf("got %+v, want tool failure", e)
	}
}

func TestHandleToolsCall_PlateSegment(t *testing.T) {
	s := newTestServer(t)
	path := writeScene(t)

	var result SegmentResult
	args := map[string]interface{}{
		"path": path,
		"x1":   plateBox.Min.X, "y1": plateBox.Min.Y,
		"x2": plateBox.Max.X, "y2": plateBox.Max.Y,
		"deskew":  false,
		"montage": true,
	}
	if e := callTool(t, s, "plate_segment", args, &result); e != nil {
		t.Fatalf("unexpected error: %+v", e)
	}

	if result.PlateWidth != 160 || result.PlateHeight != 50 {
		t.Errorf("plate size: got %dx%d", result.PlateWidth, result.PlateHeight)
	}
	if len(result.Characters) != 5 {
		t.Fatalf("characters: got %d, want 5", len(result.Characters))
	}
	for i, c := range result.Characters {
		if c.Index != i {
			t.Errorf("character %d has index %d", i, c.Index)
		}
		if i > 0 && c.X1 <= result.Characters[i-1].X1 {
			t.Errorf("characters out of order at %d", i)
		}
	}
	if montage := decodePNG(t, result.MontagePNG); montage.Bounds().Empty() {
		t.Error("empty montage")
	}
}

func TestHandleToolsCall_PlateSegment_OutsideImage(t *testing.T) {
	s := newTestServer(t)
	var result SegmentResult
	args := map[string]interface{}{"path": writeScene(t), "x1": 400, "y1": 300, "x2": 500, "y2": 350}
	if e := callTool(t, s, "plate_segment", args, &result); e == nil || e.Code != codeToolFailed {
		t.Errorf("got %+v, want tool failure", e)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := newTestServer(t)
	missing := filepath.Join(t.TempDir(), "missing.png")

	tests := []struct {
		name string
		tool string
		args map[string]interface{}
	}{
		{"unknown tool", "image_crop", map[string]interface{}{"path": missing}},
		{"missing path", "plate_recognize", map[string]interface{}{}},
		{"missing file", "plate_recognize", map[string]interface{}{"path": missing}},
		{"wrong argument type", "plate_detect", map[string]interface{}{"path": 7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out interface{}
			if e := callTool(t, s, tt.tool, tt.args, &out); e == nil || e.Code != codeToolFailed {
				t.Errorf("got %+v, want tool failure", e)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := newTestServer(t)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 9, Method: "tools/call", Params: json.RawMessage(`[1,2]`)})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("got %+v, want invalid params", resp.Error)
	}
}
