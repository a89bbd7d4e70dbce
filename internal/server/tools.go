package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

func coordinateProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// ToolDefinitions returns all available tools
func ToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and size. The decoded image is cached for the other tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_recognize",
			Description: "Run the full license plate pipeline on an image: detect plate regions with every configured detector, straighten them, split them into characters and read each character. Returns the distinct plate strings plus every per-candidate reading.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_detect",
			Description: "Find plate-like regions in an image without reading them. Returns each candidate's box, rotated size and tilt, and optionally the image with the candidates outlined as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"detector": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"threshold", "canny", "morphology"},
						"description": "Run only this detector. Default: all configured detectors",
					},
					"annotate": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the annotated image. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "plate_segment",
			Description: "Cut a plate region out of an image, straighten it and split it into character boxes ordered left to right. Box coordinates are relative to the straightened plate.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x1":   coordinateProperty("Left edge X coordinate of the plate (0-based)"),
					"y1":   coordinateProperty("Top edge Y coordinate of the plate (0-based)"),
					"x2":   coordinateProperty("Right edge X coordinate of the plate (exclusive)"),
					"y2":   coordinateProperty("Bottom edge Y coordinate of the plate (exclusive)"),
					"deskew": map[string]interface{}{
						"type":        "boolean",
						"description": "Straighten the plate before segmenting. Default true",
						"default":     true,
					},
					"montage": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the characters side by side as base64-encoded PNG. Default false",
						"default":     false,
					},
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
	}
}
