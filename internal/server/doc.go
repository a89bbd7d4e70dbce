// Package server exposes the plate reader as an MCP (Model Context Protocol)
// server.
//
// Requests arrive as JSON-RPC 2.0, one per line on the input stream, and
// responses are written one per line to the output stream. The methods are
// initialize, tools/list, tools/call and ping.
//
// # Tools
//
//   - image_load: decode and describe an image
//   - plate_recognize: full pipeline, returning plate strings and readings
//   - plate_detect: candidate regions, optionally drawn over the image
//   - plate_segment: character boxes of one region, optionally as a montage
//
// Images are decoded once per path and cached for the lifetime of the
// server. Tool results are JSON documents in a single text content item;
// generated images are embedded as base64 PNG. A failing tool answers
// with JSON-RPC error -32000 and the Go error in data.
package server
