// Package render visualizes the plate pipeline.
//
// FileRenderer implements pipeline.Observer and writes annotated PNGs that
// show what each stage saw. The drawing helpers are exported for the MCP
// server, which returns the same pictures inline.
package render
