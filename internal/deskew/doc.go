// Package deskew levels tilted plate crops before character segmentation.
//
// TextDeskewer, the default, fits a line through the centers of the
// character-like components of the plate. LineDeskewer instead finds the
// strongest near-horizontal straight line with a Hough transform, which
// suits plates with a printed border and few characters.
//
// Both report the correcting angle in degrees, counter-clockwise positive,
// and share the same fallback: when the estimate is missing, smaller than
// Config.MinAngle or larger than Config.MaxAngle, Deskew returns its input
// unchanged. A rotated result is larger than the input; its uncovered
// corners are filled with the plate's average border color.
package deskew
