// Package detection locates license plates in photographs.
//
// Three interchangeable strategies implement PlateDetector. Each turns the
// photograph into a binary mask in its own way and hands the mask to a
// shared locate step:
//
//   - ThresholdBlurDetector: blurred luma split by a fixed or Otsu level.
//     Finds light plates on darker bodywork.
//   - CannyDetector: closed Canny edge outlines. Finds plates whose surface
//     is close in brightness to the car.
//   - MorphologyDetector: gradient clusters closed into blobs. Finds the
//     row of characters even when the plate border is invisible.
//
// # Locate Step
//
// Every foreground component of the mask gets a rotated rectangle fit to
// its boundary. A component is kept when that rectangle passes
// geometry.PlateFilter, which bounds aspect ratio and tilt as well as area
// relative to the photograph. Kept regions
// are then suppressed largest first, so a plate outline and the glyph row
// inside it produce one candidate.
//
// # Coordinate System
//
// Candidate rectangles are in the coordinate space of the image passed to
// FindPlates, including a non-zero bounds origin. Candidate.Plate is a copy
// of exactly that region with a zero origin.
//
// Detectors never fail and never return nil: a photograph with no
// plate-like region yields an empty slice.
package detection
