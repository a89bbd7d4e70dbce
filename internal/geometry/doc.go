// Package geometry holds the shape primitives shared by the plate detectors,
// the skew corrector and the character segmenter.
//
// # Coordinate System
//
// Coordinates follow the image/draw convention: origin at the top-left
// corner, X grows rightward, Y grows downward, and a box's Min is inclusive
// while its Max is exclusive. Angles are in degrees; a positive angle means
// the shape's long axis descends to the right on screen.
//
// # Contours
//
// A Contour is one 8-connected component of foreground pixels in a binary
// mask. Only the outer component is reported: pixels enclosed by a hole of
// another component (the counter of an "8", the bowl of a "0") belong to the
// hole, not to a contour of their own, unless they are foreground, in which
// case callers merge them by box containment.
package geometry
