// Package segment isolates the characters of a leveled plate crop.
//
// The plate is binarized on perceptual lightness, the minority class is
// taken as ink, and every connected component of character size becomes a
// CharacterBox. A component nested inside another is dropped so a glyph
// with an inner mark yields one box.
package segment
