// Package imaging provides the pixel-level operations the plate pipeline is
// built from: grayscale and perceptual lightness conversion, smoothing,
// Otsu binarization, morphology, Canny edges, cropping, padding, rotation,
// and loading photographs from disk.
//
// # Conventions
//
// Intermediate images are *image.Gray with a zero origin. A binary mask uses
// 255 for foreground and 0 for background; anything at or above 128 counts
// as foreground when contours are traced. Functions never modify their
// input: each returns a new image, or the input itself when there is nothing
// to do.
//
// # Libraries
//
// Smoothing, Sobel gradients, thresholding and morphology come from
// github.com/anthonynsimon/bild. Cropping, padding, inversion, rotation and
// decoding come from github.com/disintegration/imaging. Perceptual lightness
// (CIE L*) comes from github.com/lucasb-eyer/go-colorful.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. Every other function is stateless.
package imaging
