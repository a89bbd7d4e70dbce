// Package pipeline turns photographs into sets of plate strings.
//
// A Coordinator runs every configured detector over an image, then for
// each candidate plate levels it, splits it into characters and asks the
// Recognizer for one label per character. Labels are cleaned to printable
// ASCII and joined left to right; the non-empty strings of all candidates
// form the image's plate set, so a plate found by several detectors is
// reported once.
//
// The Recognizer is the only external collaborator. Tests substitute a
// RecognizerFunc; the command wires in the Tesseract engine from the ocr
// package.
package pipeline
