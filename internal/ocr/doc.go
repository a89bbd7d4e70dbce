// Package ocr reads single plate characters with Tesseract.
//
// Tesseract is driven through gosseract/v2 in single-character page mode
// with an optional character whitelist. One engine handle is created per
// run and reused for every character; creating a handle loads the language
// model, which costs far more than recognizing a glyph.
//
// # Prerequisites
//
// Tesseract and its language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// Set Config.TessdataPrefix when the traineddata files live outside the
// default search path.
package ocr
