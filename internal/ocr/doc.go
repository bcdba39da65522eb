// Package ocr defines the optical recognition capability used for scanned pages.
//
// The extract package depends only on the Engine interface so that the
// pipeline keeps working, with degraded output, when no engine is installed.
// The tesseract subpackage provides the gosseract-backed implementation.
package ocr
