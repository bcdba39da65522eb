// Package main provides the entry point for the pdfscan CLI.
//
// pdfscan searches batches of PDF documents for keywords and writes a
// report with the page and surrounding context of every occurrence.
// Scanned pages without embedded text are recognized with Tesseract.
//
// Usage:
//
//	pdfscan scan -k gobierno -k municipal ./documents
//	pdfscan scan -K keywords.txt report.pdf annex.pdf
//
// See --help for all available options.
package main

// main is the entry point for pdfscan.
func main() {
	Execute()
}
