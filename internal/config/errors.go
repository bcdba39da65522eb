package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so that callers can use
// errors.Is() while still printing a human-readable message.
var (
	// ErrNoFiles is returned when no PDF document is given.
	ErrNoFiles = errors.New("no input files: provide at least one PDF file or directory")

	// ErrNoKeywords is returned when neither keywords nor a keyword file are configured.
	ErrNoKeywords = errors.New("no keywords: use --keyword or --keywords-file")

	// ErrEmptyProject is returned when the project name is blank.
	// The project name is part of every report file name.
	ErrEmptyProject = errors.New("project name must not be empty")

	// ErrNoOutputDir is returned when the output directory is blank.
	ErrNoOutputDir = errors.New("output directory must not be empty")

	// ErrInvalidDPI is returned when the rendering resolution is out of range.
	ErrInvalidDPI = errors.New("invalid DPI: must be between 1 and 1200")

	// ErrInvalidLanguage is returned when the OCR language is not a
	// '+'-separated list of tesseract language codes such as "spa" or "eng+spa".
	ErrInvalidLanguage = errors.New("invalid OCR language: expected codes like 'spa' or 'eng+spa'")
)
