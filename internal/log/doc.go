// Package log builds the slog loggers used by pdfscan.
//
// Log lines routinely carry document paths, and document paths routinely
// carry the operator's account name. The PathHandler rewrites the home
// directory prefix in every string and error attribute to "~", so logs
// can be attached to a bug report as they are.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
//	logger.Warn("skipping unreadable page",
//	    "file", "/home/alice/scans/acta.pdf", // logged as ~/scans/acta.pdf
//	    "page", 3,
//	)
package log
