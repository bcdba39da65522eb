// Package model defines the core data structures used throughout pdfscan.
//
// This package contains the following main types:
//   - KeywordSet: The ordered, frozen list of search terms and match policies
//   - MatchRecord: A single keyword occurrence with its context window
//   - FileResult: The outcome of analyzing one PDF document
//   - BatchResult: The aggregated outcome of a whole run
//   - ProgressEvent: A structured progress notification emitted during a run
//
// Models are kept in their own package because the extract, matcher,
// pipeline and report packages all exchange them, and centralizing them
// prevents import cycles.
//
// The result types are serializable to JSON for the optional JSON report.
package model
