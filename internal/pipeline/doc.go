// Package pipeline drives an analysis run over a batch of PDF documents.
//
// A FileAnalyzer turns one document into a model.FileResult by acquiring the
// text of every page and matching the keyword set against it. A BatchRunner
// applies the analyzer to each input document strictly in sequence and
// aggregates the results into a model.BatchResult. A Controller runs a batch
// on a dedicated goroutine, owns the model.RunState and fans progress events
// out to any number of subscribers.
//
// Nothing in this package formats output for humans; front-ends subscribe to
// the event stream and render it themselves.
package pipeline
