package pipeline

import (
	"time"

	"github.com/nao1215/pdfscan/internal/model"
)

// Recorder receives run measurements. Implementations must be safe for use
// from the worker goroutine while another goroutine reads them.
type Recorder interface {
	// FileProcessed counts a document with its status ("processed" or "error").
	FileProcessed(status string)
	// PageExtracted counts a page by acquisition method.
	PageExtracted(method string)
	// MatchFound counts one match for the keyword.
	MatchFound(keyword string)
	// RunFinished records the wall time of a run.
	RunFinished(elapsed time.Duration)
}

// Emitter receives progress events in emission order.
type Emitter func(model.ProgressEvent)

// File statuses passed to Recorder.FileProcessed.
const (
	StatusProcessed = "processed"
	StatusError     = "error"
)

// pageMethodFailed is the method recorded for a page whose text could not be read.
const pageMethodFailed = "failed"

type nopRecorder struct{}

func (nopRecorder) FileProcessed(string)      {}
func (nopRecorder) PageExtracted(string)      {}
func (nopRecorder) MatchFound(string)         {}
func (nopRecorder) RunFinished(time.Duration) {}

func nopEmitter(model.ProgressEvent) {}
