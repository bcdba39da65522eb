package model

import "time"

// RunState is the lifecycle state of an analysis run.
type RunState int

const (
	// RunStateIdle means no run has been started yet.
	RunStateIdle RunState = iota
	// RunStateRunning means a run is in progress.
	RunStateRunning
	// RunStateCompleted means the last run finished and its reports were written.
	RunStateCompleted
	// RunStateFailed means the last run could not write its reports.
	RunStateFailed
)

// String returns the state name.
func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateRunning:
		return "running"
	case RunStateCompleted:
		return "completed"
	case RunStateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EventKind identifies the kind of a ProgressEvent.
type EventKind int

const (
	// EventFileStarted is emitted before a document is opened.
	EventFileStarted EventKind = iota
	// EventPageExtracted is emitted after the text of a page was acquired.
	EventPageExtracted
	// EventFileFinished is emitted after a document was analyzed.
	EventFileFinished
	// EventFileFailed is emitted when a document could not be processed.
	EventFileFailed
	// EventReportWritten is emitted for every report file written.
	EventReportWritten
	// EventRunFinished is the last event of a run.
	EventRunFinished
	// EventInfo carries a free-form informational message.
	EventInfo
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventFileStarted:
		return "file_started"
	case EventPageExtracted:
		return "page_extracted"
	case EventFileFinished:
		return "file_finished"
	case EventFileFailed:
		return "file_failed"
	case EventReportWritten:
		return "report_written"
	case EventRunFinished:
		return "run_finished"
	case EventInfo:
		return "info"
	default:
		return "unknown"
	}
}

// ProgressEvent is a structured progress notification.
// Front-ends render these however they like; the pipeline never formats them.
type ProgressEvent struct {
	Kind    EventKind `json:"kind"`
	Time    time.Time `json:"time"`
	Index   int       `json:"index,omitempty"` // 1-based document index
	Total   int       `json:"total,omitempty"`
	File    string    `json:"file,omitempty"`
	Page    int       `json:"page,omitempty"`
	Method  string    `json:"method,omitempty"`
	Matches int       `json:"matches,omitempty"`
	Pages   int       `json:"pages,omitempty"`
	Message string    `json:"message,omitempty"`
}

// NewEvent creates a ProgressEvent of the given kind stamped with the current time.
func NewEvent(kind EventKind) ProgressEvent {
	return ProgressEvent{Kind: kind, Time: time.Now()}
}
