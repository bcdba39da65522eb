package pipeline

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/pdfscan/internal/extract"
	"github.com/nao1215/pdfscan/internal/model"
)

// fakeDocument is an in-memory extract.Document.
type fakeDocument struct {
	path   string
	pages  []string
	errs   map[int]error
	panics map[int]any
	closed bool
}

func (d *fakeDocument) Path() string { return d.path }

func (d *fakeDocument) NumPage() int { return len(d.pages) }

func (d *fakeDocument) PageText(page int) (string, error) {
	if v, ok := d.panics[page]; ok {
		panic(v)
	}
	if err, ok := d.errs[page]; ok {
		return "", err
	}
	return d.pages[page-1], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// fakeLibrary opens fake documents by path.
type fakeLibrary struct {
	mu   sync.Mutex
	docs map[string]*fakeDocument
}

func newFakeLibrary(docs ...*fakeDocument) *fakeLibrary {
	lib := &fakeLibrary{docs: make(map[string]*fakeDocument)}
	for _, d := range docs {
		lib.docs[d.path] = d
	}
	return lib
}

func (l *fakeLibrary) open(path string) (extract.Document, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	d, ok := l.docs[path]
	if !ok {
		return nil, &extract.DocumentOpenError{Path: path, Err: errors.New("corrupt file")}
	}
	return d, nil
}

// fakeRecorder counts measurements.
type fakeRecorder struct {
	mu      sync.Mutex
	files   map[string]int
	pages   map[string]int
	matches map[string]int
	runs    int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		files:   make(map[string]int),
		pages:   make(map[string]int),
		matches: make(map[string]int),
	}
}

func (r *fakeRecorder) FileProcessed(status string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[status]++
}

func (r *fakeRecorder) PageExtracted(method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages[method]++
}

func (r *fakeRecorder) MatchFound(keyword string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[keyword]++
}

func (r *fakeRecorder) RunFinished(time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

// eventLog collects emitted events.
type eventLog struct {
	mu     sync.Mutex
	events []model.ProgressEvent
}

func (l *eventLog) emit(ev model.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) kinds() []model.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()
	kinds := make([]model.EventKind, len(l.events))
	for i, ev := range l.events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// longText pads s so that it is never treated as a scanned page.
func longText(s string) string {
	return s + " ................................................................"
}
