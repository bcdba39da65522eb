package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/nao1215/pdfscan/internal/extract"
	"github.com/nao1215/pdfscan/internal/matcher"
	"github.com/nao1215/pdfscan/internal/model"
)

// FileAnalyzer analyzes a single PDF document page by page.
type FileAnalyzer struct {
	open     extract.Opener
	acquirer *extract.Acquirer
	matcher  *matcher.Matcher
	recorder Recorder
	emit     Emitter
	logger   *slog.Logger
}

// AnalyzerOption configures a FileAnalyzer.
type AnalyzerOption func(*FileAnalyzer)

// WithOpener replaces the document opener. The default is extract.Open.
func WithOpener(open extract.Opener) AnalyzerOption {
	return func(a *FileAnalyzer) {
		a.open = open
	}
}

// WithAcquirer sets the page text acquirer.
func WithAcquirer(acq *extract.Acquirer) AnalyzerOption {
	return func(a *FileAnalyzer) {
		a.acquirer = acq
	}
}

// WithAnalyzerRecorder sets the recorder for page and match measurements.
func WithAnalyzerRecorder(r Recorder) AnalyzerOption {
	return func(a *FileAnalyzer) {
		a.recorder = r
	}
}

// WithAnalyzerEmitter sets the receiver of PageExtracted events.
func WithAnalyzerEmitter(emit Emitter) AnalyzerOption {
	return func(a *FileAnalyzer) {
		a.emit = emit
	}
}

// WithAnalyzerLogger sets a custom logger.
func WithAnalyzerLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *FileAnalyzer) {
		a.logger = logger
	}
}

// NewFileAnalyzer creates a FileAnalyzer. Without WithAcquirer, scanned
// pages are not recognized and only embedded text is searched.
func NewFileAnalyzer(opts ...AnalyzerOption) *FileAnalyzer {
	a := &FileAnalyzer{
		open:    extract.Open,
		matcher: matcher.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.acquirer == nil {
		a.acquirer = extract.NewAcquirer(extract.WithLogger(a.logger))
	}
	if a.recorder == nil {
		a.recorder = nopRecorder{}
	}
	if a.emit == nil {
		a.emit = nopEmitter
	}
	return a
}

// Analyze searches every page of the document at path for the keywords in set.
//
// A document that cannot be opened yields a failed result; a page that
// cannot be read is logged and contributes no matches. Analyze never panics
// on malformed input and always closes the document before returning.
func (a *FileAnalyzer) Analyze(ctx context.Context, path string, set model.KeywordSet) model.FileResult {
	return a.analyze(ctx, path, set, a.emit)
}

func (a *FileAnalyzer) analyze(ctx context.Context, path string, set model.KeywordSet, emit Emitter) model.FileResult {
	name := filepath.Base(path)

	doc, err := a.open(path)
	if err != nil {
		a.logger.Error("failed to open document", "file", path, "error", err)
		return model.NewFailedFileResult(path, err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			a.logger.Debug("failed to close document", "file", path, "error", err)
		}
	}()

	total := doc.NumPage()
	a.logger.Debug("analyzing document", "file", path, "pages", total)

	var (
		matches  []model.MatchRecord
		ocrPages int
	)
	for page := 1; page <= total; page++ {
		ev := model.NewEvent(model.EventPageExtracted)
		ev.File = name
		ev.Page = page
		ev.Pages = total

		res, found, err := a.analyzePage(ctx, doc, set, name, page)
		if err != nil {
			a.logger.Warn("skipping unreadable page", "file", path, "page", page, "error", err)
			a.recorder.PageExtracted(pageMethodFailed)
			ev.Method = pageMethodFailed
			ev.Message = err.Error()
			emit(ev)
			continue
		}
		if res.Method != extract.MethodEmbedded {
			ocrPages++
		}
		a.recorder.PageExtracted(res.Method)

		for _, m := range found {
			a.recorder.MatchFound(m.Keyword)
		}
		matches = append(matches, found...)

		ev.Method = res.Method
		ev.Matches = len(found)
		emit(ev)
	}

	return model.NewFileResult(path, matches, total, ocrPages)
}

// analyzePage acquires the text of one page and searches it.
// A panic while doing so is returned as a *extract.PageExtractionError so
// the page contributes no matches and the document continues.
func (a *FileAnalyzer) analyzePage(ctx context.Context, doc extract.Document, set model.KeywordSet, name string, page int) (res extract.Result, found []model.MatchRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, found = extract.Result{}, nil
			err = &extract.PageExtractionError{Page: page, Err: fmt.Errorf("page analysis aborted: %v", r)}
		}
	}()

	res, err = a.acquirer.Extract(ctx, doc, page)
	if err != nil {
		return extract.Result{}, nil, err
	}
	return res, a.matcher.Match(res.Text, set, name, page), nil
}
