package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/nao1215/pdfscan/internal/model"
)

// BatchRunner analyzes a list of documents one after another.
//
// Documents are never processed in parallel: the analysis of one file
// finishes, including closing it, before the next file is opened.
type BatchRunner struct {
	analyzer *FileAnalyzer
	project  string
	recorder Recorder
	emit     Emitter
	logger   *slog.Logger
}

// BatchOption configures a BatchRunner.
type BatchOption func(*BatchRunner)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchRunner) {
		b.logger = logger
	}
}

// WithProject sets the project name stamped on the BatchResult.
func WithProject(project string) BatchOption {
	return func(b *BatchRunner) {
		b.project = project
	}
}

// WithRecorder sets the recorder for file and run measurements.
func WithRecorder(r Recorder) BatchOption {
	return func(b *BatchRunner) {
		b.recorder = r
	}
}

// WithEmitter sets the receiver of progress events for Run.
func WithEmitter(emit Emitter) BatchOption {
	return func(b *BatchRunner) {
		b.emit = emit
	}
}

// NewBatchRunner creates a BatchRunner around analyzer.
// A nil analyzer gets NewFileAnalyzer defaults.
func NewBatchRunner(analyzer *FileAnalyzer, opts ...BatchOption) *BatchRunner {
	b := &BatchRunner{analyzer: analyzer}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.analyzer == nil {
		b.analyzer = NewFileAnalyzer(WithAnalyzerLogger(b.logger))
	}
	if b.recorder == nil {
		b.recorder = nopRecorder{}
	}
	if b.emit == nil {
		b.emit = nopEmitter
	}
	return b
}

// Run analyzes files in order and returns one FileResult per file in the
// same order. A failing file never stops the batch.
//
// Cancellation of ctx is checked between files only; the remaining files are
// left out of the result.
func (b *BatchRunner) Run(ctx context.Context, files []string, set model.KeywordSet) model.BatchResult {
	return b.run(ctx, files, set, b.emit)
}

func (b *BatchRunner) run(ctx context.Context, files []string, set model.KeywordSet, emit Emitter) model.BatchResult {
	files = slices.Clone(files)
	set = set.Freeze()

	result := model.BatchResult{
		RunID:     uuid.NewString(),
		Project:   b.project,
		StartedAt: time.Now(),
		Keywords:  set,
		Files:     make([]model.FileResult, 0, len(files)),
	}

	b.logger.Info("starting batch",
		"run_id", result.RunID,
		"files", len(files),
		"keywords", set.Len(),
	)

	total := len(files)
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			b.logger.Warn("batch cancelled", "remaining", total-i, "reason", err)
			ev := model.NewEvent(model.EventInfo)
			ev.Message = "run cancelled, " + path + " and later files skipped"
			emit(ev)
			break
		}

		started := model.NewEvent(model.EventFileStarted)
		started.Index = i + 1
		started.Total = total
		started.File = path
		emit(started)

		fr := b.analyzer.analyze(ctx, path, set, emit)
		result.Files = append(result.Files, fr)

		done := model.NewEvent(model.EventFileFinished)
		done.Index = i + 1
		done.Total = total
		done.File = fr.File
		if fr.Failed() {
			done.Kind = model.EventFileFailed
			done.Message = fr.Error
			b.recorder.FileProcessed(StatusError)
		} else {
			done.Matches = fr.TotalMatches
			done.Pages = fr.PagesProcessed
			b.recorder.FileProcessed(StatusProcessed)
		}
		emit(done)
	}

	result.FinishedAt = time.Now()
	elapsed := result.FinishedAt.Sub(result.StartedAt)
	b.recorder.RunFinished(elapsed)

	b.logger.Info("batch complete",
		"run_id", result.RunID,
		"files", len(result.Files),
		"matches", result.TotalMatches(),
		"errors", result.FilesWithErrors(),
		"elapsed", elapsed,
	)
	return result
}
