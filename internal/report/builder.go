package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/nao1215/pdfscan/internal/model"
)

// TimestampLayout is the time format embedded in report file names.
const TimestampLayout = "20060102_150405"

// ErrNoOutputDir is returned when a Builder has no output directory.
var ErrNoOutputDir = errors.New("report output directory is empty")

// WriteError reports that the text report could not be written.
// It is the only report failure that fails a run.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Paths lists the files written by Build. Optional reports that were
// skipped or failed have an empty path.
type Paths struct {
	Text     string
	Tabular  string
	Markdown string
	JSON     string
}

// All returns the non-empty paths, text report first.
func (p Paths) All() []string {
	out := make([]string, 0, 4)
	for _, s := range []string{p.Text, p.Tabular, p.Markdown, p.JSON} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Builder writes every configured report for a batch into one directory.
type Builder struct {
	dir      string
	info     RunInfo
	tabular  TabularWriter
	markdown bool
	json     bool
	title    language.Tag
	now      func() time.Time
	logger   *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRunInfo sets the settings printed in report headers.
func WithRunInfo(info RunInfo) BuilderOption {
	return func(b *Builder) {
		b.info = info
	}
}

// WithTabular sets the spreadsheet writer. A nil writer skips the tabular report.
func WithTabular(w TabularWriter) BuilderOption {
	return func(b *Builder) {
		b.tabular = w
	}
}

// WithMarkdown enables the Markdown report.
func WithMarkdown(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.markdown = enabled
	}
}

// WithJSON enables the JSON report.
func WithJSON(enabled bool) BuilderOption {
	return func(b *Builder) {
		b.json = enabled
	}
}

// WithTitle sets the language the text report title is upper-cased in.
func WithTitle(tag language.Tag) BuilderOption {
	return func(b *Builder) {
		b.title = tag
	}
}

// WithBuilderClock sets the clock used for file names and report dates.
func WithBuilderClock(now func() time.Time) BuilderOption {
	return func(b *Builder) {
		b.now = now
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates a Builder writing into dir.
func NewBuilder(dir string, opts ...BuilderOption) *Builder {
	b := &Builder{
		dir:   dir,
		title: language.Und,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// Build writes the reports for result. The text report is written first and
// its failure is returned as a *WriteError; failures of the optional
// reports are logged and do not fail the build.
func (b *Builder) Build(result model.BatchResult) (Paths, error) {
	var paths Paths

	if b.dir == "" {
		return paths, &WriteError{Path: b.dir, Err: ErrNoOutputDir}
	}
	if err := os.MkdirAll(b.dir, 0750); err != nil {
		return paths, &WriteError{Path: b.dir, Err: err}
	}

	now := b.now()
	base := filepath.Join(b.dir, BaseName(result.Project, now))

	text := base + ".txt"
	err := writeReportFile(text, result, func(w io.Writer) Writer {
		return NewTextWriter(w, b.info,
			WithTitleLanguage(b.title),
			WithClock(func() time.Time { return now }),
		)
	})
	if err != nil {
		return paths, &WriteError{Path: text, Err: err}
	}
	paths.Text = text
	b.logger.Info("text report written", "path", text)

	if b.tabular == nil {
		b.logger.Info("tabular report skipped", "reason", "no spreadsheet writer configured")
	} else {
		path := base + b.tabular.Extension()
		if err := b.tabular.WriteFile(path, result); err != nil {
			b.logger.Warn("failed to write tabular report", "path", path, "error", err)
		} else {
			paths.Tabular = path
			b.logger.Info("tabular report written", "path", path)
		}
	}

	if b.markdown {
		path := base + ".md"
		err := writeReportFile(path, result, func(w io.Writer) Writer {
			return NewMarkdownWriter(w, b.info)
		})
		if err != nil {
			b.logger.Warn("failed to write markdown report", "path", path, "error", err)
		} else {
			paths.Markdown = path
		}
	}

	if b.json {
		path := base + ".json"
		err := writeReportFile(path, result, func(w io.Writer) Writer {
			return NewJSONWriter(w, b.info, WithPrettyPrint())
		})
		if err != nil {
			b.logger.Warn("failed to write JSON report", "path", path, "error", err)
		} else {
			paths.JSON = path
		}
	}

	return paths, nil
}

// BaseName returns the report file name without extension:
// report_<project>_<YYYYMMDD_HHMMSS>.
func BaseName(project string, t time.Time) string {
	return "report_" + sanitizeProject(project) + "_" + t.Format(TimestampLayout)
}

// sanitizeProject replaces characters that cannot appear in a file name.
func sanitizeProject(project string) string {
	project = strings.TrimSpace(project)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\':
			return '_'
		}
		return r
	}, project)
}

// writeReportFile creates path and writes result through the writer
// returned by newWriter.
func writeReportFile(path string, result model.BatchResult, newWriter func(io.Writer) Writer) (err error) {
	f, err := os.Create(path) //nolint:gosec // Path is built from the operator's output directory
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	buf := bufio.NewWriter(f)
	if _, err := newWriter(buf).Write(result); err != nil {
		return err
	}
	return buf.Flush()
}
