package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/pdfscan/internal/config"
	"github.com/nao1215/pdfscan/internal/extract"
	"github.com/nao1215/pdfscan/internal/keywords"
	"github.com/nao1215/pdfscan/internal/metrics"
	"github.com/nao1215/pdfscan/internal/model"
	"github.com/nao1215/pdfscan/internal/ocr"
	"github.com/nao1215/pdfscan/internal/ocr/tesseract"
	"github.com/nao1215/pdfscan/internal/pipeline"
	"github.com/nao1215/pdfscan/internal/render"
	"github.com/nao1215/pdfscan/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [pdf-file-or-directory...]",
		Short: "Search PDF documents for keywords and write a report",
		Long: `Scan searches every page of the given PDF documents for the configured
keywords and writes a detailed report into the output directory.

Directories are expanded to the *.pdf files they contain, in name order.
Pages without embedded text are rendered and recognized with Tesseract
unless --ocr=false is given. A document that cannot be read is listed in
the report with its error; it does not stop the run.

Reports written to the output directory:
  report_<project>_<timestamp>.txt   always
  report_<project>_<timestamp>.xlsx  unless --xlsx=false
  report_<project>_<timestamp>.md    with --markdown
  report_<project>_<timestamp>.json  with --json

Examples:
  # Search a directory for two keywords
  pdfscan scan -k gobierno -k municipal ./documents

  # Read keywords from a file, case sensitive
  pdfscan scan -K keywords.txt --case-sensitive report.pdf annex.pdf

  # English OCR, Markdown and JSON reports
  pdfscan scan -K keywords.yaml -l eng -m -j ./scans

  # Use a custom configuration file
  pdfscan scan -c myconfig.yaml ./documents`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Keyword flags
	cmd.Flags().StringArrayP("keyword", "k", nil,
		"Keyword to search for (repeatable)")
	cmd.Flags().StringP("keywords-file", "K", "",
		"Keyword file (.txt one per line, .json or .yaml list)")
	cmd.Flags().Bool("case-sensitive", false,
		"Match keywords case sensitively")
	cmd.Flags().Bool("whole-word", true,
		"Only match whole words")

	// OCR flags
	cmd.Flags().Bool("ocr", true,
		"Recognize scanned pages with Tesseract")
	cmd.Flags().StringP("lang", "l", config.DefaultOCRLanguage,
		"Tesseract language codes, joined with '+' (e.g. eng+spa)")
	cmd.Flags().Int("dpi", config.DefaultDPI,
		"Resolution scanned pages are rendered at")
	cmd.Flags().String("tessdata", "",
		"Directory holding *.traineddata files (default: $TESSDATA_PREFIX)")

	// Report flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Directory the reports are written to (created if needed)")
	cmd.Flags().StringP("project", "p", config.DefaultProject,
		"Project name used in report titles and file names")
	cmd.Flags().Bool("xlsx", true,
		"Write the spreadsheet report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Write the Markdown report")
	cmd.Flags().BoolP("json", "j", false,
		"Write the JSON report")
	cmd.Flags().String("metrics-file", "",
		"Write run metrics in Prometheus textfile format")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .pdfscan in current or home directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cmd, cmd.ErrOrStderr(), cfg.Verbose)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	// Cancellation takes effect between documents.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, cmd.OutOrStdout(), logger)
}

// loadConfigFile applies the configuration file to cfg. An explicitly
// requested file must exist; the default locations are optional.
func loadConfigFile(cfg *config.Config, explicit string) error {
	path := config.FindConfigFile(explicit)
	if path == "" {
		if explicit != "" {
			return fmt.Errorf("configuration file not found: %s", explicit)
		}
		return nil
	}
	cf, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cf.Apply(cfg)
	return nil
}

// buildConfig creates a Config from defaults, the configuration file and
// the flags the operator set, in that order.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	if err := loadConfigFile(cfg, cfg.ConfigFilePath); err != nil {
		return nil, err
	}

	if err := applyFlags(flags, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	cfg.Files, err = expandInputs(args)
	if err != nil {
		return nil, err
	}

	if len(cfg.Keywords) == 0 && cfg.KeywordFile == "" {
		cfg.Keywords = slices.Clone(model.DefaultKeywords)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// applyFlags overlays the flags that were set on the command line.
// Unset flags leave the configuration file values in place.
func applyFlags(flags *pflag.FlagSet, cfg *config.Config) error {
	if flags.Changed("keyword") {
		kws, err := flags.GetStringArray("keyword")
		if err != nil {
			return err
		}
		cfg.Keywords = kws
	}

	strs := []struct {
		name string
		dst  *string
	}{
		{"keywords-file", &cfg.KeywordFile},
		{"lang", &cfg.OCRLanguage},
		{"tessdata", &cfg.TessdataDir},
		{"output-dir", &cfg.OutputDir},
		{"project", &cfg.Project},
		{"metrics-file", &cfg.MetricsFile},
	}
	for _, s := range strs {
		if !flags.Changed(s.name) {
			continue
		}
		v, err := flags.GetString(s.name)
		if err != nil {
			return err
		}
		*s.dst = v
	}

	bools := []struct {
		name string
		dst  *bool
	}{
		{"case-sensitive", &cfg.CaseSensitive},
		{"whole-word", &cfg.WholeWord},
		{"ocr", &cfg.OCREnabled},
		{"xlsx", &cfg.Tabular},
		{"markdown", &cfg.Markdown},
		{"json", &cfg.JSON},
	}
	for _, b := range bools {
		if !flags.Changed(b.name) {
			continue
		}
		v, err := flags.GetBool(b.name)
		if err != nil {
			return err
		}
		*b.dst = v
	}

	if flags.Changed("dpi") {
		dpi, err := flags.GetInt("dpi")
		if err != nil {
			return err
		}
		cfg.DPI = dpi
	}
	return nil
}

// expandInputs replaces every directory argument with the PDF files it
// contains, sorted by name. Other arguments are kept as given so that a
// missing file shows up as a failed document in the report.
func expandInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", arg, err)
		}
		var pdfs []string
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
				continue
			}
			pdfs = append(pdfs, filepath.Join(arg, e.Name()))
		}
		slices.Sort(pdfs)
		files = append(files, pdfs...)
	}
	return files, nil
}

// runScan runs one batch and waits for its reports.
func runScan(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	set, err := buildKeywordSet(cfg, logger)
	if err != nil {
		return err
	}

	collector := metrics.New()
	acquirer := newAcquirer(cfg, logger)

	analyzer := pipeline.NewFileAnalyzer(
		pipeline.WithAcquirer(acquirer),
		pipeline.WithAnalyzerRecorder(collector),
		pipeline.WithAnalyzerLogger(logger),
	)
	runner := pipeline.NewBatchRunner(analyzer,
		pipeline.WithProject(cfg.Project),
		pipeline.WithRecorder(collector),
		pipeline.WithBatchLogger(logger),
	)
	controller := pipeline.NewController(runner, pipeline.WithControllerLogger(logger))

	logger.Info("starting scan",
		"files", len(cfg.Files),
		"keywords", set.Len(),
		"ocr", acquirer.OCRAvailable(),
		"output_dir", cfg.OutputDir,
	)

	events := controller.Subscribe()
	done, err := controller.Start(ctx, cfg.Files, set, newReportFunc(cfg, acquirer.OCRAvailable(), logger))
	if err != nil {
		return err
	}

	var outcome pipeline.Outcome
	g := new(errgroup.Group)
	g.Go(func() error {
		return printEvents(out, events, cfg.Verbose)
	})
	g.Go(func() error {
		outcome = <-done
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("failed to print progress", "error", err)
	}

	if cfg.MetricsFile != "" {
		if err := collector.WriteFile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics", "path", cfg.MetricsFile, "error", err)
		}
	}

	if outcome.Err != nil {
		var we *report.WriteError
		if errors.As(outcome.Err, &we) {
			return fmt.Errorf("failed to write report: %w", we)
		}
		return outcome.Err
	}
	return nil
}

// buildKeywordSet combines the configured keywords with the keyword file.
func buildKeywordSet(cfg *config.Config, logger *slog.Logger) (model.KeywordSet, error) {
	set := model.NewKeywordSet()
	set.CaseSensitive = cfg.CaseSensitive
	set.WholeWord = cfg.WholeWord
	set.AddAll(cfg.Keywords)

	if cfg.KeywordFile != "" {
		res, err := keywords.LoadFile(cfg.KeywordFile, &set)
		if err != nil {
			return set, fmt.Errorf("failed to load keywords: %w", err)
		}
		logger.Info("keyword file loaded", "path", res.Path, "added", res.Added, "skipped", res.Skipped)
	}

	if set.IsEmpty() {
		return set, config.ErrNoKeywords
	}
	return set, nil
}

// newAcquirer wires the renderer and the recognition engine that pass
// their checks. A missing tool disables recognition with a warning.
func newAcquirer(cfg *config.Config, logger *slog.Logger) *extract.Acquirer {
	opts := []extract.Option{
		extract.WithOCR(cfg.OCREnabled),
		extract.WithLanguage(cfg.OCRLanguage),
		extract.WithDPI(cfg.DPI),
		extract.WithLogger(logger),
	}
	if !cfg.OCREnabled {
		return extract.NewAcquirer(opts...)
	}

	renderers := render.Chain{render.NewFitz()}
	poppler := render.NewPoppler()
	if err := poppler.Check(); err != nil {
		logger.Debug("pdftoppm fallback disabled", "error", err)
	} else {
		renderers = append(renderers, poppler)
	}
	opts = append(opts, extract.WithRenderer(renderers))

	engine := tesseract.New(tesseract.WithTessdataDir(cfg.ResolveTessdataDir()))
	if err := ocr.Available(engine, cfg.OCRLanguage); err != nil {
		logger.Warn("scanned pages will not be recognized", "error", err)
	} else {
		opts = append(opts, extract.WithEngine(engine))
	}

	return extract.NewAcquirer(opts...)
}

// newReportFunc returns the report step run after the batch.
func newReportFunc(cfg *config.Config, ocrAvailable bool, logger *slog.Logger) pipeline.ReportFunc {
	var tabular report.TabularWriter
	if cfg.Tabular {
		tabular = report.NewExcelWriter()
	}

	builder := report.NewBuilder(cfg.OutputDir,
		report.WithRunInfo(report.RunInfo{
			Description: cfg.Description,
			OCREnabled:  ocrAvailable,
			OCRLanguage: cfg.OCRLanguage,
			Version:     getVersion(),
		}),
		report.WithTitle(cfg.TitleLanguage()),
		report.WithTabular(tabular),
		report.WithMarkdown(cfg.Markdown),
		report.WithJSON(cfg.JSON),
		report.WithLogger(logger),
	)

	return func(result model.BatchResult) ([]string, error) {
		paths, err := builder.Build(result)
		return paths.All(), err
	}
}

// printEvents writes one progress line per event until events is closed.
// It keeps draining after a write error so the run is never blocked.
func printEvents(out io.Writer, events <-chan model.ProgressEvent, verbose bool) error {
	var firstErr error
	for ev := range events {
		line, ok := formatEvent(ev, verbose)
		if !ok || firstErr != nil {
			continue
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			firstErr = err
		}
	}
	return firstErr
}

// formatEvent renders ev as a progress line. Page events are only shown
// when verbose.
func formatEvent(ev model.ProgressEvent, verbose bool) (string, bool) {
	switch ev.Kind {
	case model.EventFileStarted:
		return fmt.Sprintf("[%d/%d] processing %s", ev.Index, ev.Total, ev.File), true
	case model.EventPageExtracted:
		if !verbose {
			return "", false
		}
		return fmt.Sprintf("  page %d/%d (%s): %d matches", ev.Page, ev.Pages, ev.Method, ev.Matches), true
	case model.EventFileFinished:
		return fmt.Sprintf("%s: %d matches in %d pages", ev.File, ev.Matches, ev.Pages), true
	case model.EventFileFailed:
		return "error: " + ev.Message, true
	case model.EventReportWritten:
		return "report: " + ev.Message, true
	case model.EventRunFinished:
		return fmt.Sprintf("finished: %d files, %d matches (%s)", ev.Total, ev.Matches, ev.Message), true
	case model.EventInfo:
		return ev.Message, true
	default:
		return "", false
	}
}
