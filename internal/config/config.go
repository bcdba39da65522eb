package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
	"golang.org/x/text/language"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "pdfscan"

	// DefaultProject names the reports when the operator gives no project.
	DefaultProject = "Proyecto_OCR"

	// DefaultOutputDir is where reports are written.
	DefaultOutputDir = "./pdfscan_results"

	// DefaultOCRLanguage is the tesseract language used for scanned pages.
	DefaultOCRLanguage = "spa"

	// DefaultDPI is the resolution scanned pages are rendered at.
	// 300 DPI is the usual recommendation for tesseract input.
	DefaultDPI = 300

	// MaxDPI bounds the rendering resolution; larger values produce
	// images that exhaust memory without improving recognition.
	MaxDPI = 1200

	// TessdataEnv is the environment variable tesseract reads its data directory from.
	TessdataEnv = "TESSDATA_PREFIX"
)

// languagePattern matches '+'-separated tesseract language codes.
var languagePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(\+[A-Za-z0-9_]+)*$`)

// Config holds all configuration options for pdfscan.
// It is populated from defaults, the configuration file and CLI flags, in
// that order, and passed through the application rather than kept global.
type Config struct {
	// Project names the run and its report files.
	Project string

	// Description is printed in report headers.
	Description string

	// OutputDir is the directory reports are written to. It is created if missing.
	OutputDir string

	// Keywords are the search terms, in search order.
	Keywords []string

	// KeywordFile is a .txt, .json or .yaml file with more keywords.
	KeywordFile string

	// CaseSensitive disables case folding.
	CaseSensitive bool

	// WholeWord restricts matches to whole words.
	WholeWord bool

	// OCREnabled turns on optical recognition of scanned pages.
	OCREnabled bool

	// OCRLanguage is the tesseract language, e.g. "spa" or "eng+spa".
	OCRLanguage string

	// DPI is the resolution scanned pages are rendered at.
	DPI int

	// TessdataDir overrides where tesseract language data is looked up.
	TessdataDir string

	// Tabular enables the spreadsheet report.
	Tabular bool

	// Markdown enables the Markdown report.
	Markdown bool

	// JSON enables the JSON report.
	JSON bool

	// MetricsFile is a Prometheus textfile written after the run. Empty disables it.
	MetricsFile string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the configuration file given with --config.
	ConfigFilePath string

	// Files are the PDF documents to analyze, in order.
	Files []string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Project:     DefaultProject,
		OutputDir:   DefaultOutputDir,
		WholeWord:   true,
		OCREnabled:  true,
		OCRLanguage: DefaultOCRLanguage,
		DPI:         DefaultDPI,
		Tabular:     true,
	}
}

// XDGDataDir returns the XDG data directory for pdfscan.
// On Linux: ~/.local/share/pdfscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for pdfscan.
// On Linux: ~/.config/pdfscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGTessdataDir returns the per-user tesseract data directory.
func XDGTessdataDir() string {
	return filepath.Join(XDGDataDir(), "tessdata")
}

// ResolveTessdataDir returns the tesseract data directory to use:
// TessdataDir, then $TESSDATA_PREFIX, then XDGTessdataDir if it exists.
// An empty result lets the engine use its compiled-in default.
func (c *Config) ResolveTessdataDir() string {
	return resolveTessdataDir(c.TessdataDir, os.Getenv(TessdataEnv), XDGTessdataDir())
}

func resolveTessdataDir(explicit, env, userDir string) string {
	if explicit != "" {
		return explicit
	}
	if env != "" {
		return env
	}
	if info, err := os.Stat(userDir); err == nil && info.IsDir() {
		return userDir
	}
	return ""
}

// TitleLanguage returns the language used to upper-case report titles,
// derived from the first OCR language code.
func (c *Config) TitleLanguage() language.Tag {
	code, _, _ := strings.Cut(c.OCRLanguage, "+")
	code, _, _ = strings.Cut(code, "_")
	base, err := language.ParseBase(code)
	if err != nil {
		return language.Und
	}
	tag, err := language.Compose(base)
	if err != nil {
		return language.Und
	}
	return tag
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the package's sentinel errors.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoFiles
	}
	if len(c.Keywords) == 0 && c.KeywordFile == "" {
		return ErrNoKeywords
	}
	if strings.TrimSpace(c.Project) == "" {
		return ErrEmptyProject
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return ErrNoOutputDir
	}
	if c.OCREnabled {
		if c.DPI <= 0 || c.DPI > MaxDPI {
			return ErrInvalidDPI
		}
		if !languagePattern.MatchString(c.OCRLanguage) {
			return ErrInvalidLanguage
		}
	}
	return nil
}
