package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/language"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Changes to defaults must be intentional, so each one is pinned here.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Project is Proyecto_OCR", func(t *testing.T) {
		t.Parallel()
		if cfg.Project != "Proyecto_OCR" {
			t.Errorf("expected Project to be 'Proyecto_OCR', got '%s'", cfg.Project)
		}
	})

	t.Run("default OutputDir is ./pdfscan_results", func(t *testing.T) {
		t.Parallel()
		if cfg.OutputDir != "./pdfscan_results" {
			t.Errorf("expected OutputDir to be './pdfscan_results', got '%s'", cfg.OutputDir)
		}
	})

	t.Run("matching is case-insensitive and whole-word", func(t *testing.T) {
		t.Parallel()
		if cfg.CaseSensitive {
			t.Error("expected CaseSensitive to be false")
		}
		if !cfg.WholeWord {
			t.Error("expected WholeWord to be true")
		}
	})

	t.Run("OCR is enabled in spanish at 300 DPI", func(t *testing.T) {
		t.Parallel()
		if !cfg.OCREnabled {
			t.Error("expected OCREnabled to be true")
		}
		if cfg.OCRLanguage != "spa" {
			t.Errorf("expected OCRLanguage to be 'spa', got '%s'", cfg.OCRLanguage)
		}
		if cfg.DPI != 300 {
			t.Errorf("expected DPI to be 300, got %d", cfg.DPI)
		}
	})

	t.Run("only the tabular report is enabled", func(t *testing.T) {
		t.Parallel()
		if !cfg.Tabular || cfg.Markdown || cfg.JSON {
			t.Errorf("expected tabular only, got tabular=%v markdown=%v json=%v", cfg.Tabular, cfg.Markdown, cfg.JSON)
		}
	})

	t.Run("default Verbose is false", func(t *testing.T) {
		t.Parallel()
		if cfg.Verbose {
			t.Error("expected Verbose to be false")
		}
	})
}

// TestConfigValidate tests the Validate method.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.Files = []string{"a.pdf"}
		cfg.Keywords = []string{"gobierno"}
		return cfg
	}

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"valid config returns nil", func(*Config) {}, nil},
		{"keyword file alone is valid", func(c *Config) { c.Keywords = nil; c.KeywordFile = "kw.txt" }, nil},
		{"no files returns ErrNoFiles", func(c *Config) { c.Files = nil }, ErrNoFiles},
		{"no keywords returns ErrNoKeywords", func(c *Config) { c.Keywords = nil }, ErrNoKeywords},
		{"blank project returns ErrEmptyProject", func(c *Config) { c.Project = "  " }, ErrEmptyProject},
		{"blank output dir returns ErrNoOutputDir", func(c *Config) { c.OutputDir = "" }, ErrNoOutputDir},
		{"zero DPI returns ErrInvalidDPI", func(c *Config) { c.DPI = 0 }, ErrInvalidDPI},
		{"huge DPI returns ErrInvalidDPI", func(c *Config) { c.DPI = 5000 }, ErrInvalidDPI},
		{"combined languages are valid", func(c *Config) { c.OCRLanguage = "eng+spa" }, nil},
		{"script variants are valid", func(c *Config) { c.OCRLanguage = "chi_sim" }, nil},
		{"empty language returns ErrInvalidLanguage", func(c *Config) { c.OCRLanguage = "" }, ErrInvalidLanguage},
		{"path-like language returns ErrInvalidLanguage", func(c *Config) { c.OCRLanguage = "../spa" }, ErrInvalidLanguage},
		{"trailing plus returns ErrInvalidLanguage", func(c *Config) { c.OCRLanguage = "spa+" }, ErrInvalidLanguage},
		{"OCR settings are ignored when disabled", func(c *Config) { c.OCREnabled = false; c.DPI = 0; c.OCRLanguage = "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("expected nil, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

// TestTitleLanguage tests deriving the title language from the OCR language.
func TestTitleLanguage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang string
		want language.Tag
	}{
		{"spa", language.Spanish},
		{"eng+spa", language.English},
		{"", language.Und},
		{"zzzz", language.Und},
	}
	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			cfg.OCRLanguage = tt.lang
			if got := cfg.TitleLanguage(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestResolveTessdataDir tests the tessdata lookup order.
func TestResolveTessdataDir(t *testing.T) {
	t.Parallel()

	userDir := t.TempDir()
	missing := filepath.Join(t.TempDir(), "missing")

	tests := []struct {
		name     string
		explicit string
		env      string
		userDir  string
		want     string
	}{
		{"explicit wins", "/opt/tessdata", "/env/tessdata", userDir, "/opt/tessdata"},
		{"environment is second", "", "/env/tessdata", userDir, "/env/tessdata"},
		{"user directory when it exists", "", "", userDir, userDir},
		{"engine default otherwise", "", "", missing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := resolveTessdataDir(tt.explicit, tt.env, tt.userDir); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestFileApply tests overlaying a configuration file onto defaults.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("present fields override defaults", func(t *testing.T) {
		t.Parallel()

		no, yes := false, true
		cf := &File{
			Project:     "Auditoría",
			OutputDir:   "/tmp/out",
			Keywords:    []string{"gobierno", "ciudad"},
			WholeWord:   &no,
			OCR:         OCRSection{Enabled: &no, Language: "eng", DPI: 150, Tessdata: "/opt/tessdata"},
			Reports:     ReportSection{Markdown: &yes, Tabular: &no},
			MetricsFile: "/var/lib/node_exporter/pdfscan.prom",
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.Project != "Auditoría" || cfg.OutputDir != "/tmp/out" {
			t.Errorf("unexpected project settings %q %q", cfg.Project, cfg.OutputDir)
		}
		if !slices.Equal(cfg.Keywords, []string{"gobierno", "ciudad"}) {
			t.Errorf("unexpected keywords %v", cfg.Keywords)
		}
		if cfg.WholeWord || cfg.OCREnabled || cfg.Tabular || !cfg.Markdown {
			t.Error("expected explicit false and true values to be applied")
		}
		if cfg.OCRLanguage != "eng" || cfg.DPI != 150 || cfg.TessdataDir != "/opt/tessdata" {
			t.Errorf("unexpected OCR settings %q %d %q", cfg.OCRLanguage, cfg.DPI, cfg.TessdataDir)
		}
		if cfg.MetricsFile == "" {
			t.Error("expected metrics file to be set")
		}
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		(&File{}).Apply(cfg)

		if !reflect.DeepEqual(cfg, NewConfig()) {
			t.Errorf("expected defaults to be unchanged, got %+v", cfg)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.pdfscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".pdfscan")
		content := `project: Auditoría 2024
keywords:
  - gobierno
  - municipal
case_sensitive: true
ocr:
  enabled: false
  language: eng+spa
  dpi: 200
reports:
  json: true
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Project != "Auditoría 2024" {
			t.Errorf("expected project, got %q", cf.Project)
		}
		if len(cf.Keywords) != 2 {
			t.Errorf("expected 2 keywords, got %d", len(cf.Keywords))
		}
		if cf.CaseSensitive == nil || !*cf.CaseSensitive {
			t.Error("expected case_sensitive to be true")
		}
		if cf.WholeWord != nil {
			t.Error("expected whole_word to be absent")
		}
		if cf.OCR.Enabled == nil || *cf.OCR.Enabled || cf.OCR.Language != "eng+spa" || cf.OCR.DPI != 200 {
			t.Errorf("unexpected OCR section %+v", cf.OCR)
		}
		if cf.Reports.JSON == nil || !*cf.Reports.JSON {
			t.Error("expected reports.json to be true")
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".pdfscan")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Run("returns explicit path if exists", func(t *testing.T) {
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("project: x\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if got := FindConfigFile(configPath); got != configPath {
			t.Errorf("expected %s, got %s", configPath, got)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		if got := FindConfigFile("/nonexistent/custom.yaml"); got != "" {
			t.Errorf("expected empty string, got %s", got)
		}
	})

	t.Run("finds .pdfscan in the current directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		if err := os.WriteFile(filepath.Join(dir, DefaultConfigFile), []byte("project: x\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		got := FindConfigFile("")
		if !strings.HasSuffix(got, DefaultConfigFile) || filepath.Dir(got) != dir {
			t.Errorf("expected %s in %s, got %s", DefaultConfigFile, dir, got)
		}
	})
}

// TestXDGDirs tests the XDG directory helpers.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{
		"data":     XDGDataDir(),
		"config":   XDGConfigDir(),
		"tessdata": XDGTessdataDir(),
	} {
		if dir == "" {
			t.Errorf("expected non-empty %s dir", name)
		}
		if !strings.Contains(dir, AppName) {
			t.Errorf("expected %s dir to contain %q, got %s", name, AppName, dir)
		}
	}
}
