package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/pdfscan/internal/config"
	"github.com/nao1215/pdfscan/internal/render"
)

// fakeChecker returns err from Check.
type fakeChecker struct{ err error }

func (f fakeChecker) Check() error { return f.err }

func TestRunDoctor(t *testing.T) {
	t.Parallel()

	tessdata := t.TempDir()
	if err := os.WriteFile(filepath.Join(tessdata, "spa.traineddata"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		lang     string
		renderer fakeChecker
		wantErr  bool
		want     []string
	}{
		{
			name: "everything available",
			lang: "spa",
			want: []string{"renderer:  MuPDF built in", "fallback:  pdftoppm found", "tessdata:  " + tessdata, "language:  spa found", "OCR is available"},
		},
		{
			name:    "missing language data",
			lang:    "eng+spa",
			wantErr: true,
			want:    []string{"language:  eng+spa missing", "eng.traineddata"},
		},
		{
			name:     "missing pdftoppm is not fatal",
			lang:     "spa",
			renderer: fakeChecker{err: render.ErrRendererNotFound},
			want:     []string{"renderer:  MuPDF built in", "fallback:  pdftoppm missing", "OCR is available"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			cfg.TessdataDir = tessdata
			cfg.OCRLanguage = tt.lang

			var out bytes.Buffer
			err := runDoctor(&out, cfg, tt.renderer)
			if tt.wantErr && !errors.Is(err, errOCRUnavailable) {
				t.Errorf("expected errOCRUnavailable, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("expected output to contain %q, got:\n%s", w, out.String())
				}
			}
		})
	}
}

func TestNewDoctorCmd(t *testing.T) {
	t.Parallel()

	cmd := NewDoctorCmd()
	for _, name := range []string{"lang", "tessdata", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected %s flag", name)
		}
	}
	if err := cmd.Args(cmd, []string{"extra"}); err == nil {
		t.Error("expected doctor to reject arguments")
	}
}

func TestDoctorConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("invalid configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "pdfscan.yaml")
		if err := os.WriteFile(path, []byte("ocr: [unterminated\n"), 0600); err != nil {
			t.Fatal(err)
		}

		cmd := NewDoctorCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"-c", path})
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "failed to load config file") {
			t.Errorf("expected config load error, got %v", err)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Parallel()

		cmd := NewDoctorCmd()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"-c", filepath.Join(t.TempDir(), "missing.yaml")})
		err := cmd.Execute()
		if err == nil || !strings.Contains(err.Error(), "configuration file not found") {
			t.Errorf("expected not found error, got %v", err)
		}
	})
}
