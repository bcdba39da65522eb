package keywords

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/pdfscan/internal/model"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestLoad tests loading each supported format.
func TestLoad(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		file        string
		content     string
		want        []string
		wantSkipped int
	}{
		{
			name:        "text skips comments blanks and duplicates",
			file:        "kw.txt",
			content:     "# comment\n\ngobierno\ngobierno\n",
			want:        []string{"gobierno"},
			wantSkipped: 1,
		},
		{
			name:    "text trims lines",
			file:    "kw.txt",
			content: "  ciudad  \r\n\turbano\n   # indented comment\n",
			want:    []string{"ciudad", "urbano"},
		},
		{
			name:    "unknown extension is read as text",
			file:    "kw.list",
			content: "uno\ndos\n",
			want:    []string{"uno", "dos"},
		},
		{
			name:        "json object",
			file:        "kw.json",
			content:     `{"keywords":["a","b","a"]}`,
			want:        []string{"a", "b"},
			wantSkipped: 1,
		},
		{
			name:    "json list",
			file:    "kw.json",
			content: `["municipal", "público"]`,
			want:    []string{"municipal", "público"},
		},
		{
			name:    "yaml object",
			file:    "kw.yaml",
			content: "keywords:\n  - gestión\n  - desarrollo\n",
			want:    []string{"gestión", "desarrollo"},
		},
		{
			name:        "yml list",
			file:        "kw.yml",
			content:     "- servicio\n- \" servicio \"\n- ''\n",
			want:        []string{"servicio"},
			wantSkipped: 2,
		},
		{
			name:    "case variants are distinct",
			file:    "kw.txt",
			content: "Gobierno\ngobierno\n",
			want:    []string{"Gobierno", "gobierno"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := writeFile(t, tt.file, tt.content)
			set, res, err := Load(path)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := set.Keywords(); !slices.Equal(got, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
			if res.Added != len(tt.want) {
				t.Errorf("expected %d added, got %d", len(tt.want), res.Added)
			}
			if res.Skipped != tt.wantSkipped {
				t.Errorf("expected %d skipped, got %d", tt.wantSkipped, res.Skipped)
			}
			if !set.WholeWord || set.CaseSensitive {
				t.Error("expected default matching policy")
			}
		})
	}
}

// TestLoadErrors tests failure cases.
func TestLoadErrors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected ErrNotExist, got %v", err)
		}
	})

	t.Run("only comments", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(writeFile(t, "kw.txt", "# nothing\n\n"))
		if !errors.Is(err, ErrNoKeywords) {
			t.Errorf("expected ErrNoKeywords, got %v", err)
		}
	})

	t.Run("json scalar", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(writeFile(t, "kw.json", `"gobierno"`))
		if !errors.Is(err, ErrUnsupportedShape) {
			t.Errorf("expected ErrUnsupportedShape, got %v", err)
		}
	})

	t.Run("yaml scalar", func(t *testing.T) {
		t.Parallel()

		_, _, err := Load(writeFile(t, "kw.yaml", "gobierno"))
		if !errors.Is(err, ErrUnsupportedShape) {
			t.Errorf("expected ErrUnsupportedShape, got %v", err)
		}
	})

	// "administración" saved in Windows-1252.
	for _, name := range []string{"kw.txt", "kw.json", "kw.yaml"} {
		t.Run("legacy encoding "+name, func(t *testing.T) {
			t.Parallel()

			content := "municipal\nadministraci\xf3n\n"
			if name == "kw.json" {
				content = `["municipal", "administraci` + "\xf3" + `n"]`
			}
			set := model.NewKeywordSet()
			_, err := LoadFile(writeFile(t, name, content), &set)
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("expected ErrInvalidEncoding, got %v", err)
			}
			if !set.IsEmpty() {
				t.Errorf("expected set to stay empty, got %v", set.Keywords())
			}
		})
	}

	t.Run("line longer than the scanner buffer", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("a", 70*1024)
		_, _, err := Load(writeFile(t, "kw.txt", "gobierno\n"+long+"\nciudad\n"))
		if err == nil {
			t.Error("expected error for an oversized line")
		}
	})
}

// TestLoadFileMerges tests that a file extends an existing set.
func TestLoadFileMerges(t *testing.T) {
	t.Parallel()

	set := model.NewKeywordSet("gobierno")
	set.CaseSensitive = true

	res, err := LoadFile(writeFile(t, "kw.txt", "gobierno\nciudad\n"), &set)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Added != 1 || res.Skipped != 1 {
		t.Errorf("expected 1 added and 1 skipped, got %+v", res)
	}
	if want := []string{"gobierno", "ciudad"}; !slices.Equal(set.Keywords(), want) {
		t.Errorf("expected %v, got %v", want, set.Keywords())
	}
	if !set.CaseSensitive {
		t.Error("expected policy to be preserved")
	}

	res, err = LoadFile(writeFile(t, "dup.txt", "ciudad\n"), &set)
	if err != nil {
		t.Errorf("expected no error when the set is already populated, got %v", err)
	}
	if res.Added != 0 {
		t.Errorf("expected 0 added, got %d", res.Added)
	}
}
