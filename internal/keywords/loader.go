package keywords

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/pdfscan/internal/model"
)

// commentPrefix marks a comment line in text keyword files.
const commentPrefix = "#"

var (
	// ErrUnsupportedShape is returned when a structured file is neither a
	// list nor an object with a "keywords" list.
	ErrUnsupportedShape = errors.New("keyword file must be a list or an object with a \"keywords\" list")

	// ErrNoKeywords is returned when a file yields no usable keyword.
	ErrNoKeywords = errors.New("keyword file contains no keywords")

	// ErrInvalidEncoding is returned for files that are not UTF-8, such as
	// lists saved in a legacy Windows code page.
	ErrInvalidEncoding = errors.New("keyword file is not valid UTF-8")
)

// Result describes the outcome of loading a keyword file.
type Result struct {
	// Path is the file that was read.
	Path string
	// Added is the number of keywords added to the set.
	Added int
	// Skipped is the number of duplicates and empty entries ignored.
	Skipped int
}

// document is the object shape of a structured keyword file.
type document struct {
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// LoadFile reads path and adds its keywords to set in file order.
// Duplicates already present in set, or repeated in the file, are skipped.
func LoadFile(path string, set *model.KeywordSet) (Result, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Operator-selected keyword file
	if err != nil {
		return Result{}, fmt.Errorf("read keyword file: %w", err)
	}

	entries, err := Parse(filepath.Ext(path), data)
	if err != nil {
		return Result{}, fmt.Errorf("parse keyword file %s: %w", path, err)
	}

	res := Result{Path: path}
	for _, kw := range entries {
		if err := set.Add(kw); err != nil {
			res.Skipped++
			continue
		}
		res.Added++
	}
	if res.Added == 0 && set.IsEmpty() {
		return res, ErrNoKeywords
	}
	return res, nil
}

// Load reads path into a fresh set with the default matching policy.
func Load(path string) (model.KeywordSet, Result, error) {
	set := model.NewKeywordSet()
	res, err := LoadFile(path, &set)
	return set, res, err
}

// Parse decodes raw keyword entries for the given file extension.
// Entries are returned untrimmed and may contain duplicates.
func Parse(ext string, data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".yaml", ".yml":
		return parseYAML(data)
	default:
		return parseText(data)
	}
}

// parseText returns every non-blank line that is not a comment.
func parseText(data []byte) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseJSON(data []byte) ([]string, error) {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, ErrUnsupportedShape
	}
	return doc.Keywords, nil
}

func parseYAML(data []byte) ([]string, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := root.Decode(&list); err != nil {
			return nil, err
		}
		return list, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Decode(&doc); err != nil {
			return nil, err
		}
		return doc.Keywords, nil
	default:
		return nil, ErrUnsupportedShape
	}
}
