// Package keywords loads keyword lists from files.
//
// Three formats are recognized by extension: line-oriented text (.txt and
// any unknown extension), JSON (.json) and YAML (.yaml, .yml). Structured
// files may hold either a bare list or an object with a "keywords" key.
package keywords
