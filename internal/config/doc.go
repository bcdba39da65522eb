// Package config provides configuration structures and utilities for pdfscan.
// It defines the options for text acquisition, keyword matching and report
// generation, the optional .pdfscan YAML file, and the XDG directories the
// tool reads from.
package config
