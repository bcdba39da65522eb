package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/pdfscan/internal/keywords"
)

// NewKeywordsCmd creates the keywords command.
func NewKeywordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keywords <file>",
		Short: "Show the keywords a keyword file defines",
		Long: `Keywords loads a keyword file the same way scan --keywords-file does and
prints the resulting keywords in search order.

Supported formats:
  .txt          one keyword per line, '#' comments and blank lines ignored
  .json         ["a", "b"] or {"keywords": ["a", "b"]}
  .yaml / .yml  a list or a mapping with a "keywords" list

Duplicates are skipped; "Gobierno" and "gobierno" are different keywords.

Examples:
  pdfscan keywords keywords.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runKeywordsCmd,
	}
}

// runKeywordsCmd executes the keywords command.
func runKeywordsCmd(cmd *cobra.Command, args []string) error {
	set, res, err := keywords.Load(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d keywords loaded from %s\n", res.Added, res.Path)
	for _, kw := range set.Keywords() {
		fmt.Fprintf(out, "  %s\n", kw)
	}
	if res.Skipped > 0 {
		fmt.Fprintf(out, "%d duplicate or empty entries skipped\n", res.Skipped)
	}
	return nil
}
