package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	pdflog "github.com/nao1215/pdfscan/internal/log"
)

// Log formats accepted by --log-format.
const (
	logFormatText = "text"
	logFormatJSON = "json"
)

// NewRootCmd creates the root command for pdfscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pdfscan",
		Short: "Keyword search and reporting for batches of PDF documents",
		Long: `pdfscan searches PDF documents for a list of keywords and writes a
detailed report with every occurrence, its page and its surrounding context.

Pages without embedded text (scanned documents) are rendered with MuPDF
and recognized with Tesseract. Use 'pdfscan doctor' to check the OCR tooling.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().String("log-format", logFormatText, "Log format: text or json")

	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewKeywordsCmd())
	cmd.AddCommand(NewDoctorCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormat retrieves the log format from the command or its parent.
func getLogFormat(cmd *cobra.Command) string {
	f := cmd.Flags().Lookup("log-format")
	if f == nil {
		f = cmd.Root().PersistentFlags().Lookup("log-format")
	}
	if f == nil {
		return logFormatText
	}
	return f.Value.String()
}

// newLogger creates the logger selected by --log-format.
func newLogger(cmd *cobra.Command, w io.Writer, verbose bool) (*slog.Logger, error) {
	switch format := getLogFormat(cmd); format {
	case logFormatText:
		return pdflog.NewLogger(w, verbose), nil
	case logFormatJSON:
		return pdflog.NewJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("unknown log format %q: use %s or %s", format, logFormatText, logFormatJSON)
	}
}
