package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/pdfscan/internal/config"
	"github.com/nao1215/pdfscan/internal/ocr/tesseract"
	"github.com/nao1215/pdfscan/internal/render"
)

// errOCRUnavailable is returned by doctor when scanned pages could not be recognized.
var errOCRUnavailable = errors.New("OCR is unavailable: scanned pages would not be recognized")

// checker verifies a runtime requirement.
type checker interface {
	Check() error
}

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the OCR tooling",
		Long: `Doctor checks whether scanned pages can be recognized on this machine.

Pages are rendered with the built-in MuPDF renderer; pdftoppm
(poppler-utils) is used as a fallback when it is on PATH. Doctor reports
the renderers, the tessdata directory that would be used and whether the
language data exists there.
Nothing is installed or modified. The exit status is non-zero when OCR
would be unavailable.

Examples:
  pdfscan doctor
  pdfscan doctor -l eng+spa --tessdata ~/tessdata
  pdfscan doctor -c ./pdfscan.yaml`,
		Args: cobra.NoArgs,
		RunE: runDoctorCmd,
	}

	cmd.Flags().StringP("lang", "l", config.DefaultOCRLanguage,
		"Tesseract language codes to check")
	cmd.Flags().String("tessdata", "",
		"Directory holding *.traineddata files")
	cmd.Flags().StringP("config", "c", "",
		"Path to configuration file")

	return cmd
}

// runDoctorCmd executes the doctor command.
func runDoctorCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	explicit, err := flags.GetString("config")
	if err != nil {
		return err
	}
	if err := loadConfigFile(cfg, explicit); err != nil {
		return err
	}

	if flags.Changed("lang") {
		lang, err := flags.GetString("lang")
		if err != nil {
			return err
		}
		cfg.OCRLanguage = lang
	}
	if flags.Changed("tessdata") {
		dir, err := flags.GetString("tessdata")
		if err != nil {
			return err
		}
		cfg.TessdataDir = dir
	}

	return runDoctor(cmd.OutOrStdout(), cfg, render.NewPoppler())
}

// runDoctor prints one line per check. A missing fallback renderer is
// reported but does not make OCR unavailable.
func runDoctor(out io.Writer, cfg *config.Config, fallback checker) error {
	ok := true

	fmt.Fprintln(out, "renderer:  MuPDF built in")
	if err := fallback.Check(); err != nil {
		fmt.Fprintf(out, "fallback:  %s missing (%v)\n", render.DefaultCommand, err)
	} else {
		fmt.Fprintf(out, "fallback:  %s found\n", render.DefaultCommand)
	}

	dir := cfg.ResolveTessdataDir()
	if dir == "" {
		fmt.Fprintln(out, "tessdata:  tesseract default")
	} else {
		fmt.Fprintf(out, "tessdata:  %s\n", dir)
	}

	engine := tesseract.New(tesseract.WithTessdataDir(dir))
	switch err := engine.Check(cfg.OCRLanguage); {
	case err != nil:
		fmt.Fprintf(out, "language:  %s missing (%v)\n", cfg.OCRLanguage, err)
		ok = false
	case dir == "":
		fmt.Fprintf(out, "language:  %s not checked\n", cfg.OCRLanguage)
	default:
		fmt.Fprintf(out, "language:  %s found\n", cfg.OCRLanguage)
	}

	if !ok {
		return errOCRUnavailable
	}
	fmt.Fprintln(out, "OCR is available")
	return nil
}
