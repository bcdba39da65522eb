package config

// File represents the structure of the .pdfscan configuration file.
// Every field is optional; absent fields keep the value already in Config.
type File struct {
	Project     string   `yaml:"project,omitempty"`
	Description string   `yaml:"description,omitempty"`
	OutputDir   string   `yaml:"output_dir,omitempty"`
	Keywords    []string `yaml:"keywords,omitempty"`
	KeywordFile string   `yaml:"keyword_file,omitempty"`

	// CaseSensitive and WholeWord are pointers so that an explicit false
	// can be told apart from an absent key.
	CaseSensitive *bool `yaml:"case_sensitive,omitempty"`
	WholeWord     *bool `yaml:"whole_word,omitempty"`

	OCR     OCRSection    `yaml:"ocr,omitempty"`
	Reports ReportSection `yaml:"reports,omitempty"`

	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// OCRSection configures optical recognition.
type OCRSection struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Language string `yaml:"language,omitempty"`
	DPI      int    `yaml:"dpi,omitempty"`
	Tessdata string `yaml:"tessdata,omitempty"`
}

// ReportSection selects the optional reports.
type ReportSection struct {
	Tabular  *bool `yaml:"tabular,omitempty"`
	Markdown *bool `yaml:"markdown,omitempty"`
	JSON     *bool `yaml:"json,omitempty"`
}

// Apply overlays the values present in the file onto c.
func (cf *File) Apply(c *Config) {
	setString(&c.Project, cf.Project)
	setString(&c.Description, cf.Description)
	setString(&c.OutputDir, cf.OutputDir)
	setString(&c.KeywordFile, cf.KeywordFile)
	setString(&c.MetricsFile, cf.MetricsFile)
	if len(cf.Keywords) > 0 {
		c.Keywords = append([]string(nil), cf.Keywords...)
	}

	setBool(&c.CaseSensitive, cf.CaseSensitive)
	setBool(&c.WholeWord, cf.WholeWord)

	setBool(&c.OCREnabled, cf.OCR.Enabled)
	setString(&c.OCRLanguage, cf.OCR.Language)
	setString(&c.TessdataDir, cf.OCR.Tessdata)
	if cf.OCR.DPI != 0 {
		c.DPI = cf.OCR.DPI
	}

	setBool(&c.Tabular, cf.Reports.Tabular)
	setBool(&c.Markdown, cf.Reports.Markdown)
	setBool(&c.JSON, cf.Reports.JSON)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
