package types

// ConversionConfig holds settings for the convert stage.
type ConversionConfig struct {
	// InputDir holds the treaty JSON files (*.json).
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one PLUTO XML file per treaty.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Workers bounds the number of files converted concurrently (default 4).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Indent is the number of spaces per nesting level in the written XML.
	// Zero writes the document without added whitespace.
	Indent int `json:"indent" yaml:"indent" mapstructure:"indent"`

	// Declaration controls whether the XML declaration is written.
	Declaration bool `json:"declaration" yaml:"declaration" mapstructure:"declaration"`

	// Force reconverts files whose output already exists.
	Force bool `json:"force" yaml:"force" mapstructure:"force"`
}

// LedgerConfig holds settings for the conversion ledger.
type LedgerConfig struct {
	// Enabled turns ledger bookkeeping on or off.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig selects the logger flavour and threshold.
type LogConfig struct {
	// Mode is "development" (console) or "production" (JSON).
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// Level is a zap level name: debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Convert ConversionConfig `json:"convert" yaml:"convert" mapstructure:"convert"`
	Ledger  LedgerConfig     `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
	Log     LogConfig        `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultPipelineConfig returns the configuration used when neither a config
// file nor flags override a key.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Convert: ConversionConfig{
			InputDir:    "treaties/json",
			OutputDir:   "treaties/xml",
			Workers:     4,
			Indent:      2,
			Declaration: true,
		},
		Ledger: LedgerConfig{
			Enabled: true,
			Path:    "treaties/ledger/conversions.db",
		},
		Log: LogConfig{
			Mode:  "development",
			Level: "info",
		},
	}
}
