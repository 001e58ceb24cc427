package options

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/minimind-ai/minimind/pkg/log"
)

// LogOptions configures the process-wide logger.
type LogOptions struct {
	// Level is the minimum level to emit: trace through panic.
	Level string `json:"level" mapstructure:"level"`

	// Format is "text" or "json".
	Format string `json:"format" mapstructure:"format"`

	// File, when set, appends log output to the given path instead of stderr.
	File string `json:"file" mapstructure:"file"`
}

// NewLogOptions creates LogOptions with defaults.
func NewLogOptions() *LogOptions {
	return &LogOptions{
		Level:  "info",
		Format: "text",
	}
}

// ApplyTo initializes the global logger from the options.
func (o *LogOptions) ApplyTo() error {
	return log.Init(log.Options{
		Level:  o.Level,
		Format: o.Format,
		File:   o.File,
	})
}

// Validate checks the options for invalid combinations.
func (o *LogOptions) Validate() []error {
	var errs []error
	if _, err := logrus.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level %q: %w", o.Level, err))
	}
	if o.Format != "text" && o.Format != "json" {
		errs = append(errs, fmt.Errorf("invalid log format %q, must be text or json", o.Format))
	}
	return errs
}

// AddFlags adds flags related to logging to the specified FlagSet.
func (o *LogOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum log output level.")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log output format: text or json.")
	fs.StringVar(&o.File, "log.file", o.File, "Append log output to this file instead of stderr.")
}
