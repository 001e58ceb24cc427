package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// StoreOptions selects and configures the persistence backend.
type StoreOptions struct {
	// Type is the backend: "inmemory", "boltdb" or "sqlite".
	Type string `json:"type" mapstructure:"type"`

	// BoltDBPath is the database file when Type is "boltdb".
	BoltDBPath string `json:"boltdb-path" mapstructure:"boltdb-path"`

	// SQLitePath is the database file when Type is "sqlite".
	SQLitePath string `json:"sqlite-path" mapstructure:"sqlite-path"`

	// StepDelay is the pause the workflow takes between subtasks.
	StepDelay time.Duration `json:"step-delay" mapstructure:"step-delay"`
}

// NewStoreOptions creates StoreOptions with defaults.
func NewStoreOptions() *StoreOptions {
	return &StoreOptions{
		Type:       "inmemory",
		BoltDBPath: "data/minimind.db",
		SQLitePath: "data/minimind.sqlite",
		StepDelay:  time.Second,
	}
}

// Validate checks the options for invalid combinations.
func (o *StoreOptions) Validate() []error {
	var errs []error
	switch o.Type {
	case "inmemory", "boltdb", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("invalid store type %q, must be inmemory, boltdb or sqlite", o.Type))
	}
	return errs
}

// AddFlags adds flags related to storage to the specified FlagSet.
func (o *StoreOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Type, "store.type", o.Type, "Persistence backend: inmemory, boltdb or sqlite.")
	fs.StringVar(&o.BoltDBPath, "store.boltdb-path", o.BoltDBPath, "Database file path for the boltdb backend.")
	fs.StringVar(&o.SQLitePath, "store.sqlite-path", o.SQLitePath, "Database file path for the sqlite backend.")
	fs.DurationVar(&o.StepDelay, "store.step-delay", o.StepDelay, "Pause between subtask executions in the task workflow.")
}
