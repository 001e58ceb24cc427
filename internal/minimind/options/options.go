package options

import (
	"github.com/spf13/pflag"

	"github.com/minimind-ai/minimind/internal/minimind/handler/middleware"
	genericoptions "github.com/minimind-ai/minimind/internal/pkg/options"
	"github.com/minimind-ai/minimind/pkg/json"
)

// Options is the full set of configurable knobs for the minimind server.
type Options struct {
	GenericServerRunOptions *genericoptions.ServerRunOptions `json:"serving" mapstructure:"serving"`
	GRPCOptions             *genericoptions.GRPCOptions      `json:"grpc"    mapstructure:"grpc"`
	StoreOptions            *genericoptions.StoreOptions     `json:"store"   mapstructure:"store"`
	LogOptions              *genericoptions.LogOptions       `json:"log"     mapstructure:"log"`
	AuthOptions             *AuthOptions                     `json:"auth"    mapstructure:"auth"`
}

// AuthOptions configures Bearer token authentication for the API.
type AuthOptions struct {
	// Enabled controls whether authentication is enforced.
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// Token is the expected Bearer token value. Falls back to the
	// MINIMIND_API_TOKEN environment variable when empty.
	Token string `json:"token" mapstructure:"token"`
}

// NewAuthOptions creates AuthOptions with defaults.
func NewAuthOptions() *AuthOptions {
	return &AuthOptions{}
}

// ApplyTo converts the options into middleware configuration.
func (o *AuthOptions) ApplyTo() *middleware.AuthConfig {
	return &middleware.AuthConfig{
		Enabled: o.Enabled,
		Token:   o.Token,
	}
}

// AddFlags adds flags related to authentication to the specified FlagSet.
func (o *AuthOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&o.Enabled, "auth.enabled", o.Enabled, "Enforce Bearer token authentication on non-local requests.")
	fs.StringVar(&o.Token, "auth.token", o.Token, "Expected Bearer token value.")
}

// NewOptions returns Options with all defaults filled.
func NewOptions() *Options {
	return &Options{
		GenericServerRunOptions: genericoptions.NewServerRunOptions(),
		GRPCOptions:             genericoptions.NewGRPCOptions(),
		StoreOptions:            genericoptions.NewStoreOptions(),
		LogOptions:              genericoptions.NewLogOptions(),
		AuthOptions:             NewAuthOptions(),
	}
}

// AddFlags adds all server flags to the given FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.GenericServerRunOptions.AddFlags(fs)
	o.GRPCOptions.AddFlags(fs)
	o.StoreOptions.AddFlags(fs)
	o.LogOptions.AddFlags(fs)
	o.AuthOptions.AddFlags(fs)
}

// Validate collects validation errors from every option group.
func (o *Options) Validate() []error {
	var errs []error
	errs = append(errs, o.GenericServerRunOptions.Validate()...)
	errs = append(errs, o.GRPCOptions.Validate()...)
	errs = append(errs, o.StoreOptions.Validate()...)
	errs = append(errs, o.LogOptions.Validate()...)
	return errs
}

func (o *Options) String() string {
	data, _ := json.Marshal(o)
	return string(data)
}
