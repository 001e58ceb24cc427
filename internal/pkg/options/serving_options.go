package options

import (
	"fmt"
	"net"

	"github.com/spf13/pflag"

	"github.com/minimind-ai/minimind/internal/pkg/server"
)

// ServerRunOptions contains the options while running the HTTP API server.
type ServerRunOptions struct {
	// Mode is the gin run mode: debug, test or release.
	Mode string `json:"mode" mapstructure:"mode"`

	// BindAddress is the IP address to listen on.
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`

	// BindPort is the port to listen on.
	BindPort int `json:"bind-port" mapstructure:"bind-port"`

	// Healthz controls installation of the /healthz endpoint.
	Healthz bool `json:"healthz" mapstructure:"healthz"`

	// Middlewares lists the middlewares to install, in order.
	Middlewares []string `json:"middlewares" mapstructure:"middlewares"`
}

// NewServerRunOptions creates ServerRunOptions with defaults.
func NewServerRunOptions() *ServerRunOptions {
	defaults := server.NewConfig()

	return &ServerRunOptions{
		Mode:        defaults.Mode,
		BindAddress: "127.0.0.1",
		BindPort:    8000,
		Healthz:     defaults.Healthz,
		Middlewares: defaults.Middlewares,
	}
}

// ApplyTo applies the run options to the server configuration.
func (o *ServerRunOptions) ApplyTo(c *server.Config) error {
	c.Mode = o.Mode
	c.Addr = net.JoinHostPort(o.BindAddress, fmt.Sprintf("%d", o.BindPort))
	c.Healthz = o.Healthz
	c.Middlewares = o.Middlewares
	return nil
}

// Validate checks the options for invalid combinations.
func (o *ServerRunOptions) Validate() []error {
	var errs []error
	if o.BindPort < 1 || o.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("--serving.bind-port %v must be between 1 and 65535", o.BindPort))
	}
	switch o.Mode {
	case "debug", "test", "release":
	default:
		errs = append(errs, fmt.Errorf("invalid serving mode %q, must be debug, test or release", o.Mode))
	}
	return errs
}

// AddFlags adds flags related to HTTP serving to the specified FlagSet.
func (o *ServerRunOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Mode, "serving.mode", o.Mode, "Start the server in a specified server mode: debug, test or release.")
	fs.StringVar(&o.BindAddress, "serving.bind-address", o.BindAddress, "The IP address on which to serve the API.")
	fs.IntVar(&o.BindPort, "serving.bind-port", o.BindPort, "The port on which to serve the API.")
	fs.BoolVar(&o.Healthz, "serving.healthz", o.Healthz, "Install the /healthz readiness endpoint.")
	fs.StringSliceVar(&o.Middlewares, "serving.middlewares", o.Middlewares, "List of allowed middlewares for the server, comma separated.")
}
