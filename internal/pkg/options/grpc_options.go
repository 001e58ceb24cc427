package options

import (
	"fmt"

	"github.com/spf13/pflag"
)

// GRPCOptions contains the options while running the gRPC diagnostics
// server.
type GRPCOptions struct {
	// BindAddress is the IP address to listen on.
	BindAddress string `json:"bind-address" mapstructure:"bind-address"`

	// BindPort is the port to listen on.
	BindPort int `json:"bind-port" mapstructure:"bind-port"`

	// MaxMsgSize is the maximum gRPC message size in bytes.
	MaxMsgSize int `json:"max-msg-size" mapstructure:"max-msg-size"`
}

// NewGRPCOptions creates GRPCOptions with defaults.
func NewGRPCOptions() *GRPCOptions {
	return &GRPCOptions{
		BindAddress: "127.0.0.1",
		BindPort:    8001,
		MaxMsgSize:  4 * 1024 * 1024,
	}
}

// Validate checks the options for invalid combinations.
func (o *GRPCOptions) Validate() []error {
	var errs []error
	if o.BindPort < 1 || o.BindPort > 65535 {
		errs = append(errs, fmt.Errorf("--grpc.bind-port %v must be between 1 and 65535", o.BindPort))
	}
	return errs
}

// AddFlags adds flags related to gRPC serving to the specified FlagSet.
func (o *GRPCOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.BindAddress, "grpc.bind-address", o.BindAddress, "The IP address on which to serve the gRPC endpoint.")
	fs.IntVar(&o.BindPort, "grpc.bind-port", o.BindPort, "The port on which to serve the gRPC endpoint.")
	fs.IntVar(&o.MaxMsgSize, "grpc.max-msg-size", o.MaxMsgSize, "The maximum gRPC message size in bytes.")
}
