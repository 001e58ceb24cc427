package util

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/minimind-ai/minimind/pkg/taskwatch"
)

const (
	defaultServerAddr = "http://localhost:8000"

	tokenEnvVar = "MINIMIND_API_TOKEN"
)

// IOStreams bundles the three standard streams so commands can be exercised
// in tests without touching the process's real stdio.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// NewStdIOStreams returns IOStreams wired to the process stdio.
func NewStdIOStreams() IOStreams {
	return IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr}
}

// Factory provides the shared client configuration for all mindctl
// subcommands. The server address and token come from persistent flags on the
// root command; commands ask the factory for a ready client instead of
// wiring transport themselves.
type Factory struct {
	Server string
	Token  string

	httpClient *http.Client
}

// NewFactory returns a Factory with defaults. The token falls back to the
// MINIMIND_API_TOKEN environment variable so it never has to appear in shell
// history.
func NewFactory() *Factory {
	return &Factory{
		Server: defaultServerAddr,
		Token:  os.Getenv(tokenEnvVar),
	}
}

// AddFlags registers the factory's flags on the given flag set.
func (f *Factory) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&f.Server, "server", f.Server, "Address of the minimind HTTP server")
	flags.StringVar(&f.Token, "token", f.Token, "Bearer token for the server (default: $"+tokenEnvVar+")")
}

// HTTPClient returns the shared HTTP client.
func (f *Factory) HTTPClient() *http.Client {
	if f.httpClient == nil {
		f.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return f.httpClient
}

// Client builds a taskwatch client for the configured server.
func (f *Factory) Client() *taskwatch.Client {
	addr := f.Server
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	return taskwatch.NewClient(addr, f.Token, f.HTTPClient())
}

// CheckErr prints the error and exits non-zero. A nil error is a no-op.
func CheckErr(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
