package main

import (
	"fmt"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	_ "go.uber.org/automaxprocs"

	"github.com/minimind-ai/minimind/internal/minimind"
	"github.com/minimind-ai/minimind/internal/minimind/config"
	"github.com/minimind-ai/minimind/internal/minimind/options"
	genericapiserver "github.com/minimind-ai/minimind/internal/pkg/server"
	"github.com/minimind-ai/minimind/pkg/version"
)

func main() {
	if err := newMinimindCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newMinimindCommand() *cobra.Command {
	opts := options.NewOptions()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "minimind",
		Short: "minimind runs the personal AI task assistant API server",
		Long: heredoc.Doc(`
			The minimind server accepts user requests, decomposes them into
			agent-executed subtasks and exposes task progress over REST and
			Server-Sent Events.

			Configuration is merged from flags, environment variables with the
			MINIMIND_ prefix, and an optional YAML config file.`),
		SilenceUsage: true,
		Version:      version.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			genericapiserver.LoadConfig(cfgFile, "minimind")

			if err := viper.Unmarshal(opts); err != nil {
				return fmt.Errorf("failed to unmarshal configuration: %w", err)
			}
			if errs := opts.Validate(); len(errs) > 0 {
				return fmt.Errorf("invalid configuration: %v", errs)
			}
			if err := opts.LogOptions.ApplyTo(); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}

			cfg, err := config.CreateConfigFromOptions(opts)
			if err != nil {
				return err
			}

			return minimind.Run(cfg)
		},
	}

	cmd.Flags().StringVarP(&cfgFile, "config", "c", "", "Path to the minimind configuration file.")
	opts.AddFlags(cmd.Flags())
	_ = viper.BindPFlags(cmd.Flags())

	return cmd
}
