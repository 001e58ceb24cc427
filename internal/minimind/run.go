package minimind

import (
	"github.com/minimind-ai/minimind/internal/minimind/config"
)

// Run launches the configured API server and blocks until shutdown.
func Run(cfg *config.Config) error {
	server, err := createAPIServer(cfg)
	if err != nil {
		return err
	}

	return server.PrepareRun().Run()
}
