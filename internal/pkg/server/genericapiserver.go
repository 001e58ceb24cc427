// Package server provides the generic HTTP and gRPC serving plumbing
// shared by the minimind binaries.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/pkg/log"
	"github.com/minimind-ai/minimind/pkg/version"
)

// Config holds the configuration for a GenericAPIServer.
type Config struct {
	Mode        string
	Addr        string
	Healthz     bool
	Middlewares []string
}

// NewConfig returns a Config with sane defaults.
func NewConfig() *Config {
	return &Config{
		Mode:        gin.ReleaseMode,
		Addr:        "127.0.0.1:8000",
		Healthz:     true,
		Middlewares: []string{},
	}
}

// CompletedConfig is a Config ready to build a server.
type CompletedConfig struct {
	*Config
}

// Complete fills in any fields not set that are required to have valid data.
func (c *Config) Complete() CompletedConfig {
	return CompletedConfig{c}
}

// New returns a GenericAPIServer from the completed configuration.
func (c CompletedConfig) New() (*GenericAPIServer, error) {
	gin.SetMode(c.Mode)

	s := &GenericAPIServer{
		Engine:  gin.New(),
		addr:    c.Addr,
		healthz: c.Healthz,
	}
	s.installAPIs()

	return s, nil
}

// GenericAPIServer wraps a gin engine with lifecycle management.
type GenericAPIServer struct {
	*gin.Engine

	addr     string
	healthz  bool
	insecure *http.Server
}

func (s *GenericAPIServer) installAPIs() {
	if s.healthz {
		s.GET("/healthz", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})
	}

	s.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"gitVersion": version.GitVersion,
			"gitCommit":  version.GitCommit,
			"buildDate":  version.BuildDate,
		})
	})
}

// Run spawns the HTTP server and blocks until it exits.
func (s *GenericAPIServer) Run() error {
	s.insecure = &http.Server{
		Addr:    s.addr,
		Handler: s,
	}

	log.Info("start to listening on %s", s.addr)
	if err := s.insecure.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close gracefully shuts down the HTTP server.
func (s *GenericAPIServer) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.insecure == nil {
		return
	}
	if err := s.insecure.Shutdown(ctx); err != nil {
		log.Warn("shutdown insecure server failed: %v", err)
	}
}
