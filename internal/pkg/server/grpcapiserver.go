package server

import (
	"net"

	"google.golang.org/grpc"

	"github.com/minimind-ai/minimind/pkg/log"
)

// GRPCAPIServer is a thin lifecycle wrapper around a grpc.Server.
type GRPCAPIServer struct {
	*grpc.Server

	address string
}

// NewGRPCAPIServer wraps the given grpc.Server for the address.
func NewGRPCAPIServer(srv *grpc.Server, address string) *GRPCAPIServer {
	return &GRPCAPIServer{Server: srv, address: address}
}

// Run starts listening and serving. It blocks until Stop is called.
func (s *GRPCAPIServer) Run() {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		log.Fatal("failed to listen on %s: %v", s.address, err)
	}

	log.Info("start grpc server at %s", s.address)
	if err := s.Serve(listener); err != nil {
		log.Fatal("failed to serve grpc: %v", err)
	}
}

// Stop gracefully stops the gRPC server.
func (s *GRPCAPIServer) Stop() {
	s.GracefulStop()
	log.Info("grpc server on %s stopped", s.address)
}
