package http

import (
	"context"
	"errors"
	"net"
	nethttp "net/http"
	"time"

	"task_deadlines/internal/logger"
)

// Server wraps net/http with the listen-then-serve split the services need:
// the listener is bound before peer secret checks run against it.
type Server struct {
	srv *nethttp.Server
	ln  net.Listener
}

func Listen(addr string, h nethttp.Handler) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		srv: &nethttp.Server{
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		},
		ln: ln,
	}, nil
}

func (s *Server) Addr() string { return s.ln.Addr().String() }

// Serve blocks until Shutdown. The returned channel receives a serve error,
// if any.
func (s *Server) Serve() <-chan error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("server started", "addr", s.Addr())
		if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	return errc
}

func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
