// Package server serves an event registry over JSON-RPC 2.0.
package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/signadot/hyperlambda"
	"github.com/signadot/hyperlambda/dirbuild"
	"github.com/signadot/hyperlambda/event"
	"github.com/signadot/hyperlambda/system/eventd/storage"

	"go.lsp.dev/jsonrpc2"
)

// Server represents the event server.
type Server struct {
	Spec Spec

	tcpListener *TCPListener
}

// New creates a server, loading the startup directory and the stored
// events of its configuration into its context.
func New(spec *Spec) (*Server, error) {
	if spec.Log == nil {
		spec.Log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slogLevel(),
		}))
	}
	if spec.Config == nil {
		spec.Config = DefaultConfig()
	}
	cfg := spec.Config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if spec.Context == nil {
		opts := []event.ContextOption{event.WithLogger(spec.Log)}
		if cfg.MaxDepth > 0 {
			opts = append(opts, event.WithMaxDepth(cfg.MaxDepth))
		}
		spec.Context = hyperlambda.New(opts...)
	}
	s := &Server{Spec: *spec}

	if cfg.Startup != "" {
		env, err := dirbuild.LoadEnv()
		if err != nil {
			return nil, err
		}
		dir, err := dirbuild.OpenDir(cfg.Startup, env)
		if err != nil {
			return nil, err
		}
		if err := dir.Load(spec.Context); err != nil {
			return nil, fmt.Errorf("failed to load startup directory: %w", err)
		}
	}

	if s.Spec.Storage == nil && cfg.Storage != "" {
		st, err := storage.Open(cfg.Storage, spec.Log)
		if err != nil {
			return nil, err
		}
		s.Spec.Storage = st
	}
	if st := s.Spec.Storage; st != nil {
		n, err := st.Load(spec.Context.Registry)
		if err != nil {
			return nil, err
		}
		st.Attach(spec.Context.Registry)
		spec.Log.Info("loaded stored events", "count", n, "root", st.Root())
	}
	return s, nil
}

func slogLevel() slog.Level {
	if os.Getenv("DEBUG") != "" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// ServeStream serves requests read from rwc until it is closed or ctx is
// done.
func (s *Server) ServeStream(ctx context.Context, rwc io.ReadWriteCloser) error {
	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(rwc))
	conn.Go(ctx, jsonrpc2.AsyncHandler(s.Handler()))
	select {
	case <-ctx.Done():
		conn.Close()
		<-conn.Done()
		return ctx.Err()
	case <-conn.Done():
		return nil
	}
}

// ServeStdio serves requests on standard input and output.
func (s *Server) ServeStdio(ctx context.Context) error {
	return s.ServeStream(ctx, &stdio{read: os.Stdin, write: os.Stdout})
}

// StartTCP starts the TCP listener on the given address.
// The listener runs in a separate goroutine.
func (s *Server) StartTCP(addr string) error {
	if s.tcpListener != nil {
		return ErrListenerRunning
	}
	listener, err := NewTCPListener(addr, s)
	if err != nil {
		return err
	}
	s.tcpListener = listener
	go func() {
		if err := listener.Serve(); err != nil {
			s.Spec.Log.Error("TCP listener error", "error", err)
		}
	}()
	return nil
}

// StopTCP stops the TCP listener.
func (s *Server) StopTCP() error {
	if s.tcpListener == nil {
		return nil
	}
	err := s.tcpListener.Close()
	s.tcpListener = nil
	return err
}

// TCPAddr returns the listener address, or nil when there is none.
func (s *Server) TCPAddr() net.Addr {
	if s.tcpListener == nil {
		return nil
	}
	return s.tcpListener.Addr()
}

type stdio struct {
	read  io.Reader
	write io.Writer
}

func (s *stdio) Read(p []byte) (int, error)  { return s.read.Read(p) }
func (s *stdio) Write(p []byte) (int, error) { return s.write.Write(p) }
func (s *stdio) Close() error                { return nil }
