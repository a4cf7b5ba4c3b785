package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"go.lsp.dev/jsonrpc2"
)

// TCPListener serves a JSON-RPC connection per accepted TCP connection.
type TCPListener struct {
	listener net.Listener
	server   *Server

	conns   map[int64]jsonrpc2.Conn
	connsMu sync.Mutex
	connSeq atomic.Int64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	closed atomic.Bool
}

// NewTCPListener creates a new TCP listener.
func NewTCPListener(addr string, server *Server) (*TCPListener, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &TCPListener{
		listener: listener,
		server:   server,
		conns:    make(map[int64]jsonrpc2.Conn),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Addr returns the listener's network address.
func (l *TCPListener) Addr() net.Addr {
	return l.listener.Addr()
}

// Serve accepts connections until Close is called.
func (l *TCPListener) Serve() error {
	log := l.server.Spec.Log
	log.Info("TCP listener started", "addr", l.listener.Addr().String())
	for {
		nc, err := l.listener.Accept()
		if err != nil {
			if l.closed.Load() {
				return nil
			}
			log.Error("accept error", "error", err)
			continue
		}
		l.wg.Add(1)
		go l.handleConnection(nc)
	}
}

func (l *TCPListener) handleConnection(nc net.Conn) {
	defer l.wg.Done()
	log := l.server.Spec.Log
	id := l.connSeq.Add(1)
	log.Debug("new TCP connection", "conn", id, "remote", nc.RemoteAddr().String())

	conn := jsonrpc2.NewConn(jsonrpc2.NewStream(nc))
	l.connsMu.Lock()
	l.conns[id] = conn
	l.connsMu.Unlock()

	conn.Go(l.ctx, jsonrpc2.AsyncHandler(l.server.Handler()))
	<-conn.Done()
	if err := conn.Err(); err != nil && !l.closed.Load() {
		log.Debug("connection error", "conn", id, "error", err)
	}

	l.connsMu.Lock()
	delete(l.conns, id)
	l.connsMu.Unlock()
	log.Debug("connection ended", "conn", id)
}

// Close shuts down the listener and all connections.
func (l *TCPListener) Close() error {
	if l.closed.Swap(true) {
		return nil
	}
	log := l.server.Spec.Log
	if err := l.listener.Close(); err != nil {
		log.Error("error closing listener", "error", err)
	}
	l.cancel()
	l.connsMu.Lock()
	for _, c := range l.conns {
		c.Close()
	}
	l.connsMu.Unlock()
	l.wg.Wait()
	log.Info("TCP listener stopped")
	return nil
}

// ConnCount returns the number of open connections.
func (l *TCPListener) ConnCount() int {
	l.connsMu.Lock()
	defer l.connsMu.Unlock()
	return len(l.conns)
}
