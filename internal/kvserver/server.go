// Package kvserver implements the TCP front end that accepts client
// connections and dispatches each request to a storage.Handle.
package kvserver

import (
	"bufio"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"io"
	"net"
	"sync"
	"time"

	"github.com/yndnr/kvs/internal/kvproto"
	"github.com/yndnr/kvs/internal/pool"
	"github.com/yndnr/kvs/internal/storage"
	"github.com/yndnr/kvs/internal/telemetry/logger"
	"github.com/yndnr/kvs/internal/telemetry/metric"
)

// Config configures a Server.
type Config struct {
	// Addr is the listen address, e.g. "127.0.0.1:7780".
	Addr string

	Store   storage.Handle
	Pool    pool.Pool
	Logger  logger.Logger
	Metrics *metric.Registry
}

// Server accepts TCP connections speaking the kvproto line protocol and
// dispatches each request to a storage.Handle. One pool task runs per
// accepted connection for the connection's whole lifetime; within a
// connection, requests are handled sequentially.
type Server struct {
	addr    string
	store   storage.Handle
	pool    pool.Pool
	logger  logger.Logger
	metrics *metric.Registry

	mu       sync.Mutex
	listener net.Listener
	closed   bool
}

// New builds a Server from cfg. Store and Pool are required.
func New(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		return nil, errors.New("kvserver: store is required")
	}
	if cfg.Pool == nil {
		return nil, errors.New("kvserver: pool is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	return &Server{
		addr:    cfg.Addr,
		store:   cfg.Store,
		pool:    cfg.Pool,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}, nil
}

// ListenAndServe binds addr and runs the accept loop until Close is
// called, at which point it returns net.ErrClosed.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve runs the accept loop on an already-bound listener until Close
// is called. Tests use this to bind an ephemeral port themselves and
// learn its address before the server starts accepting.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return net.ErrClosed
	}
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("kvserver listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				return net.ErrClosed
			}
			s.logger.Error("accept failed", "error", err)
			continue
		}

		if s.metrics != nil {
			s.metrics.ConnectionsTotal.Inc()
			s.metrics.ConnectionsActive.Inc()
		}

		id := newConnID()
		submitErr := s.pool.Submit(func() {
			defer func() {
				if s.metrics != nil {
					s.metrics.ConnectionsActive.Dec()
				}
			}()
			s.handleConn(id, conn)
		})
		if submitErr != nil {
			s.logger.Warn("connection rejected, pool closed", "conn_id", id, "error", submitErr)
			if s.metrics != nil {
				s.metrics.ConnectionsActive.Dec()
			}
			conn.Close()
		}
	}
}

// Close stops accepting new connections. In-flight connections are
// left to finish on their own; callers that also own the pool passed
// into Config should Close it afterward to wait for them.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.listener != nil {
		return s.listener.Close()
	}
	return nil
}

// handleConn serves requests from one connection until the client
// disconnects or sends a malformed request. A panic or error on this
// connection never reaches the pool's other workers.
func (s *Server) handleConn(connID string, conn net.Conn) {
	defer conn.Close()

	log := s.logger.With("conn_id", connID, "remote_addr", conn.RemoteAddr().String())
	log.Debug("connection accepted")

	r := bufio.NewReader(conn)
	w := bufio.NewWriter(conn)
	dec := kvproto.NewDecoder(r)
	enc := kvproto.NewEncoder(w)

	for {
		req, err := dec.DecodeRequest()
		if err != nil {
			if !isEOFLike(err) {
				log.Warn("malformed request, closing connection", "error", err)
			}
			return
		}

		resp, op := s.dispatch(req)

		if err := enc.EncodeResponse(resp); err != nil {
			log.Warn("write failed, closing connection", "error", err)
			return
		}
		if err := w.Flush(); err != nil {
			log.Warn("flush failed, closing connection", "error", err)
			return
		}

		log.Debug("request served", "op", op, "status", resp.Status)
	}
}

// dispatch runs one request against the store and records its
// metrics, returning the response to send and the operation name
// used for logging.
func (s *Server) dispatch(req kvproto.Request) (kvproto.Response, string) {
	op := string(req.Cmd)
	start := time.Now()

	resp := s.execute(req)

	if s.metrics != nil {
		s.metrics.OpsTotal.WithLabelValues(op, string(resp.Status)).Inc()
		s.metrics.OpDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}

	return resp, op
}

func (s *Server) execute(req kvproto.Request) kvproto.Response {
	switch req.Cmd {
	case kvproto.CmdGet:
		value, found, err := s.store.Get(req.Key)
		if err != nil {
			return kvproto.ErrResponse(err.Error())
		}
		return kvproto.OkValueResponse(value, found)

	case kvproto.CmdSet:
		if err := s.store.Set(req.Key, req.Value); err != nil {
			return kvproto.ErrResponse(err.Error())
		}
		return kvproto.OkResponse()

	case kvproto.CmdRemove:
		err := s.store.Remove(req.Key)
		if errors.Is(err, storage.ErrKeyNotFound) {
			return kvproto.ErrResponse(storage.ErrKeyNotFound.Error())
		}
		if err != nil {
			return kvproto.ErrResponse(err.Error())
		}
		return kvproto.OkResponse()

	default:
		return kvproto.ErrResponse("unknown command: " + string(req.Cmd))
	}
}

func isEOFLike(err error) bool {
	return errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

func newConnID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "conn-unknown"
	}
	return "conn-" + base64.RawURLEncoding.EncodeToString(buf)
}
