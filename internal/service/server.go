package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/observability"
	"github.com/danmuck/hwcctl/internal/protocol/frame"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/session"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

// ServerConfig bounds the framed transport.
type ServerConfig struct {
	Limits frame.Limits
	// Workers caps how many requests run against the engine at once,
	// across all connections.
	Workers int
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Limits:  frame.DefaultLimits(),
		Workers: 8,
	}
}

// Server accepts client connections and dispatches their frames to the
// service. Each connection is served by its own goroutine and answers its
// requests in order.
type Server struct {
	svc    *Service
	cfg    ServerConfig
	pool   *semaphore.Weighted
	conns  sync.WaitGroup
	active atomic.Int64
}

func NewServer(svc *Service, cfg ServerConfig) *Server {
	def := DefaultServerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Limits.MaxPayloadBytes == 0 {
		cfg.Limits.MaxPayloadBytes = def.Limits.MaxPayloadBytes
	}
	if cfg.Limits.MaxAuthBytes == 0 {
		cfg.Limits.MaxAuthBytes = def.Limits.MaxAuthBytes
	}
	return &Server{
		svc:  svc,
		cfg:  cfg,
		pool: semaphore.NewWeighted(int64(cfg.Workers)),
	}
}

func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// Serve accepts on ln until ctx is done, then closes every open
// connection and waits for their goroutines.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log.Info().Str("service", s.svc.Name()).Str("addr", ln.Addr().String()).Msg("control listener ready")
	stop := context.AfterFunc(ctx, func() {
		_ = ln.Close()
	})
	defer stop()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.conns.Wait()
				return nil
			}
			s.conns.Wait()
			return fmt.Errorf("service: accept: %w", err)
		}
		s.conns.Add(1)
		go func() {
			defer s.conns.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// connState is touched only by its connection's goroutine.
type connState struct {
	remote string
	tokens map[string]struct{}
}

func (c *connState) track(token string) {
	c.tokens[token] = struct{}{}
}

func (c *connState) untrack(token string) {
	delete(c.tokens, token)
}

func (c *connState) owns(token string) bool {
	_, ok := c.tokens[token]
	return ok
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	st := &connState{remote: conn.RemoteAddr().String(), tokens: make(map[string]struct{})}
	active := s.active.Add(1)
	observability.AddConnections(s.svc.Name(), 1)
	log.Debug().Str("remote", st.remote).Int64("active_clients", active).Msg("client connected")
	defer func() {
		for token := range st.tokens {
			s.svc.ReleaseControls(token)
		}
		remaining := s.active.Add(-1)
		observability.AddConnections(s.svc.Name(), -1)
		log.Debug().Str("remote", st.remote).Int64("active_clients", remaining).Msg("client disconnected")
	}()

	for {
		f, err := frame.ReadFrame(conn, s.cfg.Limits)
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) && ctx.Err() == nil {
				log.Warn().Err(err).Str("remote", st.remote).Msg("read frame")
			}
			return
		}
		out := s.dispatch(ctx, st, f)
		if out == nil {
			return
		}
		if _, err := conn.Write(out); err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("remote", st.remote).Msg("write frame")
			}
			return
		}
	}
}

// dispatch turns one request frame into one encoded reply. It returns nil
// only when ctx ends while waiting for a worker.
func (s *Server) dispatch(ctx context.Context, st *connState, f frame.Frame) []byte {
	start := time.Now()
	id := f.Header.MessageID
	msgType := f.Header.MessageType
	op := schema.Name(msgType)

	if f.Header.IsResponse() {
		return s.reject(id, msgType, hwcs.StatusBadValue, "unexpected response frame", start)
	}
	h, ok := handlers[msgType]
	if !ok {
		return s.reject(id, msgType, hwcs.StatusInvalidOperation, "unknown message type", start)
	}
	req, err := session.DecodeRequestFrame(f)
	if err != nil {
		return s.reject(id, msgType, hwcs.StatusBadValue, err.Error(), start)
	}

	c := &call{svc: s.svc, conn: st, token: req.Token, args: req.Fields, room: s.replyRoom()}
	if h.needsControls {
		ctl, ok := s.svc.ControlsFor(req.Token)
		if !ok || !st.owns(req.Token) {
			return s.reject(id, msgType, hwcs.StatusBadValue, "invalid controls token", start)
		}
		c.controls = ctl
	}

	if err := s.pool.Acquire(ctx, 1); err != nil {
		return nil
	}
	status, fields := s.invoke(op, h, c)
	s.pool.Release(1)

	out, err := session.EncodeResponseFrame(id, msgType, status, fields, s.cfg.Limits)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("encode response")
		return s.reject(id, msgType, hwcs.StatusUnknownError, "response encoding failed", start)
	}
	observability.RecordDispatch(s.svc.Name(), op, status.String(), time.Since(start))
	log.Debug().
		Str("op", op).
		Uint64("message_id", id).
		Str("status", status.String()).
		Dur("duration", time.Since(start)).
		Msg("dispatch")
	return out
}

// replyRoom is the payload left for a single bytes field once the status
// field is framed.
func (s *Server) replyRoom() int {
	n := int(s.cfg.Limits.MaxPayloadBytes) - 2*tlv.HeaderLen - 4
	return max(n, 1)
}

// invoke runs a handler, converting a panic into UnknownError.
func (s *Server) invoke(op string, h handler, c *call) (status hwcs.Status, fields []tlv.Field) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("op", op).Interface("panic", r).Msg("handler panic")
			status, fields = hwcs.StatusUnknownError, nil
		}
	}()
	return h.fn(c)
}

func (s *Server) reject(id uint64, msgType uint32, status hwcs.Status, reason string, start time.Time) []byte {
	op := schema.Name(msgType)
	observability.RecordDispatch(s.svc.Name(), op, status.String(), time.Since(start))
	log.Debug().
		Str("op", op).
		Uint64("message_id", id).
		Str("status", status.String()).
		Str("reason", reason).
		Msg("dispatch rejected")
	out, err := session.EncodeErrorFrame(id, msgType, status, reason, s.cfg.Limits)
	if err != nil {
		log.Error().Err(err).Str("op", op).Msg("encode error frame")
		return nil
	}
	return out
}
