package client

import (
	"context"
	"net"
	"strings"
	"sync"

	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/frame"
	"github.com/danmuck/hwcctl/internal/protocol/schema"
	"github.com/danmuck/hwcctl/internal/protocol/session"
	"github.com/danmuck/hwcctl/internal/protocol/tlv"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Options configures Connect.
type Options struct {
	// Name is the discovery name; empty means hwcs.ServiceName.
	Name string
	// Registrar resolves Name; nil means a registry.Dir at
	// registry.DefaultDir().
	Registrar registry.Registrar
	Session   session.Config
}

func DefaultOptions() Options {
	return Options{
		Name:      hwcs.ServiceName,
		Registrar: registry.NewDir(registry.DefaultDir()),
		Session:   session.DefaultConfig(),
	}
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Name) == "" {
		o.Name = hwcs.ServiceName
	}
	if o.Registrar == nil {
		o.Registrar = registry.NewDir(registry.DefaultDir())
	}
	o.Session = o.Session.WithDefaults()
	return o
}

// Session is one client connection holding one control surface.
type Session struct {
	mu        sync.Mutex
	conn      net.Conn
	cfg       session.Config
	name      string
	endpoint  registry.Endpoint
	token     string
	seq       uint64
	connected bool
	dead      bool
	version   *string
}

// Connect blocks until the named service is published or ctx ends, then
// dials it and acquires controls. It returns nil on any failure; the cause
// is logged.
func Connect(ctx context.Context, opts Options) *Session {
	opts = opts.withDefaults()
	ep, err := opts.Registrar.WaitForService(ctx, opts.Name)
	if err != nil {
		log.Warn().Err(errors.Wrapf(err, "wait for service %s", opts.Name)).Msg("client connect failed")
		return nil
	}

	dialer := net.Dialer{Timeout: opts.Session.DialTimeout}
	conn, err := dialer.DialContext(ctx, ep.Network, ep.Address)
	if err != nil {
		log.Warn().Err(errors.Wrapf(err, "dial %s", ep)).Msg("client connect failed")
		return nil
	}

	s := &Session{
		conn:      conn,
		cfg:       opts.Session,
		name:      opts.Name,
		endpoint:  ep,
		connected: true,
	}
	resp, st := s.invoke(schema.MsgGetControls, nil)
	if st != hwcs.StatusOK {
		log.Warn().Str("service", opts.Name).Str("status", st.String()).Msg("client get controls failed")
		s.close()
		return nil
	}
	s.token = session.GetString(resp.Fields, schema.FieldToken)
	log.Debug().Str("service", opts.Name).Str("endpoint", ep.String()).Msg("client connected")
	return s
}

// Disconnect releases the control surface and closes the transport. It is
// safe on nil and on an already disconnected session.
func Disconnect(s *Session) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	if !s.dead {
		if _, st := s.roundTrip(schema.MsgReleaseControls, nil); st != hwcs.StatusOK {
			log.Debug().Str("status", st.String()).Msg("release controls")
		}
	}
	s.closeLocked()
	log.Debug().Str("service", s.name).Msg("client disconnected")
}

// Alive reports whether dispatch calls on s will reach the service.
func (s *Session) Alive() bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected && !s.dead
}

func (s *Session) Endpoint() registry.Endpoint {
	if s == nil {
		return registry.Endpoint{}
	}
	return s.endpoint
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

func (s *Session) closeLocked() {
	if s.conn != nil {
		_ = s.conn.Close()
	}
	s.connected = false
}

// invoke performs one call, or answers BadValue for an unusable session.
func (s *Session) invoke(msgType uint32, fields []tlv.Field) (session.Response, hwcs.Status) {
	if s == nil {
		return session.Response{}, hwcs.StatusBadValue
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.roundTrip(msgType, fields)
}

func (s *Session) roundTrip(msgType uint32, fields []tlv.Field) (session.Response, hwcs.Status) {
	if !s.connected || s.dead {
		return session.Response{}, hwcs.StatusBadValue
	}
	s.seq++
	raw, err := session.EncodeRequestFrame(s.seq, msgType, s.token, fields, s.cfg.Limits)
	if err != nil {
		log.Debug().Err(err).Str("op", schema.Name(msgType)).Msg("client encode")
		return session.Response{}, hwcs.StatusBadValue
	}
	if _, err := s.conn.Write(raw); err != nil {
		return session.Response{}, s.fail(msgType, errors.Wrap(err, "write request"))
	}
	f, err := frame.ReadFrame(s.conn, s.cfg.Limits)
	if err != nil {
		return session.Response{}, s.fail(msgType, errors.Wrap(err, "read response"))
	}
	resp, err := session.DecodeResponseFrame(f)
	if err != nil {
		return session.Response{}, s.fail(msgType, errors.Wrap(err, "decode response"))
	}
	if resp.MessageID != s.seq || resp.Type != msgType {
		return session.Response{}, s.fail(msgType, errors.Errorf("response mismatch id=%d type=%d", resp.MessageID, resp.Type))
	}
	if resp.Rejected {
		log.Debug().
			Str("op", schema.Name(msgType)).
			Str("status", resp.Status.String()).
			Str("reason", resp.Message).
			Msg("client call rejected")
	}
	return resp, resp.Status
}

// fail marks the session broken and reports the call as DeadObject.
func (s *Session) fail(msgType uint32, err error) hwcs.Status {
	s.dead = true
	if s.conn != nil {
		_ = s.conn.Close()
	}
	log.Warn().
		Err(errors.WithMessagef(err, "client %s", schema.Name(msgType))).
		Str("service", s.name).
		Msg("session lost")
	return hwcs.StatusDeadObject
}
