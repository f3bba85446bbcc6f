package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrNilEngine    = errors.New("service: backend engine is nil")
	ErrNilRegistrar = errors.New("service: registrar is nil")
)

// Config holds the per-service settings that are independent of transport.
type Config struct {
	Name    string
	Version string
	// LogLines bounds the diagnostic trace ring.
	LogLines int
}

func DefaultConfig() Config {
	return Config{
		Name:     hwcs.ServiceName,
		Version:  "",
		LogLines: 256,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if strings.TrimSpace(c.Name) == "" {
		c.Name = def.Name
	}
	if c.LogLines <= 0 {
		c.LogLines = def.LogLines
	}
	return c
}

// Service is the composition control service context.
type Service struct {
	cfg       Config
	engine    backend.Engine
	listeners *Listeners
	trace     *LogRing

	metricsOnce sync.Once

	startMu   sync.Mutex
	started   bool
	registrar registry.Registrar

	diagMu     sync.Mutex
	diagnostic *Diagnostic

	optMu   sync.RWMutex
	options map[string]string

	controlsMu sync.Mutex
	controls   map[string]*Controls
}

func New(engine backend.Engine, cfg Config) (*Service, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	cfg = cfg.withDefaults()
	return &Service{
		cfg:       cfg,
		engine:    engine,
		listeners: NewListeners(),
		trace:     NewLogRing(cfg.LogLines),
		options:   make(map[string]string),
		controls:  make(map[string]*Controls),
	}, nil
}

func (s *Service) Name() string {
	return s.cfg.Name
}

func (s *Service) Engine() backend.Engine {
	return s.engine
}

func (s *Service) Listeners() *Listeners {
	return s.listeners
}

// Start publishes the service under its name. Calling Start on a started
// service does nothing.
func (s *Service) Start(reg registry.Registrar, ep registry.Endpoint) error {
	if reg == nil {
		return ErrNilRegistrar
	}
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if s.started {
		return nil
	}
	if ep.Version == "" {
		ep.Version = s.cfg.Version
	}
	if err := reg.Publish(s.cfg.Name, ep); err != nil {
		log.Error().Err(err).Str("service", s.cfg.Name).Msg("failed to start service")
		return fmt.Errorf("service: start %s: %w", s.cfg.Name, err)
	}
	s.registrar = reg
	s.started = true
	log.Info().Str("service", s.cfg.Name).Str("endpoint", ep.String()).Msg("service started")
	return nil
}

// Stop withdraws a started service. Stopping twice is harmless.
func (s *Service) Stop() error {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	if !s.started {
		return nil
	}
	s.started = false
	reg := s.registrar
	s.registrar = nil
	if err := reg.Withdraw(s.cfg.Name); err != nil {
		return fmt.Errorf("service: stop %s: %w", s.cfg.Name, err)
	}
	log.Info().Str("service", s.cfg.Name).Msg("service stopped")
	return nil
}

func (s *Service) Started() bool {
	s.startMu.Lock()
	defer s.startMu.Unlock()
	return s.started
}

// GetHwcVersion returns the static version string. Empty is valid.
func (s *Service) GetHwcVersion() string {
	return s.cfg.Version
}

// SetOption records a named runtime option.
func (s *Service) SetOption(option, value string) hwcs.Status {
	option = strings.TrimSpace(option)
	if option == "" {
		return hwcs.StatusBadValue
	}
	s.optMu.Lock()
	s.options[option] = value
	s.optMu.Unlock()
	s.trace.Addf("SetOption %s=%s", option, value)
	return hwcs.StatusOK
}

// DumpOptions renders the option table as sorted key=value lines and logs
// it.
func (s *Service) DumpOptions() string {
	s.optMu.RLock()
	keys := make([]string, 0, len(s.options))
	for k := range s.options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s=%s\n", k, s.options[k])
	}
	s.optMu.RUnlock()
	out := b.String()
	log.Debug().Str("service", s.cfg.Name).Int("options", len(keys)).Msg("dump options")
	return out
}

// EnableLogviewToLogcat toggles mirroring of trace lines to the logger.
func (s *Service) EnableLogviewToLogcat(enable bool) hwcs.Status {
	s.trace.SetMirror(enable)
	log.Info().Str("service", s.cfg.Name).Bool("enable", enable).Msg("logview mirroring")
	return hwcs.StatusOK
}

// Diagnostic returns the service's diagnostic surface, building it on the
// first call.
func (s *Service) Diagnostic() *Diagnostic {
	s.diagMu.Lock()
	defer s.diagMu.Unlock()
	if s.diagnostic == nil {
		s.diagnostic = newDiagnostic(s.engine, s.trace)
	}
	return s.diagnostic
}

// GetControls issues a fresh control surface bound to the shared engine.
func (s *Service) GetControls() *Controls {
	c := &Controls{
		token:  uuid.NewString(),
		svc:    s,
		engine: s.engine,
	}
	s.controlsMu.Lock()
	s.controls[c.token] = c
	n := len(s.controls)
	s.controlsMu.Unlock()
	log.Debug().Str("token", c.token).Int("controls", n).Msg("controls issued")
	return c
}

// ControlsFor resolves a token issued by GetControls.
func (s *Service) ControlsFor(token string) (*Controls, bool) {
	s.controlsMu.Lock()
	defer s.controlsMu.Unlock()
	c, ok := s.controls[token]
	return c, ok
}

// ReleaseControls forgets a token. It reports whether the token was live.
func (s *Service) ReleaseControls(token string) bool {
	s.controlsMu.Lock()
	_, ok := s.controls[token]
	delete(s.controls, token)
	n := len(s.controls)
	s.controlsMu.Unlock()
	if ok {
		log.Debug().Str("token", token).Int("controls", n).Msg("controls released")
	}
	return ok
}

func (s *Service) ControlsCount() int {
	s.controlsMu.Lock()
	defer s.controlsMu.Unlock()
	return len(s.controls)
}
