package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/danmuck/hwcctl/internal/backend"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/protocol/frame"
	"github.com/danmuck/hwcctl/internal/registry"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidDaemonConfig = errors.New("service: invalid daemon config")

// DaemonConfig configures a standalone service process.
type DaemonConfig struct {
	Name            string   `toml:"name"`
	Version         string   `toml:"version"`
	Network         string   `toml:"network"`
	Address         string   `toml:"address"`
	AdminAddr       string   `toml:"admin_addr"`
	AdminToken      string   `toml:"admin_token"`
	Backend         string   `toml:"backend"`
	Workers         int      `toml:"workers"`
	LogLines        int      `toml:"log_lines"`
	MaxPayloadBytes uint64   `toml:"max_payload_bytes"`
	RegistryDir     string   `toml:"registry_dir"`
	CORSOrigins     []string `toml:"cors_origins"`
}

func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		Name:            hwcs.ServiceName,
		Network:         "unix",
		Address:         filepath.Join(os.TempDir(), "hwcctl", "hwc.sock"),
		AdminAddr:       "127.0.0.1:7480",
		Backend:         "memory",
		Workers:         DefaultServerConfig().Workers,
		LogLines:        DefaultConfig().LogLines,
		MaxPayloadBytes: frame.DefaultLimits().MaxPayloadBytes,
		RegistryDir:     registry.DefaultDir(),
	}
}

func (c DaemonConfig) Validate() error {
	if err := registry.ValidateName(c.Name); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDaemonConfig, err)
	}
	if err := registry.ValidateEndpoint(registry.Endpoint{Network: c.Network, Address: c.Address}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDaemonConfig, err)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidDaemonConfig)
	}
	if strings.TrimSpace(c.RegistryDir) == "" {
		return fmt.Errorf("%w: registry_dir required", ErrInvalidDaemonConfig)
	}
	return nil
}

// RunDaemon serves the control protocol and the optional admin HTTP surface
// until ctx is done. The service is published once the control listener is
// bound and withdrawn on the way out.
func RunDaemon(ctx context.Context, cfg DaemonConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	engine, err := backend.New(cfg.Backend)
	if err != nil {
		return err
	}
	svc, err := New(engine, Config{Name: cfg.Name, Version: cfg.Version, LogLines: cfg.LogLines})
	if err != nil {
		return err
	}
	svc.CountNotifications()
	ln, err := listen(cfg.Network, cfg.Address)
	if err != nil {
		return err
	}
	limits := frame.DefaultLimits()
	if cfg.MaxPayloadBytes > 0 {
		limits.MaxPayloadBytes = cfg.MaxPayloadBytes
	}
	srv := NewServer(svc, ServerConfig{Limits: limits, Workers: cfg.Workers})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Serve(gctx, ln)
	})

	if strings.TrimSpace(cfg.AdminAddr) != "" {
		httpSrv := &http.Server{
			Addr:              cfg.AdminAddr,
			Handler:           NewAdminRouter(svc, srv, AdminConfig{CORSOrigins: cfg.CORSOrigins, Token: cfg.AdminToken}),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info().Str("addr", cfg.AdminAddr).Msg("admin listener ready")
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("service: admin http: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			return httpSrv.Shutdown(shutdownCtx)
		})
	}

	ep := registry.Endpoint{Network: cfg.Network, Address: ln.Addr().String()}
	if err := svc.Start(registry.NewDir(cfg.RegistryDir), ep); err != nil {
		cancel()
		_ = g.Wait()
		return err
	}
	g.Go(func() error {
		<-gctx.Done()
		return svc.Stop()
	})

	log.Info().
		Str("service", svc.Name()).
		Str("backend", cfg.Backend).
		Int("workers", cfg.Workers).
		Str("registry", cfg.RegistryDir).
		Msg("daemon running")
	err = g.Wait()
	if cfg.Network == "unix" {
		_ = os.Remove(cfg.Address)
	}
	return err
}

// listen binds the control endpoint, clearing a stale unix socket first.
func listen(network, address string) (net.Listener, error) {
	if network == "unix" {
		if err := os.MkdirAll(filepath.Dir(address), 0o755); err != nil {
			return nil, fmt.Errorf("service: socket dir: %w", err)
		}
		if err := os.Remove(address); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("service: remove stale socket: %w", err)
		}
	}
	ln, err := net.Listen(network, address)
	if err != nil {
		return nil, fmt.Errorf("service: listen %s %s: %w", network, address, err)
	}
	return ln, nil
}
