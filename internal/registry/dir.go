package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/hwcctl/internal/protocol/session"
	"github.com/rs/zerolog/log"
)

// DefaultDir is the registry directory shared by the daemon and clients
// unless configured otherwise.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "hwcctl", "registry")
}

// Dir is a Registrar backed by a directory of <name>.toml endpoint files,
// shared between processes on one host. Waiters poll with backoff.
type Dir struct {
	Root    string
	Backoff session.BackoffConfig
}

var _ Registrar = (*Dir)(nil)

func NewDir(root string) *Dir {
	return &Dir{Root: root, Backoff: session.DefaultConfig().Backoff}
}

func (d *Dir) path(name string) string {
	return filepath.Join(d.Root, name+".toml")
}

// Publish writes the endpoint file through a rename so readers never see a
// partial file.
func (d *Dir) Publish(name string, ep Endpoint) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEndpoint(ep); err != nil {
		return err
	}
	if ep.Published.IsZero() {
		ep.Published = time.Now().UTC().Truncate(time.Second)
	}
	if err := os.MkdirAll(d.Root, 0o755); err != nil {
		return fmt.Errorf("registry: create root: %w", err)
	}
	tmp, err := os.CreateTemp(d.Root, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("registry: create temp: %w", err)
	}
	if err := toml.NewEncoder(tmp).Encode(ep); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: encode %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path(name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("registry: publish %s: %w", name, err)
	}
	log.Debug().Str("service", name).Str("endpoint", ep.String()).Str("root", d.Root).Msg("registry publish")
	return nil
}

func (d *Dir) Withdraw(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(d.path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("registry: withdraw %s: %w", name, err)
	}
	log.Debug().Str("service", name).Str("root", d.Root).Msg("registry withdraw")
	return nil
}

// Lookup reads name once.
func (d *Dir) Lookup(name string) (Endpoint, error) {
	if err := ValidateName(name); err != nil {
		return Endpoint{}, err
	}
	var ep Endpoint
	if _, err := toml.DecodeFile(d.path(name), &ep); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Endpoint{}, ErrNotFound
		}
		return Endpoint{}, fmt.Errorf("registry: read %s: %w", name, err)
	}
	if err := ValidateEndpoint(ep); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}

func (d *Dir) WaitForService(ctx context.Context, name string) (Endpoint, error) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	for attempt := 1; ; attempt++ {
		ep, err := d.Lookup(name)
		if err == nil {
			return ep, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return Endpoint{}, err
		}
		if attempt == 1 {
			log.Debug().Str("service", name).Str("root", d.Root).Msg("waiting for service")
		}
		if err := session.WaitBackoff(ctx, d.Backoff, attempt, rng); err != nil {
			return Endpoint{}, err
		}
	}
}
