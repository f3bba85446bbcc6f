package registry

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Local is an in-process Registrar. Waiters wake on every publish.
type Local struct {
	mu       sync.Mutex
	services map[string]Endpoint
	changed  chan struct{}
}

var _ Registrar = (*Local)(nil)

func NewLocal() *Local {
	return &Local{
		services: make(map[string]Endpoint),
		changed:  make(chan struct{}),
	}
}

func (l *Local) Publish(name string, ep Endpoint) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := ValidateEndpoint(ep); err != nil {
		return err
	}
	l.mu.Lock()
	l.services[name] = ep
	close(l.changed)
	l.changed = make(chan struct{})
	l.mu.Unlock()
	log.Debug().Str("service", name).Str("endpoint", ep.String()).Msg("registry publish")
	return nil
}

// Withdraw removes name. Withdrawing an unknown name is not an error.
func (l *Local) Withdraw(name string) error {
	l.mu.Lock()
	delete(l.services, name)
	l.mu.Unlock()
	log.Debug().Str("service", name).Msg("registry withdraw")
	return nil
}

func (l *Local) Lookup(name string) (Endpoint, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	ep, ok := l.services[name]
	if !ok {
		return Endpoint{}, ErrNotFound
	}
	return ep, nil
}

func (l *Local) WaitForService(ctx context.Context, name string) (Endpoint, error) {
	if err := ValidateName(name); err != nil {
		return Endpoint{}, err
	}
	for {
		l.mu.Lock()
		ep, ok := l.services[name]
		changed := l.changed
		l.mu.Unlock()
		if ok {
			return ep, nil
		}
		select {
		case <-ctx.Done():
			return Endpoint{}, ctx.Err()
		case <-changed:
		}
	}
}
