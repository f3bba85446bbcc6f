// Package registry is the name-based discovery seam between the service and
// its clients. A service publishes the endpoint it listens on under a
// well-known name; clients block in WaitForService until that name appears.
package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidName     = errors.New("registry: invalid service name")
	ErrInvalidEndpoint = errors.New("registry: invalid endpoint")
	ErrNotFound        = errors.New("registry: service not found")
)

// Endpoint is where a published service accepts connections.
type Endpoint struct {
	Network   string    `toml:"network"`
	Address   string    `toml:"address"`
	Version   string    `toml:"version,omitempty"`
	Published time.Time `toml:"published"`
}

func (e Endpoint) String() string {
	return e.Network + "://" + e.Address
}

// Registrar publishes and resolves services by name.
type Registrar interface {
	Publish(name string, ep Endpoint) error
	Withdraw(name string) error
	// WaitForService blocks until name is published or ctx is done.
	WaitForService(ctx context.Context, name string) (Endpoint, error)
}

// ValidateEndpoint checks that an endpoint can be dialed.
func ValidateEndpoint(ep Endpoint) error {
	switch ep.Network {
	case "unix", "tcp", "tcp4", "tcp6":
	default:
		return fmt.Errorf("%w: unsupported network %q", ErrInvalidEndpoint, ep.Network)
	}
	if strings.TrimSpace(ep.Address) == "" {
		return fmt.Errorf("%w: address required", ErrInvalidEndpoint)
	}
	return nil
}

// ValidateName accepts lowercase dotted names such as "hwc.info".
func ValidateName(name string) error {
	if !isValidName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

func isValidName(name string) bool {
	if name == "" {
		return false
	}
	lastSep := false
	for i := 0; i < len(name); i++ {
		c := name[i]
		isLower := c >= 'a' && c <= 'z'
		isDigit := c >= '0' && c <= '9'
		isSep := c == '.' || c == '-' || c == '_'
		if !(isLower || isDigit || isSep) {
			return false
		}
		if (i == 0 || i == len(name)-1) && isSep {
			return false
		}
		if isSep && lastSep {
			return false
		}
		lastSep = isSep
	}
	return true
}
