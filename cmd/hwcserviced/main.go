// hwcserviced runs the composition control service: the control protocol
// listener, name publication, and the optional admin HTTP surface.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/hwcctl/internal/config"
	"github.com/danmuck/hwcctl/internal/logging"
	"github.com/danmuck/hwcctl/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "hwcserviced: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	logging.ConfigureRuntime()

	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("service", cfg.Name).
		Str("network", cfg.Network).
		Str("address", cfg.Address).
		Str("backend", cfg.Backend).
		Msg("hwcserviced starting")
	return service.RunDaemon(ctx, cfg)
}

// parseFlags loads the optional config file, then applies flags the caller
// set explicitly.
func parseFlags(args []string) (service.DaemonConfig, error) {
	flags := pflag.NewFlagSet("hwcserviced", pflag.ContinueOnError)
	path := flags.StringP("config", "c", "", "daemon TOML config file")
	network := flags.String("network", "", "listener network: unix|tcp|tcp4|tcp6")
	address := flags.StringP("address", "a", "", "listener address or socket path")
	admin := flags.String("admin", "", "admin HTTP listen address; \"off\" disables it")
	backendKind := flags.StringP("backend", "b", "", "backend engine: stub|memory")
	version := flags.String("version", "", "version string reported to clients")
	workers := flags.IntP("workers", "w", 0, "dispatch worker pool size")
	registryDir := flags.String("registry-dir", "", "directory for published endpoints")
	if err := flags.Parse(args); err != nil {
		return service.DaemonConfig{}, err
	}

	cfg := service.DefaultDaemonConfig()
	if *path != "" {
		loaded, err := config.LoadDaemonConfig(*path)
		if err != nil {
			return service.DaemonConfig{}, err
		}
		cfg = loaded
	}

	if flags.Changed("network") {
		cfg.Network = *network
	}
	if flags.Changed("address") {
		cfg.Address = *address
	}
	if flags.Changed("admin") {
		cfg.AdminAddr = *admin
		if cfg.AdminAddr == "off" {
			cfg.AdminAddr = ""
		}
	}
	if flags.Changed("backend") {
		cfg.Backend = *backendKind
	}
	if flags.Changed("version") {
		cfg.Version = *version
	}
	if flags.Changed("workers") {
		cfg.Workers = *workers
	}
	if flags.Changed("registry-dir") {
		cfg.RegistryDir = *registryDir
	}
	if err := cfg.Validate(); err != nil {
		return service.DaemonConfig{}, err
	}
	return cfg, nil
}
