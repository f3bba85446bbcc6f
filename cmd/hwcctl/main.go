// hwcctl issues one control call against a running composition service
// and prints the status it returns.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/danmuck/hwcctl/internal/client"
	"github.com/danmuck/hwcctl/internal/config"
	"github.com/danmuck/hwcctl/internal/hwcs"
	"github.com/danmuck/hwcctl/internal/logging"
	"github.com/fatih/color"
	"github.com/spf13/pflag"
)

var errCallFailed = errors.New("call failed")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		if !errors.Is(err, errCallFailed) {
			fmt.Fprintf(os.Stderr, "hwcctl: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	logging.ConfigureRuntime()

	flags := pflag.NewFlagSet("hwcctl", pflag.ContinueOnError)
	flags.SetInterspersed(false)
	path := flags.StringP("config", "c", "", "client TOML config file")
	name := flags.StringP("service", "s", "", "service name to resolve")
	registryDir := flags.String("registry-dir", "", "directory of published endpoints")
	timeout := flags.DurationP("timeout", "t", 0, "how long to wait for the service")
	noColor := flags.Bool("no-color", false, "disable colored output")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: hwcctl [flags] <command> [args]\n\nflags:\n%s\ncommands:\n", flags.FlagUsages())
		for _, u := range usages() {
			fmt.Fprintf(os.Stderr, "  %s\n", u)
		}
	}
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *noColor {
		color.NoColor = true
	}

	cmdName, cmd, rest, ok := lookup(flags.Args())
	if !ok {
		flags.Usage()
		if flags.NArg() == 0 {
			return errors.New("missing command")
		}
		return fmt.Errorf("unknown command %q", strings.Join(flags.Args(), " "))
	}
	if len(rest) != cmd.nargs {
		return fmt.Errorf("usage: hwcctl %s", cmd.usage)
	}

	cfg := config.DefaultClientConfig()
	if *path != "" {
		loaded, err := config.LoadClientConfig(*path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flags.Changed("service") {
		cfg.Service = *name
	}
	if flags.Changed("registry-dir") {
		cfg.RegistryDir = *registryDir
	}
	if flags.Changed("timeout") {
		cfg.ConnectTimeout = timeout.String()
	}
	opts, wait, err := config.ClientOptions(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, wait)
		defer cancel()
	}
	s := client.Connect(ctx, opts)
	if s == nil {
		return fmt.Errorf("service %s unavailable", cfg.Service)
	}
	defer client.Disconnect(s)

	return execute(out, s, cmdName, cmd, rest)
}

// execute runs one resolved command and renders its outcome.
func execute(out io.Writer, s *client.Session, name string, cmd command, args []string) error {
	started := time.Now()
	res, err := cmd.run(s, args)
	if err != nil {
		return err
	}
	render(out, name, res, time.Since(started))
	if res.status != hwcs.StatusOK {
		return errCallFailed
	}
	return nil
}

func render(out io.Writer, name string, res outcome, elapsed time.Duration) {
	label := color.New(color.Bold).Sprint(name)
	status := color.GreenString("OK")
	if res.status != hwcs.StatusOK {
		status = color.RedString("%s (%d)", res.status, int32(res.status))
	}
	fmt.Fprintf(out, "%s %s %s\n", label, status, color.HiBlackString(elapsed.Round(time.Microsecond).String()))
	if res.status == hwcs.StatusOK && res.detail != "" {
		for _, line := range strings.Split(res.detail, "\n") {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}
