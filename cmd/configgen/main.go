package main

import (
	"os"

	"github.com/danmuck/hwcctl/internal/config"
	"github.com/danmuck/hwcctl/internal/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
)

func defaultPath(kind string) string {
	switch kind {
	case "daemon":
		return "cmd/hwcserviced/config.toml"
	case "client":
		return "cmd/hwcctl/config.toml"
	default:
		log.Fatal().Str("kind", kind).Msg("unknown config kind")
		return ""
	}
}

func main() {
	logging.ConfigureRuntime()

	flags := pflag.NewFlagSet("configgen", pflag.ExitOnError)
	kind := flags.StringP("kind", "k", "daemon", "config kind: daemon|client")
	output := flags.StringP("output", "o", "", "output path for config template")
	validate := flags.Bool("validate", false, "validate an existing config file")
	input := flags.StringP("input", "i", "", "config path for validation (defaults to per-kind cmd path)")
	force := flags.BoolP("force", "f", false, "overwrite existing config file")
	_ = flags.Parse(os.Args[1:])

	if *validate {
		path := *input
		if path == "" {
			path = defaultPath(*kind)
		}
		if err := config.Validate(*kind, path); err != nil {
			log.Fatal().Err(err).Str("kind", *kind).Str("path", path).Msg("config invalid")
		}
		log.Info().Str("kind", *kind).Str("path", path).Msg("config validated")
		return
	}

	target := *output
	if target == "" {
		target = defaultPath(*kind)
	}
	if err := config.WriteTemplate(target, *kind, *force); err != nil {
		log.Fatal().Err(err).Str("path", target).Msg("write template")
	}
	log.Info().Str("kind", *kind).Str("path", target).Msg("config template written")
}
