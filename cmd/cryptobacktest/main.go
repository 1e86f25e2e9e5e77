// Command cryptobacktest is the CLI entrypoint: it wires configuration,
// logging, persistence, and the command tree together, then hands off to
// cobra.
package main

import (
	"os"

	"github.com/vaibhavblayer/cryptobacktest/internal/applog"
	"github.com/vaibhavblayer/cryptobacktest/internal/cli"
	"github.com/vaibhavblayer/cryptobacktest/internal/config"
)

func main() {
	configDir := ""
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			configDir = os.Args[i+1]
		}
	}

	cfg, err := config.Load(configDir)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := applog.NewLoggerWithConfig(applog.LogConfig{
		Level:      cfg.Logging.Level,
		Console:    cfg.Logging.Console,
		File:       cfg.Logging.File,
		FilePath:   cfg.Logging.FilePath,
		MaxSize:    cfg.Logging.MaxSize,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAge:     cfg.Logging.MaxAge,
	})

	root := cli.NewRootCmd(cfg, logger)
	if err := root.Execute(); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
