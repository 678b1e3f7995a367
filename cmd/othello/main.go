package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jaminalder/codex-othello/internal/application"
	"github.com/jaminalder/codex-othello/internal/config"
	"github.com/rs/zerolog"
)

// main - is the entry point of the application. It initializes the configuration, logger, and runs the application.
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	configPath := flag.String("config", "", "path to a YAML config file (default: $XDG_CONFIG_HOME/"+config.File+")")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	logger := initLogger(conf)

	if err := application.RunApp(context.Background(), logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize logger.
func initLogger(conf *config.Config) zerolog.Logger {
	logger, err := application.NewLogger(conf, os.Stderr)
	if err != nil {
		panic(err)
	}
	return logger
}
