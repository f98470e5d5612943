package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vsinha/pantry/pkg/infrastructure/config"
	"github.com/vsinha/pantry/pkg/infrastructure/logger"
	"github.com/vsinha/pantry/pkg/interfaces/cli/commands"
)

const defaultConfigFile = "pantry.yaml"

func main() {
	// Command line flags
	var (
		configFile = flag.String("config", "", "YAML config file (default: pantry.yaml when present)")
		envFile    = flag.String("env", ".env", "Path to .env file with PANTRY_* variables")
		dataDir    = flag.String("data", "", "Data directory containing CSV files")
		format     = flag.String("format", "", "Output format: text, json")
		logLevel   = flag.String("log-level", "", "Log level: off, normal, verbose")
		noColor    = flag.Bool("no-color", false, "Disable colored output")
		dryRun     = flag.Bool("dry-run", false, "Do not save changes")
		help       = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	if err := run(*configFile, *envFile, *dataDir, *format, *logLevel, *noColor, *dryRun, *help); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configFile, envFile, dataDir, format, logLevel string, noColor, dryRun, help bool) error {
	if configFile == "" {
		if _, err := os.Stat(defaultConfigFile); err == nil {
			configFile = defaultConfigFile
		}
	}

	cfg, err := config.Load(configFile, envFile)
	if err != nil {
		return err
	}

	// Flags win over the file and the environment
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if format != "" {
		cfg.Format = format
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if noColor {
		cfg.Color = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	field, err := cfg.SortField()
	if err != nil {
		return err
	}
	direction, err := cfg.SortDirection()
	if err != nil {
		return err
	}

	cmd := commands.NewPantryCommand(commands.Config{
		DataDir:   cfg.DataDir,
		Format:    cfg.Format,
		Color:     cfg.Color,
		SortField: field,
		SortDir:   direction,
		DryRun:    dryRun,
		Help:      help,
	}, os.Stdout, logger.New(level, os.Stderr))

	return cmd.Execute(context.Background(), flag.Args())
}
