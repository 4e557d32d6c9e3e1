package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/server"
)

const appVersion = "dev"

type options struct {
	configPath  string
	showVersion bool
}

func main() {
	if os.Getenv("SKIP_SERVER_RUN") == "1" {
		return
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if opts.showVersion {
		fmt.Println(appVersion)
		return
	}

	logger := logging.NewLogger(logging.Config{
		Level:   os.Getenv("LOG_LEVEL"),
		Format:  os.Getenv("LOG_FORMAT"),
		Service: "rank-kicker",
		Version: appVersion,
	})

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		logging.Error(logger, "failed to load config", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, logger)
	srv.Run(ctx, stop)
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("rank-kicker", flag.ContinueOnError)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file")
	fs.BoolVar(&opts.showVersion, "version", false, "print the version and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return opts, nil
}

// loadConfig reads the environment and overlays the YAML file when one is given.
func loadConfig(path string) (config.Config, error) {
	cfg := config.Load()
	if path == "" {
		return cfg, nil
	}
	return config.LoadFile(cfg, path)
}
