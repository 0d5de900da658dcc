package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"fixify/internal/config"
	"fixify/internal/daemonrun"
)

func main() {
	var configPath string
	var socketPath string
	var logLevel string

	flags := flag.NewFlagSet("fixifyd", flag.ExitOnError)
	flags.StringVar(&configPath, "config", "", "configuration file path")
	flags.StringVar(&socketPath, "socket", "", "IPC socket path (defaults to <log_dir>/fixifyd.sock)")
	flags.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{
		LogLevel:   logLevel,
		SocketPath: socketPath,
	}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
