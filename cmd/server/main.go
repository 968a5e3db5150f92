// Package main is the entry point for the midi2tone API server
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/james-see/midi2tone/pkg/api"
	"github.com/james-see/midi2tone/pkg/config"
	"github.com/james-see/midi2tone/pkg/logger"
)

var version = "dev"

func main() {
	cfg, found := config.Load()
	if !found {
		log.Println("No .env file found, using environment variables")
	}

	port := flag.Int("port", cfg.Port, "Server port")
	flag.Parse()
	cfg.Port = *port

	flush, err := logger.InitSentry(cfg.SentryDSN, cfg.Environment, version)
	if err != nil {
		log.Printf("Sentry disabled: %v", err)
	}
	defer flush()

	fmt.Printf("Starting midi2tone API server on port %d...\n", cfg.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Port)

	if err := api.StartServer(cfg); err != nil {
		flush()
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
