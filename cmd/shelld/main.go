package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/armadillo-os/shell/internal/infrastructure/config"
	"github.com/armadillo-os/shell/internal/infrastructure/server"
)

func main() {
	configFile := flag.String("config", "", "Path to TOML config file")
	port := flag.String("port", "", "Server port (overrides config)")
	sessionDir := flag.String("sessions", "", "Session storage directory (overrides config)")
	catalogDir := flag.String("catalog", "", "Suggestion catalog directory (overrides config)")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFile(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	} else {
		cfg = config.LoadOrDefault()
	}

	if *port != "" {
		cfg.Server.Port = *port
	}
	if *sessionDir != "" {
		cfg.Session.Dir = *sessionDir
	}
	if *catalogDir != "" {
		cfg.Suggestions.CatalogPath = *catalogDir
	}

	srv, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Run(); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-sigChan:
		log.Println("Shutting down gracefully...")
		if err := srv.Close(); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	}
}
