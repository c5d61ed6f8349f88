package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/qadesk/cli/config"
	"github.com/qadesk/cli/internal/tui"
)

func main() {
	var (
		baseURL = flag.String("base-url", "", "Override the API base URL")
		token   = flag.String("token", "", "Override the API bearer token")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *baseURL != "" {
		cfg.API.BaseURL = *baseURL
	}
	if *token != "" {
		cfg.API.Token = *token
	}

	// Create and run TUI
	app, err := tui.NewApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing app: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running app: %v\n", err)
		os.Exit(1)
	}
}
