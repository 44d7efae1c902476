// Command statdesign-server serves the design endpoints as a JSON
// API.
package main

import (
	"log"

	"github.com/joho/godotenv"

	"statdesign/internal/config"
	"statdesign/ui"
)

func main() {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	server := ui.NewServer(cfg)
	if err := server.Start(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
