package main

import (
	"log"
	"net/http"

	"project-tracker-api/internal"
	"project-tracker-api/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	// Local development keeps its settings in a .env file.
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.LoadAndValidate()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	srv := internal.NewServer(cfg.DatabaseURL, cfg)

	log.Println("Starting Project Tracker API server...")
	log.Printf("Listening on %s", cfg.Addr)

	log.Fatal(http.ListenAndServe(cfg.Addr, srv.Router))
}
