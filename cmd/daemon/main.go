// @title Playtrack API
// @version 1.0
// @description API for marking, tracking and exporting subjects in short video clips.
// @host localhost:8080
// @BasePath /
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"playtrack/internal/daemon"
	_ "playtrack/internal/docs"
)

func main() {
	if err := godotenv.Load(); err == nil {
		log.Printf("loaded environment from .env")
	}

	server := daemon.NewServer()
	defer server.Cleanup()

	addr := os.Getenv("PLAYTRACK_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("Starting server on %s\n", addr)
	if err := http.ListenAndServe(addr, server.Routes()); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
