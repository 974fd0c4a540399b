package main

import (
	"log"
	"os"

	"github.com/existflow/controlcentre/internal/logger"
	"github.com/existflow/controlcentre/server"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logConfig := logger.DefaultConfig()
	logConfig.Console = true
	if err := logger.Init(logConfig); err != nil {
		log.Printf("Logger unavailable: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(server.Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Token:       os.Getenv("CONTROLCENTRE_TOKEN"),
	})
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	log.Printf("Control Centre document server starting on :%s", port)
	if err := srv.Start(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
