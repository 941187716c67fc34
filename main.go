package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/kmuindi/resume-tailor/internal/agent"
	"github.com/kmuindi/resume-tailor/internal/api"
	"github.com/kmuindi/resume-tailor/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	cfg.ApplyToEnv()

	tailorAgent := agent.New(cfg)
	defer tailorAgent.Close()

	server := api.NewServer(tailorAgent)

	addr := cfg.ListenAddr
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	fmt.Printf("Starting Resume Tailor on %s...\n", addr)
	fmt.Printf("Endpoints:\n")
	fmt.Printf("  POST /resume - Upload a resume document\n")
	fmt.Printf("  POST /score - Score the resume against a job posting\n")
	fmt.Printf("  POST /tailor - Generate tailored documents for a job posting\n")
	fmt.Printf("  GET /export - Download the match report workbook\n")

	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
