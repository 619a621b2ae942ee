// Package main provides the entry point for the resume analyzer service.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "analyzer_agent",
	Short: "Resume match analysis service",
	Long:  "Resume Analyzer scores resumes against job descriptions through tiered AI providers with a deterministic keyword fallback, exposed as a CLI, an HTTP API and a queue worker.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
