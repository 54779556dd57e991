// main.go
//
// Entry point of the theatre hunt backend.
// Responsibilities:
//   - Load .env and set the zerolog level.
//   - Expose the CLI: serve (default), migrate, hash-password, catalog.

package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "theatre",
	Short:         "Mystère au Théâtre scavenger-hunt server",
	Long:          "Serves the five-room letter hunt, records wins and lets the reception desk redeem claim codes.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil || n <= 0 {
		return def
	}
	return n
}
