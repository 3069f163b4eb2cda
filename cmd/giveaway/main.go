package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "giveaway",
		Short: "Giveaway CLI - listing images and demo data",
		Long: `Giveaway Command Line Interface

Mints development session tokens, presigns object uploads, uploads images
through the server's presign endpoint and seeds demo listings.

Settings are read from the environment (and a .env file when present),
using the same variables as the server.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("server", getEnv("GIVEAWAY_SERVER", "http://localhost:8080"), "giveaway server base URL")
	rootCmd.PersistentFlags().String("token", os.Getenv("GIVEAWAY_TOKEN"), "session token (see 'giveaway token')")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewTokenCommand())
	rootCmd.AddCommand(NewPresignCommand())
	rootCmd.AddCommand(NewUploadCommand())
	rootCmd.AddCommand(NewSeedCommand())

	return rootCmd
}

// NewServiceClientFromFlags creates a client for the server named by --server
func NewServiceClientFromFlags(cmd *cobra.Command) (*ServiceClient, error) {
	server, _ := cmd.Flags().GetString("server")
	token, _ := cmd.Flags().GetString("token")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if server == "" {
		return nil, fmt.Errorf("--server is required")
	}
	if token == "" {
		return nil, fmt.Errorf("--token or GIVEAWAY_TOKEN is required")
	}
	return NewServiceClient(server, token, nil, verbose), nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
