package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/moodtrack/core/internal/config"
	"github.com/moodtrack/core/internal/middleware"
)

// mktoken mints a user bearer token with the configured JWT secret. The
// server has no token-issuing endpoint.
func main() {
	configPath := flag.String("config", config.DefaultConfigPath, "Path to YAML config file")
	userID := flag.String("user", "", "User id to mint a token for")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "Token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Fprintln(os.Stderr, "mktoken: --user is required")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mktoken: %v\n", err)
		os.Exit(1)
	}
	middleware.SetJWTSecret(cfg.JWTSecret)

	token, err := middleware.SignUserToken(*userID, *ttl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mktoken: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
