//go:build ignore

package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"storefront/internal/auth"
	"storefront/internal/config"
)

// issueToken prints a bearer token for a development user, signed with the
// JWT settings from the environment (or .env).
//
//	go run scripts/issue_token.go -user user-1
func main() {
	userID := flag.String("user", "dev-user", "subject of the token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to load configuration: %v\n", err)
		os.Exit(1)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)

	token, err := tokens.Issue(*userID, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to issue token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
