// Command devtoken prints a bearer token signed with AUTH_JWT_SECRET so the API
// can be exercised locally without the identity provider.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"eventflow/config"
	"eventflow/internal/adapters/auth"
)

func main() {
	subject := flag.String("sub", "", "user ID to put in the token (default: a random UUID)")
	email := flag.String("email", "", "email claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *subject == "" {
		*subject = uuid.NewString()
	}

	token, err := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer).Issue(*subject, *email, *ttl)
	if err != nil {
		log.Fatalf("failed to issue token: %v", err)
	}
	fmt.Println(token)
}
