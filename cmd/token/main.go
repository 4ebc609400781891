// Command token mints a bearer token the API accepts, signed with the
// configured JWT secret, issuer and audience.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/ariefcatur/restaurant-delivery/internal/auth"
	"github.com/ariefcatur/restaurant-delivery/internal/config"
)

func main() {
	_ = godotenv.Load()

	user := flag.String("user", "", "user id to put in the token subject (default: a new random id)")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	userID, token, err := mint(cfg, *user, *ttl)
	if err != nil {
		log.Fatalf("token: %v", err)
	}
	fmt.Fprintf(os.Stderr, "user_id=%s\n", userID)
	fmt.Println(token)
}

func mint(cfg config.Config, user string, ttl time.Duration) (uuid.UUID, string, error) {
	if ttl <= 0 {
		return uuid.Nil, "", fmt.Errorf("ttl must be positive, got %s", ttl)
	}
	userID := uuid.New()
	if user != "" {
		var err error
		if userID, err = uuid.Parse(user); err != nil {
			return uuid.Nil, "", fmt.Errorf("user %q: %w", user, err)
		}
	}
	token, err := auth.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience).Issue(userID, ttl)
	if err != nil {
		return uuid.Nil, "", err
	}
	return userID, token, nil
}
