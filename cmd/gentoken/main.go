// cmd/gentoken/main.go mints a bearer token signed with JWT_SECRET.
// Usage: go run ./cmd/gentoken -sub ops@plant -role operator
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/stain603/industrial-inventory-manager/internal/config"
	"github.com/stain603/industrial-inventory-manager/internal/middleware"
)

func main() {
	sub := flag.String("sub", "admin", "token subject")
	role := flag.String("role", middleware.RoleAdmin, "admin | operator")
	hours := flag.Int("hours", 0, "validity in hours (default JWT_EXPIRATION_HOURS)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty: the API accepts writes without a token")
	}
	if *role != middleware.RoleAdmin && *role != middleware.RoleOperator {
		log.Fatalf("unknown role %q", *role)
	}

	ttl := time.Duration(cfg.JWTExpirationHours) * time.Hour
	if *hours > 0 {
		ttl = time.Duration(*hours) * time.Hour
	}
	token, err := middleware.IssueToken(cfg.JWTSecret, *sub, *role, ttl)
	if err != nil {
		log.Fatalf("sign: %v", err)
	}
	fmt.Println(token)
}
