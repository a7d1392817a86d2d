package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gotcha-app/backend/internal/auth"
	"github.com/joho/godotenv"
)

// Mints a development identity token so the CLI and curl can exercise
// authenticated endpoints against a local server.
func main() {
	did := flag.String("did", "", "Subject DID (default did:dev:<username>)")
	username := flag.String("username", "devuser", "Username claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set; the token must match the server's secret")
	}

	subject := *did
	if subject == "" {
		subject = "did:dev:" + *username
	}

	token, err := auth.NewService([]byte(secret)).GenerateToken(subject, *username, *ttl)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}

	fmt.Println(token)
	fmt.Fprintf(os.Stderr, "\nexport GOTCHA_TOKEN=%s\n", token)
}
