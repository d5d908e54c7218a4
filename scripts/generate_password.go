// scripts/generate_password.go
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/your-org/bookstore-backend/internal/pkg/auth"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run scripts/generate_password.go <password>")
	}

	password := os.Args[1]
	cost := 12
	if raw := os.Getenv("BCRYPT_COST"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			log.Fatalf("Invalid BCRYPT_COST %q: %v", raw, err)
		}
		cost = parsed
	}

	passwords := auth.NewPasswordManager(cost)

	hash, err := passwords.HashPassword(password)
	if err != nil {
		log.Fatal("Error generating hash:", err)
	}

	if err := passwords.VerifyPassword(password, hash); err != nil {
		log.Fatal("Hash verification failed:", err)
	}

	fmt.Println("✅ Hash verified successfully! Add this line to .env:")
	fmt.Printf("DEMO_PASSWORD_HASH='%s'\n", hash)
}
