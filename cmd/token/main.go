// Command token mints an access token for operators and local testing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/user"
	"github.com/cmlabs-hris/payroll-engine/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	userID := flag.String("user", "operator", "user id placed in the token")
	role := flag.String("role", string(user.RoleOwner), "role: owner, manager or employee")
	admin := flag.Bool("admin", false, "grant the is_admin claim")
	exp := flag.String("exp", getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"), "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET_KEY is required")
		os.Exit(1)
	}

	svc := jwt.NewJWTService(secret, *exp)
	token, expiresAt, err := svc.GenerateAccessToken(user.Principal{
		UserID:  *userID,
		Role:    user.Role(*role),
		IsAdmin: *admin,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires at", expiresAt)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
