// Command token mints a bearer token for an API client.
//
//	go run ./cmd/token -client batch-worker
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	jwtmw "label_detection/internal/platform/jwt"
)

func main() {
	client := flag.String("client", "", "client id stored in the token subject")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	token, err := jwtmw.NewGenerator(secret, jwtmw.ExpirationFromEnv()).GenerateToken(*client)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
