// Package config reads runtime settings from the process environment,
// seeded from a local .env file when one is present.
package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config returns the value of an environment variable. Keys the app relies
// on: DATABASE_URL, JWT_SECRET, BREVO_API_KEY, EMAIL_SENDER,
// EMAIL_SENDER_NAME, CLOUDINARY_URL, and the ADMIN_* seed credentials.
func Config(key string) string {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: .env file not found, reading from system environment variables")
	}

	return os.Getenv(key)
}
