package jobs

import (
	"log"

	"github.com/rentnest/rentnest/services"
)

// SweepElapsedVisits transitions visits whose interval has passed: confirmed
// ones become completed, unconfirmed pending ones are cancelled. Idempotent,
// so overlapping runs are harmless.
func SweepElapsedVisits() {
	log.Println("Running job: SweepElapsedVisits...")

	swept, err := services.SweepElapsedVisits()
	if err != nil {
		log.Printf("Error sweeping elapsed visits: %v", err)
		return
	}

	if swept == 0 {
		log.Println("No elapsed visits found.")
		return
	}

	log.Printf("Swept %d elapsed visit(s).", swept)
}
