package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/notifications"
	"github.com/rentnest/rentnest/services"
)

// SendVisitReminders emails both parties of confirmed visits starting in
// roughly one hour. The 5-minute window matches the cron cadence so each
// visit is picked up once.
func SendVisitReminders() {
	log.Println("Running job: SendVisitReminders...")

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var confirmed []models.VisitBooking
	err := database.DB.
		Preload("Tenant").
		Preload("Property.Owner").
		Where("status = ? AND visit_date = ?", models.VisitStatusConfirmed, today).
		Find(&confirmed).Error
	if err != nil {
		log.Printf("Error checking for upcoming visits: %v", err)
		return
	}

	lowerBound := now.Add(60 * time.Minute)
	upperBound := now.Add(65 * time.Minute)

	for _, visit := range confirmed {
		start, err := services.ParseClock(visit.VisitTime)
		if err != nil {
			continue
		}
		startsAt := visit.VisitDate.Add(time.Duration(start) * time.Minute)
		if startsAt.Before(lowerBound) || startsAt.After(upperBound) {
			continue
		}

		log.Printf("Sending reminder for visit ID: %s", visit.ID)

		emailSubject := "Reminder: Your Property Visit Starts in 1 Hour!"
		emailBody := fmt.Sprintf(
			"<h1>Visit Reminder</h1><p>Hi there,</p><p>This is a friendly reminder that the visit of <b>%s</b> is scheduled for %s at %s.</p><p><b>Address:</b> %s, %s</p>",
			visit.Property.Title,
			visit.VisitDate.Format("2006-01-02"),
			visit.VisitTime,
			visit.Property.Address,
			visit.Property.City,
		)

		go notifications.SendEmail(visit.Tenant.FullName, visit.Tenant.Email, emailSubject, emailBody)
		go notifications.SendEmail(visit.Property.Owner.FullName, visit.Property.Owner.Email, emailSubject, emailBody)
	}
}
