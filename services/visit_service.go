package services

import (
	"errors"
	"fmt"
	"hash/fnv"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rentnest/rentnest/database"
	"github.com/rentnest/rentnest/models"
	"github.com/rentnest/rentnest/notifications"
	"github.com/rentnest/rentnest/websocket"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidRequest    = errors.New("invalid visit request")
	ErrSlotUnavailable   = errors.New("the requested slot is no longer available")
	ErrInvalidTransition = errors.New("visit status transition not permitted")
	ErrVisitNotFound     = errors.New("visit not found")
)

// CanTransitionVisit is the single source of truth for the visit lifecycle.
// Cancelled and completed are terminal.
func CanTransitionVisit(from, to string) bool {
	switch from {
	case models.VisitStatusPending:
		return to == models.VisitStatusConfirmed || to == models.VisitStatusCancelled
	case models.VisitStatusConfirmed:
		return to == models.VisitStatusCancelled || to == models.VisitStatusCompleted
	default:
		return false
	}
}

// VisitEndsAt returns the instant the visit's half-open interval closes.
func VisitEndsAt(visit *models.VisitBooking) time.Time {
	start, err := ParseClock(visit.VisitTime)
	if err != nil {
		return visit.VisitDate
	}
	return visit.VisitDate.Add(time.Duration(start+visit.DurationMinutes) * time.Minute)
}

// visitLockKey derives the advisory-lock key for one property/date pair, so
// commits for disjoint properties or dates never block each other.
func visitLockKey(propertyID uuid.UUID, visitDate time.Time) int64 {
	h := fnv.New64a()
	h.Write(propertyID[:])
	h.Write([]byte(visitDate.Format("2006-01-02")))
	return int64(h.Sum64())
}

// RequestVisit validates the requested slot against the property's current
// schedule, then re-checks for overlaps and inserts inside a single
// transaction holding a per-property-per-date advisory lock. A slot that was
// listed as free but got taken in the meantime surfaces as ErrSlotUnavailable;
// the caller should refresh the slot list.
func RequestVisit(propertyID, tenantID uuid.UUID, visitDate time.Time, visitTime string, durationMinutes int, tenantNotes *string) (*models.VisitBooking, error) {
	var property models.Property
	if err := database.DB.First(&property, "id = ?", propertyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRequest
		}
		return nil, err
	}
	if property.OwnerID == tenantID {
		return nil, ErrInvalidRequest
	}

	if durationMinutes == 0 {
		durationMinutes = property.VisitDurationMinutes
	}
	if durationMinutes <= 0 {
		return nil, ErrInvalidRequest
	}
	if _, err := ParseClock(visitTime); err != nil {
		return nil, ErrInvalidRequest
	}

	visitDate = time.Date(visitDate.Year(), visitDate.Month(), visitDate.Day(), 0, 0, 0, 0, time.UTC)

	// The requested time must still fall on a currently valid slot: the date
	// may have been blocked or the schedule replaced since the client fetched
	// the list.
	var rules []models.WeeklyAvailabilityRule
	if err := database.DB.Where("property_id = ?", propertyID).Find(&rules).Error; err != nil {
		return nil, err
	}
	var overrides []models.DateOverride
	if err := database.DB.Where("property_id = ? AND date = ?", propertyID, visitDate).Find(&overrides).Error; err != nil {
		return nil, err
	}

	candidates, err := GenerateCandidateSlots(rules, overrides, visitDate, durationMinutes)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	valid := false
	for _, slot := range candidates {
		if slot.StartTime == visitTime {
			valid = true
			break
		}
	}
	if !valid {
		return nil, ErrInvalidRequest
	}

	booking, err := commitVisit(&property, tenantID, visitDate, visitTime, durationMinutes, tenantNotes)
	if errors.Is(err, ErrSlotUnavailable) {
		return nil, err
	}
	if err != nil {
		// Transient persistence failure: retry once with a fresh overlap
		// re-check. A second failure reads as a lost race to the caller.
		log.Printf("visit commit failed, retrying once: %v", err)
		booking, err = commitVisit(&property, tenantID, visitDate, visitTime, durationMinutes, tenantNotes)
		if err != nil {
			return nil, ErrSlotUnavailable
		}
	}

	notifyVisitStatus(booking, "visit_requested")
	return booking, nil
}

// commitVisit is the atomic re-check-and-insert. The advisory lock serializes
// concurrent requests for the same property and date; the row lock covers the
// overlap re-check against bookings committed microseconds earlier.
func commitVisit(property *models.Property, tenantID uuid.UUID, visitDate time.Time, visitTime string, durationMinutes int, tenantNotes *string) (*models.VisitBooking, error) {
	requestStart, err := ParseClock(visitTime)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	requestEnd := requestStart + durationMinutes

	var booking models.VisitBooking
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", visitLockKey(property.ID, visitDate)).Error; err != nil {
			return err
		}

		var active []models.VisitBooking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("property_id = ? AND visit_date = ? AND status IN ?",
				property.ID, visitDate, []string{models.VisitStatusPending, models.VisitStatusConfirmed}).
			Find(&active).Error; err != nil {
			return err
		}

		if ConflictsWithActiveBooking(visitDate, requestStart, requestEnd, active) {
			return ErrSlotUnavailable
		}

		booking = models.VisitBooking{
			PropertyID:      property.ID,
			TenantID:        tenantID,
			VisitDate:       visitDate,
			VisitTime:       visitTime,
			DurationMinutes: durationMinutes,
			Status:          models.VisitStatusPending,
			TenantNotes:     tenantNotes,
		}
		return tx.Create(&booking).Error
	})
	if err != nil {
		return nil, err
	}

	if err := database.DB.Preload("Property.Owner").Preload("Tenant").First(&booking, "id = ?", booking.ID).Error; err != nil {
		log.Printf("failed to reload visit %s after commit: %v", booking.ID, err)
	}
	return &booking, nil
}

// ConfirmVisit moves a pending visit to confirmed. Owner-only; the handler
// enforces ownership. Confirming does not change slot occupancy.
func ConfirmVisit(visitID uuid.UUID, ownerNotes *string) (*models.VisitBooking, error) {
	return transitionVisit(visitID, models.VisitStatusConfirmed, func(visit *models.VisitBooking) error {
		now := time.Now()
		visit.ConfirmedAt = &now
		if ownerNotes != nil {
			visit.OwnerNotes = ownerNotes
		}
		return nil
	}, "visit_confirmed")
}

// CancelVisit cancels a pending or confirmed visit and frees its slot for
// future availability queries. Allowed to either party until the visit's own
// interval has elapsed; the reason is validated upstream.
func CancelVisit(visitID uuid.UUID, reason string) (*models.VisitBooking, error) {
	return transitionVisit(visitID, models.VisitStatusCancelled, func(visit *models.VisitBooking) error {
		if time.Now().After(VisitEndsAt(visit)) {
			return ErrInvalidTransition
		}
		now := time.Now()
		visit.CancelledAt = &now
		visit.CancellationReason = &reason
		return nil
	}, "visit_cancelled")
}

// CompleteVisit marks a confirmed visit as completed once its date has
// passed. Used by the owner directly and by the periodic sweep.
func CompleteVisit(visitID uuid.UUID) (*models.VisitBooking, error) {
	return transitionVisit(visitID, models.VisitStatusCompleted, func(visit *models.VisitBooking) error {
		if VisitEndsAt(visit).After(time.Now()) {
			return ErrInvalidTransition
		}
		return nil
	}, "visit_completed")
}

// transitionVisit funnels every status change through one path so the status
// event and notification fire exactly once per transition.
func transitionVisit(visitID uuid.UUID, to string, mutate func(*models.VisitBooking) error, event string) (*models.VisitBooking, error) {
	var visit models.VisitBooking
	if err := database.DB.Preload("Property.Owner").Preload("Tenant").First(&visit, "id = ?", visitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, err
	}

	if !CanTransitionVisit(visit.Status, to) {
		return nil, ErrInvalidTransition
	}
	if err := mutate(&visit); err != nil {
		return nil, err
	}
	visit.Status = to

	if err := database.DB.Save(&visit).Error; err != nil {
		return nil, err
	}

	notifyVisitStatus(&visit, event)
	return &visit, nil
}

func notifyVisitStatus(visit *models.VisitBooking, event string) {
	websocket.VisitEvents <- &websocket.VisitStatusEvent{
		Type:       "visit_status",
		Event:      event,
		VisitID:    visit.ID.String(),
		PropertyID: visit.PropertyID.String(),
		Status:     visit.Status,
		VisitDate:  visit.VisitDate.Format("2006-01-02"),
		VisitTime:  visit.VisitTime,
		Recipients: []uuid.UUID{visit.TenantID, visit.Property.OwnerID},
	}

	if visit.Tenant.Email == "" || visit.Property.Owner.Email == "" {
		return
	}
	subject := fmt.Sprintf("Visit %s at %s", visit.Status, visit.Property.Title)
	body := fmt.Sprintf("<h1>Visit %s</h1><p>Visit on %s at %s is now <b>%s</b>.</p>",
		visit.Status, visit.VisitDate.Format("2006-01-02"), visit.VisitTime, visit.Status)
	go notifications.SendEmail(visit.Tenant.FullName, visit.Tenant.Email, subject, body)
	go notifications.SendEmail(visit.Property.Owner.FullName, visit.Property.Owner.Email, subject, body)
}

// SweepElapsedVisits completes confirmed visits whose interval has passed and
// cancels pending ones the owner never acted on. Idempotent; safe to run
// concurrently with itself since every row funnels through transitionVisit.
func SweepElapsedVisits() (int, error) {
	cutoff := time.Now()

	var elapsed []models.VisitBooking
	err := database.DB.
		Where("status IN ? AND visit_date < ?",
			[]string{models.VisitStatusPending, models.VisitStatusConfirmed},
			time.Date(cutoff.Year(), cutoff.Month(), cutoff.Day(), 0, 0, 0, 0, time.UTC)).
		Find(&elapsed).Error
	if err != nil {
		return 0, err
	}

	swept := 0
	for _, visit := range elapsed {
		if VisitEndsAt(&visit).After(cutoff) {
			continue
		}
		switch visit.Status {
		case models.VisitStatusConfirmed:
			if _, err := CompleteVisit(visit.ID); err != nil {
				log.Printf("sweep: failed to complete visit %s: %v", visit.ID, err)
				continue
			}
		case models.VisitStatusPending:
			if _, err := expirePendingVisit(visit.ID); err != nil {
				log.Printf("sweep: failed to expire visit %s: %v", visit.ID, err)
				continue
			}
		}
		swept++
	}
	return swept, nil
}

// expirePendingVisit is the sweep's cancellation of a pending visit whose
// date passed without owner confirmation. Bypasses the not-yet-elapsed guard
// of CancelVisit on purpose.
func expirePendingVisit(visitID uuid.UUID) (*models.VisitBooking, error) {
	return transitionVisit(visitID, models.VisitStatusCancelled, func(visit *models.VisitBooking) error {
		now := time.Now()
		reason := "visit date passed without owner confirmation"
		visit.CancelledAt = &now
		visit.CancellationReason = &reason
		return nil
	}, "visit_cancelled")
}

// VisitStatusCounts returns booking counts grouped by status, optionally
// scoped to one property or one owner's whole portfolio.
func VisitStatusCounts(propertyID, ownerID *uuid.UUID) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}

	query := database.DB.Model(&models.VisitBooking{}).Select("visit_bookings.status, count(*) as total")
	if propertyID != nil {
		query = query.Where("visit_bookings.property_id = ?", *propertyID)
	}
	if ownerID != nil {
		query = query.
			Joins("JOIN properties ON properties.id = visit_bookings.property_id").
			Where("properties.owner_id = ?", *ownerID)
	}

	var rows []row
	if err := query.Group("visit_bookings.status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{
		models.VisitStatusPending:   0,
		models.VisitStatusConfirmed: 0,
		models.VisitStatusCancelled: 0,
		models.VisitStatusCompleted: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}
	return counts, nil
}
