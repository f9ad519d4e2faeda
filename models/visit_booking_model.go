package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	VisitStatusPending   = "pending"
	VisitStatusConfirmed = "confirmed"
	VisitStatusCancelled = "cancelled"
	VisitStatusCompleted = "completed"
)

// VisitBooking is one tenant's hold on a visit slot. The partial unique index
// is the backstop for the commit protocol: two active bookings can never share
// the exact same start time on a property/date even if a caller bypasses the
// advisory lock.
type VisitBooking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PropertyID uuid.UUID `gorm:"not null;index:idx_visit_property_date,priority:1;uniqueIndex:udx_active_visit_slot,priority:1,where:status = 'pending' OR status = 'confirmed'" json:"property_id"`
	TenantID   uuid.UUID `gorm:"not null;index" json:"tenant_id"`

	VisitDate       time.Time `gorm:"type:date;not null;index:idx_visit_property_date,priority:2;uniqueIndex:udx_active_visit_slot,priority:2" json:"visit_date"`
	VisitTime       string    `gorm:"size:5;not null;uniqueIndex:udx_active_visit_slot,priority:3" json:"visit_time"`
	DurationMinutes int       `gorm:"not null" json:"duration_minutes"`

	Status string `gorm:"size:20;not null;default:'pending'" json:"status"`

	TenantNotes        *string `gorm:"type:text" json:"tenant_notes"`
	OwnerNotes         *string `gorm:"type:text" json:"owner_notes"`
	CancellationReason *string `gorm:"type:text" json:"cancellation_reason"`

	ConfirmedAt *time.Time `json:"confirmed_at"`
	CancelledAt *time.Time `json:"cancelled_at"`

	Property Property `gorm:"foreignkey:PropertyID" json:"property,omitempty"`
	Tenant   User     `gorm:"foreignkey:TenantID" json:"tenant,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
