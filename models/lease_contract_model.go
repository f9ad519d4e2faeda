package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ContractStatusDraft      = "draft"
	ContractStatusSent       = "sent"
	ContractStatusSigned     = "signed"
	ContractStatusActive     = "active"
	ContractStatusTerminated = "terminated"
)

type LeaseContract struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Reference  string     `gorm:"size:12;not null;unique" json:"reference"`
	PropertyID uuid.UUID  `gorm:"not null;index" json:"property_id"`
	OwnerID    uuid.UUID  `gorm:"not null" json:"owner_id"`
	TenantID   uuid.UUID  `gorm:"not null;index" json:"tenant_id"`
	VisitID    *uuid.UUID `json:"visit_id"`

	MonthlyRent float64   `gorm:"type:numeric(10,2);not null" json:"monthly_rent"`
	Deposit     float64   `gorm:"type:numeric(10,2)" json:"deposit"`
	StartDate   time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null" json:"end_date"`

	Status string `gorm:"size:20;not null;default:'draft'" json:"status"`

	// Signature artifact captured upstream; the backend only records where it
	// lives and when it arrived.
	SignatureURL *string    `gorm:"size:500" json:"signature_url"`
	SignedAt     *time.Time `json:"signed_at"`
	TerminatedAt *time.Time `json:"terminated_at"`

	Property  Property           `gorm:"foreignkey:PropertyID" json:"property,omitempty"`
	Tenant    User               `gorm:"foreignkey:TenantID" json:"tenant,omitempty"`
	Owner     User               `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`
	Documents []ContractDocument `json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
