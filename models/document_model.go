package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusRequired  = "required"
	DocumentStatusSubmitted = "submitted"
	DocumentStatusApproved  = "approved"
	DocumentStatusRejected  = "rejected"
)

// ContractDocument is one entry of a lease contract's document checklist.
type ContractDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ContractID uuid.UUID `gorm:"not null;index" json:"-"`
	Kind       string    `gorm:"size:50;not null" json:"kind"`
	Status     string    `gorm:"size:20;not null;default:'required'" json:"status"`

	FileURL    *string `gorm:"size:500" json:"file_url"`
	ReviewNote *string `gorm:"type:text" json:"review_note"`

	SubmittedAt *time.Time `json:"submitted_at"`
	ReviewedAt  *time.Time `json:"reviewed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
