package models

import (
	"time"

	"github.com/google/uuid"
)

type Property struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerID uuid.UUID `gorm:"not null;index" json:"owner_id"`

	Title       string  `gorm:"size:255;not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Address     string  `gorm:"size:255;not null" json:"address"`
	City        string  `gorm:"size:100;not null;index" json:"city"`
	PostalCode  string  `gorm:"size:20" json:"postal_code"`
	MonthlyRent float64 `gorm:"type:numeric(10,2);not null" json:"monthly_rent"`
	Deposit     float64 `gorm:"type:numeric(10,2)" json:"deposit"`
	Bedrooms    int     `gorm:"not null;default:1" json:"bedrooms"`
	SurfaceM2   float64 `gorm:"type:numeric(7,2)" json:"surface_m2"`
	Furnished   bool    `gorm:"default:false" json:"furnished"`

	// Length of one bookable visit; slots are cut in steps of this value.
	VisitDurationMinutes int `gorm:"not null;default:30" json:"visit_duration_minutes"`

	Published bool `gorm:"default:false" json:"published"`

	Owner  User            `gorm:"foreignkey:OwnerID" json:"owner,omitempty"`
	Photos []PropertyPhoto `json:"photos,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PropertyPhoto struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PropertyID uuid.UUID `gorm:"not null;index" json:"-"`
	URL        string    `gorm:"size:500;not null" json:"url"`
	Position   int       `gorm:"not null;default:0" json:"position"`

	CreatedAt time.Time `json:"created_at"`
}
