package models

import (
	"time"

	"github.com/google/uuid"
)

// WeeklyAvailabilityRule is a recurring open window for visits on a given
// weekday. DayOfWeek follows time.Weekday (0 = Sunday). Times are "HH:MM".
type WeeklyAvailabilityRule struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PropertyID uuid.UUID `gorm:"not null;index" json:"-"`
	DayOfWeek  int       `gorm:"not null" json:"day_of_week"`
	StartTime  string    `gorm:"size:5;not null" json:"start_time"`
	EndTime    string    `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}

const (
	OverrideKindBlocked = "blocked"
	OverrideKindExtra   = "extra"
)

// DateOverride is a one-off exception for a specific calendar date. A blocked
// override suppresses every window on that date; an extra override adds an
// ad-hoc window and carries its own start/end times.
type DateOverride struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	PropertyID uuid.UUID `gorm:"not null;index:idx_override_property_date" json:"-"`
	Date       time.Time `gorm:"type:date;not null;index:idx_override_property_date" json:"date"`
	Kind       string    `gorm:"size:10;not null" json:"kind"`
	StartTime  *string   `gorm:"size:5" json:"start_time"`
	EndTime    *string   `gorm:"size:5" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
}
