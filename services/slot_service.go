package services

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rentnest/rentnest/models"
)

var ErrInvalidDuration = errors.New("visit duration must be a positive number of minutes")

// VisitSlot is one bookable unit of exactly the property's visit duration.
// Derived on every availability query, never persisted.
type VisitSlot struct {
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

type clockWindow struct {
	start int // minutes since midnight
	end   int
}

// ParseClock converts an "HH:MM" string into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hours*60 + minutes, nil
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// SameCalendarDay reports whether two timestamps fall on the same date,
// ignoring the time-of-day component.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// GenerateCandidateSlots builds the raw bookable grid for one property and
// date from its weekly rules and date overrides, before any conflict check.
//
// A blocked override is absolute: it empties the whole date no matter what
// the weekly rules say. Otherwise the open windows are the weekday's rules
// plus every extra override for that exact date. Each window is walked in
// steps of durationMinutes; a trailing remainder shorter than the duration is
// dropped. Overlapping windows produce a union of coverage, so exact
// duplicate slots are collapsed.
func GenerateCandidateSlots(rules []models.WeeklyAvailabilityRule, overrides []models.DateOverride, date time.Time, durationMinutes int) ([]VisitSlot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	windows := make([]clockWindow, 0, len(rules))

	for _, override := range overrides {
		if !SameCalendarDay(override.Date, date) {
			continue
		}
		if override.Kind == models.OverrideKindBlocked {
			return []VisitSlot{}, nil
		}
		if override.Kind == models.OverrideKindExtra && override.StartTime != nil && override.EndTime != nil {
			start, err := ParseClock(*override.StartTime)
			if err != nil {
				return nil, err
			}
			end, err := ParseClock(*override.EndTime)
			if err != nil {
				return nil, err
			}
			windows = append(windows, clockWindow{start: start, end: end})
		}
	}

	weekday := int(date.Weekday())
	for _, rule := range rules {
		if rule.DayOfWeek != weekday {
			continue
		}
		start, err := ParseClock(rule.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := ParseClock(rule.EndTime)
		if err != nil {
			return nil, err
		}
		windows = append(windows, clockWindow{start: start, end: end})
	}

	slots := make([]VisitSlot, 0)
	seen := make(map[int]bool)
	for _, window := range windows {
		for start := window.start; start+durationMinutes <= window.end; start += durationMinutes {
			if seen[start] {
				continue
			}
			seen[start] = true
			slots = append(slots, VisitSlot{
				Date:      date,
				StartTime: FormatClock(start),
				EndTime:   FormatClock(start + durationMinutes),
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].StartTime < slots[j].StartTime
	})

	return slots, nil
}

// ConflictsWithActiveBooking reports whether the half-open minute interval
// [startMinutes, endMinutes) on date collides with any pending or confirmed
// booking in the list. This is the single overlap test for both the
// availability query and the commit-time re-check, so the two sides can never
// disagree on what counts as a conflict. Back-to-back intervals (one ending
// exactly where the other starts) do not conflict; cancelled and completed
// bookings never block.
func ConflictsWithActiveBooking(date time.Time, startMinutes, endMinutes int, bookings []models.VisitBooking) bool {
	for _, booking := range bookings {
		if booking.Status != models.VisitStatusPending && booking.Status != models.VisitStatusConfirmed {
			continue
		}
		if !SameCalendarDay(booking.VisitDate, date) {
			continue
		}
		bookingStart, err := ParseClock(booking.VisitTime)
		if err != nil {
			continue
		}
		bookingEnd := bookingStart + booking.DurationMinutes
		if startMinutes < bookingEnd && bookingStart < endMinutes {
			return true
		}
	}
	return false
}

// FilterAvailableSlots drops every candidate slot that overlaps an active
// (pending or confirmed) booking on the same date.
func FilterAvailableSlots(slots []VisitSlot, bookings []models.VisitBooking) []VisitSlot {
	available := make([]VisitSlot, 0, len(slots))

	for _, slot := range slots {
		slotStart, err := ParseClock(slot.StartTime)
		if err != nil {
			continue
		}
		slotEnd, err := ParseClock(slot.EndTime)
		if err != nil {
			continue
		}
		if !ConflictsWithActiveBooking(slot.Date, slotStart, slotEnd, bookings) {
			available = append(available, slot)
		}
	}

	return available
}
