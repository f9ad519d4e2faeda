package services

import (
	"testing"
	"time"

	"github.com/rentnest/rentnest/models"
)

func TestCanTransitionVisit(t *testing.T) {
	cases := []struct {
		from    string
		to      string
		allowed bool
	}{
		{models.VisitStatusPending, models.VisitStatusConfirmed, true},
		{models.VisitStatusPending, models.VisitStatusCancelled, true},
		{models.VisitStatusPending, models.VisitStatusCompleted, false},
		{models.VisitStatusConfirmed, models.VisitStatusCancelled, true},
		{models.VisitStatusConfirmed, models.VisitStatusCompleted, true},
		{models.VisitStatusConfirmed, models.VisitStatusPending, false},
		{models.VisitStatusCancelled, models.VisitStatusPending, false},
		{models.VisitStatusCancelled, models.VisitStatusConfirmed, false},
		{models.VisitStatusCancelled, models.VisitStatusCompleted, false},
		{models.VisitStatusCompleted, models.VisitStatusCancelled, false},
		{models.VisitStatusCompleted, models.VisitStatusConfirmed, false},
	}

	for _, tc := range cases {
		if got := CanTransitionVisit(tc.from, tc.to); got != tc.allowed {
			t.Errorf("CanTransitionVisit(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestVisitEndsAt(t *testing.T) {
	visit := &models.VisitBooking{
		VisitDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		VisitTime:       "10:00",
		DurationMinutes: 30,
	}

	want := time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC)
	if got := VisitEndsAt(visit); !got.Equal(want) {
		t.Fatalf("VisitEndsAt = %v, want %v", got, want)
	}
}

func TestVisitLockKeyGranularity(t *testing.T) {
	visit := &models.VisitBooking{
		VisitDate:       time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		VisitTime:       "10:00",
		DurationMinutes: 30,
	}
	otherDate := visit.VisitDate.AddDate(0, 0, 1)

	same := visitLockKey(visit.PropertyID, visit.VisitDate)
	if same != visitLockKey(visit.PropertyID, visit.VisitDate) {
		t.Fatal("lock key must be stable for the same property and date")
	}
	if same == visitLockKey(visit.PropertyID, otherDate) {
		t.Fatal("different dates must map to different lock keys")
	}
}
