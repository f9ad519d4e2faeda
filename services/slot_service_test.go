package services

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rentnest/rentnest/models"
)

// 2025-06-02 is a Monday, 2025-06-01 a Sunday.
var monday = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
var sunday = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func startTimes(slots []VisitSlot) []string {
	times := make([]string, 0, len(slots))
	for _, slot := range slots {
		times = append(times, slot.StartTime)
	}
	return times
}

func mondayRule(start, end string) models.WeeklyAvailabilityRule {
	return models.WeeklyAvailabilityRule{DayOfWeek: 1, StartTime: start, EndTime: end}
}

func booking(date time.Time, visitTime string, duration int, status string) models.VisitBooking {
	return models.VisitBooking{
		PropertyID:      uuid.New(),
		VisitDate:       date,
		VisitTime:       visitTime,
		DurationMinutes: duration,
		Status:          status,
	}
}

func TestGenerateCandidateSlotsWeeklyRule(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}

	slots, err := GenerateCandidateSlots(rules, nil, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	if got := startTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}

	for _, slot := range slots {
		if slot.EndTime > "12:00" {
			t.Errorf("slot %s ends at %s, past the window end", slot.StartTime, slot.EndTime)
		}
	}
}

func TestGenerateCandidateSlotsNoRulesForWeekday(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}

	slots, err := GenerateCandidateSlots(rules, nil, sunday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no slots on a day without rules, got %v", startTimes(slots))
	}
}

func TestGenerateCandidateSlotsBlockedOverride(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	overrides := []models.DateOverride{
		{Date: monday, Kind: models.OverrideKindBlocked},
	}

	slots, err := GenerateCandidateSlots(rules, overrides, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("blocked override must empty the date, got %v", startTimes(slots))
	}
}

func TestGenerateCandidateSlotsBlockedOtherDateIgnored(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	overrides := []models.DateOverride{
		{Date: monday.AddDate(0, 0, 7), Kind: models.OverrideKindBlocked},
	}

	slots, err := GenerateCandidateSlots(rules, overrides, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 6 {
		t.Fatalf("override for another date must not apply, got %v", startTimes(slots))
	}
}

func TestGenerateCandidateSlotsExtraOverride(t *testing.T) {
	start, end := "14:00", "15:00"
	overrides := []models.DateOverride{
		{Date: sunday, Kind: models.OverrideKindExtra, StartTime: &start, EndTime: &end},
	}

	slots, err := GenerateCandidateSlots(nil, overrides, sunday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"14:00", "14:30"}
	if got := startTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestGenerateCandidateSlotsDropsPartialTrailingSlot(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "10:45")}

	slots, err := GenerateCandidateSlots(rules, nil, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "09:30", "10:00"}
	if got := startTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("trailing 15 minutes must be dropped, got %v, want %v", got, want)
	}
}

func TestGenerateCandidateSlotsOverlappingWindowsDeduplicated(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{
		mondayRule("09:00", "11:00"),
		mondayRule("10:00", "12:00"),
	}

	slots, err := GenerateCandidateSlots(rules, nil, monday, 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"09:00", "10:00", "11:00"}
	if got := startTimes(slots); !reflect.DeepEqual(got, want) {
		t.Fatalf("overlapping windows are a union, got %v, want %v", got, want)
	}
}

func TestGenerateCandidateSlotsSlotCountPerWindow(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		duration int
		want     int
	}{
		{"exact fit", "09:00", "10:00", 30, 2},
		{"one leftover minute", "09:00", "10:01", 30, 2},
		{"window shorter than duration", "09:00", "09:20", 30, 0},
		{"single slot", "09:00", "09:30", 30, 1},
		{"odd duration", "09:00", "12:00", 45, 4},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rules := []models.WeeklyAvailabilityRule{mondayRule(tc.start, tc.end)}
			slots, err := GenerateCandidateSlots(rules, nil, monday, tc.duration)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(slots) != tc.want {
				t.Fatalf("window %s-%s duration %d: got %d slots, want %d",
					tc.start, tc.end, tc.duration, len(slots), tc.want)
			}
		})
	}
}

func TestGenerateCandidateSlotsInvalidDuration(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}

	for _, duration := range []int{0, -30} {
		_, err := GenerateCandidateSlots(rules, nil, monday, duration)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("duration %d: expected ErrInvalidDuration, got %v", duration, err)
		}
	}
}

func TestGenerateCandidateSlotsIdempotent(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{
		mondayRule("09:00", "12:00"),
		mondayRule("14:00", "16:00"),
	}

	first, err := GenerateCandidateSlots(rules, nil, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := GenerateCandidateSlots(rules, nil, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("two identical queries must yield identical slot lists")
	}
}

func TestFilterAvailableSlotsRemovesBookedSlot(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	slots, _ := GenerateCandidateSlots(rules, nil, monday, 30)

	bookings := []models.VisitBooking{booking(monday, "10:00", 30, models.VisitStatusPending)}
	available := FilterAvailableSlots(slots, bookings)

	want := []string{"09:00", "09:30", "10:30", "11:00", "11:30"}
	if got := startTimes(available); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterAvailableSlotsStatusHandling(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	slots, _ := GenerateCandidateSlots(rules, nil, monday, 30)

	cases := []struct {
		status string
		blocks bool
	}{
		{models.VisitStatusPending, true},
		{models.VisitStatusConfirmed, true},
		{models.VisitStatusCancelled, false},
		{models.VisitStatusCompleted, false},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			bookings := []models.VisitBooking{booking(monday, "10:00", 30, tc.status)}
			available := FilterAvailableSlots(slots, bookings)

			found := false
			for _, slot := range available {
				if slot.StartTime == "10:00" {
					found = true
				}
			}
			if tc.blocks && found {
				t.Fatalf("%s booking must block its slot", tc.status)
			}
			if !tc.blocks && !found {
				t.Fatalf("%s booking must free its slot", tc.status)
			}
		})
	}
}

func TestFilterAvailableSlotsBackToBackNotConflicting(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	slots, _ := GenerateCandidateSlots(rules, nil, monday, 30)

	// Booking covers [10:00, 10:30); the 10:30 slot starts exactly at its end.
	bookings := []models.VisitBooking{booking(monday, "10:00", 30, models.VisitStatusConfirmed)}
	available := FilterAvailableSlots(slots, bookings)

	for _, slot := range available {
		if slot.StartTime == "10:00" {
			t.Fatal("the booked slot itself must be filtered out")
		}
	}
	found := false
	for _, slot := range available {
		if slot.StartTime == "10:30" {
			found = true
		}
	}
	if !found {
		t.Fatal("a slot starting exactly at a booking's end must stay available")
	}
}

func TestFilterAvailableSlotsPartialOverlapBlocks(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	slots, _ := GenerateCandidateSlots(rules, nil, monday, 30)

	// A 45-minute booking at 10:00 straddles the 10:30 slot.
	bookings := []models.VisitBooking{booking(monday, "10:00", 45, models.VisitStatusPending)}
	available := FilterAvailableSlots(slots, bookings)

	want := []string{"09:00", "09:30", "11:00", "11:30"}
	if got := startTimes(available); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFilterAvailableSlotsOtherDateIgnored(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	slots, _ := GenerateCandidateSlots(rules, nil, monday, 30)

	bookings := []models.VisitBooking{booking(monday.AddDate(0, 0, 7), "10:00", 30, models.VisitStatusPending)}
	available := FilterAvailableSlots(slots, bookings)

	if len(available) != len(slots) {
		t.Fatalf("a booking on another date must not block slots, got %v", startTimes(available))
	}
}

func TestConflictsWithActiveBooking(t *testing.T) {
	// One confirmed booking covering [10:00, 10:30).
	bookings := []models.VisitBooking{booking(monday, "10:00", 30, models.VisitStatusConfirmed)}

	cases := []struct {
		name  string
		start int
		end   int
		want  bool
	}{
		{"identical interval", 600, 630, true},
		{"straddles booking end", 615, 645, true},
		{"straddles booking start", 585, 615, true},
		{"contains booking", 570, 660, true},
		{"inside booking", 610, 620, true},
		{"ends at booking start", 570, 600, false},
		{"starts at booking end", 630, 660, false},
		{"disjoint before", 480, 510, false},
		{"disjoint after", 700, 730, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ConflictsWithActiveBooking(monday, tc.start, tc.end, bookings)
			if got != tc.want {
				t.Fatalf("[%d, %d) conflict = %v, want %v", tc.start, tc.end, got, tc.want)
			}
		})
	}

	if ConflictsWithActiveBooking(monday.AddDate(0, 0, 1), 600, 630, bookings) {
		t.Fatal("a booking on another date must not conflict")
	}
	cancelled := []models.VisitBooking{booking(monday, "10:00", 30, models.VisitStatusCancelled)}
	if ConflictsWithActiveBooking(monday, 600, 630, cancelled) {
		t.Fatal("a cancelled booking must not conflict")
	}
}

// Every slot the availability query offers must pass the same overlap check
// the commit path re-runs against the ledger, and the slot a booking already
// holds must fail it, so of two requesters racing for one slot exactly one
// can get past the re-check.
func TestOfferedSlotsPassCommitRecheck(t *testing.T) {
	rules := []models.WeeklyAvailabilityRule{mondayRule("09:00", "12:00")}
	bookings := []models.VisitBooking{booking(monday, "10:00", 30, models.VisitStatusPending)}

	candidates, err := GenerateCandidateSlots(rules, nil, monday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	available := FilterAvailableSlots(candidates, bookings)
	if len(available) == 0 {
		t.Fatal("expected open slots around the booking")
	}

	for _, slot := range available {
		start, err := ParseClock(slot.StartTime)
		if err != nil {
			t.Fatalf("bad slot start %q: %v", slot.StartTime, err)
		}
		end, err := ParseClock(slot.EndTime)
		if err != nil {
			t.Fatalf("bad slot end %q: %v", slot.EndTime, err)
		}
		if ConflictsWithActiveBooking(slot.Date, start, end, bookings) {
			t.Errorf("offered slot %s would be rejected at commit time", slot.StartTime)
		}
	}

	if !ConflictsWithActiveBooking(monday, 600, 630, bookings) {
		t.Fatal("the already-taken slot must be rejected at commit time")
	}
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"9h30", 0, true},
		{"", 0, true},
		{"09:30:00", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseClock(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseClock(%q): expected error", tc.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseClock(%q): unexpected error %v", tc.input, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseClock(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := map[int]string{0: "00:00", 570: "09:30", 1439: "23:59"}
	for minutes, want := range cases {
		if got := FormatClock(minutes); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", minutes, got, want)
		}
	}
}
