package models

import (
	"strings"
	"sync"
	"testing"

	"gorm.io/gorm/schema"
)

// The partial unique index is the last line of defense against double-booked
// slots, so its declaration has to survive gorm's index-tag parsing intact:
// unique, spanning property/date/time, with a predicate covering both active
// statuses. The tag parser splits index settings on commas, which silently
// truncates comma-bearing predicates.
func TestActiveVisitSlotIndexDefinition(t *testing.T) {
	s, err := schema.Parse(&VisitBooking{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}

	var index *schema.Index
	for _, candidate := range s.ParseIndexes() {
		if candidate.Name == "udx_active_visit_slot" {
			index = candidate
		}
	}
	if index == nil {
		t.Fatal("udx_active_visit_slot index is not defined")
	}

	if index.Class != "UNIQUE" {
		t.Errorf("index class = %q, want UNIQUE", index.Class)
	}
	if len(index.Fields) != 3 {
		t.Errorf("index spans %d fields, want 3 (property, date, time)", len(index.Fields))
	}

	for _, status := range []string{VisitStatusPending, VisitStatusConfirmed} {
		if !strings.Contains(index.Where, status) {
			t.Errorf("index predicate %q does not cover status %q", index.Where, status)
		}
	}
	if strings.Count(index.Where, "(") != strings.Count(index.Where, ")") {
		t.Errorf("index predicate %q has unbalanced parentheses", index.Where)
	}
}
