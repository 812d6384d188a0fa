package trip_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wayfarerhq/wayfarer/internal/trip"
)

func costActivity(start, end, cost string) trip.Activity {
	a := activity(start, end, trip.ActivitySightseeing)
	a.Cost = decimal.RequireFromString(cost)
	return a
}

func TestDayPlanTotalCost(t *testing.T) {
	dp := &trip.DayPlan{
		Activities: []trip.Activity{
			costActivity("09:00", "10:00", "20.00"),
			costActivity("11:00", "12:00", "15.50"),
		},
	}

	want := decimal.RequireFromString("35.50")
	if got := dp.TotalCost(); !got.Equal(want) {
		t.Errorf("expected day plan total %s, got %s", want, got)
	}
}

func TestDayPlanTotalCost_Empty(t *testing.T) {
	dp := &trip.DayPlan{}
	if got := dp.TotalCost(); !got.IsZero() {
		t.Errorf("expected zero total for empty day plan, got %s", got)
	}
}

func TestItineraryTotalCost(t *testing.T) {
	day := trip.DayPlan{
		Activities: []trip.Activity{
			costActivity("09:00", "10:00", "20.00"),
			costActivity("11:00", "12:00", "15.50"),
		},
	}

	it := &trip.Itinerary{DayPlans: []trip.DayPlan{day, day}}

	want := decimal.RequireFromString("71.00")
	if got := it.TotalCost(); !got.Equal(want) {
		t.Errorf("expected itinerary total %s, got %s", want, got)
	}
}

func TestTotalCost_TracksMutations(t *testing.T) {
	dp := &trip.DayPlan{
		Activities: []trip.Activity{costActivity("09:00", "10:00", "10.00")},
	}
	it := &trip.Itinerary{DayPlans: []trip.DayPlan{*dp}}

	if got := it.TotalCost(); !got.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10.00, got %s", got)
	}

	// Add an activity: the next read must reflect the new sum.
	it.DayPlans[0].Activities = append(it.DayPlans[0].Activities, costActivity("11:00", "12:00", "5.25"))
	if got := it.TotalCost(); !got.Equal(decimal.RequireFromString("15.25")) {
		t.Errorf("expected 15.25 after add, got %s", got)
	}

	// Update a cost in place.
	it.DayPlans[0].Activities[0].Cost = decimal.RequireFromString("1.00")
	if got := it.TotalCost(); !got.Equal(decimal.RequireFromString("6.25")) {
		t.Errorf("expected 6.25 after update, got %s", got)
	}

	// Remove an activity.
	it.DayPlans[0].Activities = it.DayPlans[0].Activities[:1]
	if got := it.TotalCost(); !got.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("expected 1.00 after remove, got %s", got)
	}
}

func TestActivityTypeLabel(t *testing.T) {
	name := "Wine tasting"
	tests := []struct {
		name     string
		activity trip.Activity
		want     string
	}{
		{"sightseeing", trip.Activity{Type: trip.ActivitySightseeing}, "SIGHTSEEING"},
		{"dine out", trip.Activity{Type: trip.ActivityDineOut}, "DINE_OUT"},
		{"other with name", trip.Activity{Type: trip.ActivityOther, OtherTypeName: &name}, "Wine tasting"},
		{"other without name", trip.Activity{Type: trip.ActivityOther}, "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.activity.TypeLabel(); got != tt.want {
				t.Errorf("expected label %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseActivityType(t *testing.T) {
	tests := []struct {
		raw       string
		want      trip.ActivityType
		wantKnown bool
	}{
		{"SIGHTSEEING", trip.ActivitySightseeing, true},
		{"DINE_OUT", trip.ActivityDineOut, true},
		{"OTHER", trip.ActivityOther, true},
		{"Hiking", trip.ActivityOther, false},
		{"", trip.ActivityOther, false},
	}

	for _, tt := range tests {
		got, known := trip.ParseActivityType(tt.raw)
		if got != tt.want || known != tt.wantKnown {
			t.Errorf("ParseActivityType(%q) = (%v, %v), want (%v, %v)", tt.raw, got, known, tt.want, tt.wantKnown)
		}
	}
}
