package trip_test

import (
	"errors"
	"testing"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/trip"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func activity(start, end string, typ trip.ActivityType) trip.Activity {
	return trip.Activity{
		ID:       "act_" + start,
		Location: trip.GeoPoint{Lat: 48.8584, Lon: 2.2945},
		Start:    start,
		End:      end,
		Type:     typ,
	}
}

func TestValidateDateRange(t *testing.T) {
	tests := []struct {
		name      string
		planDate  time.Time
		wantError bool
	}{
		{"date on start boundary", date(2025, 6, 1), false},
		{"date in middle", date(2025, 6, 2), false},
		{"date on end boundary", date(2025, 6, 3), false},
		{"date after range", date(2025, 6, 5), true},
		{"date before range", date(2025, 5, 31), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := &trip.Itinerary{
				StartDate: date(2025, 6, 1),
				EndDate:   date(2025, 6, 3),
				DayPlans:  []trip.DayPlan{{ID: "day_1", Date: tt.planDate}},
			}

			err := trip.ValidateDateRange(it)
			if tt.wantError {
				var rangeErr *trip.DateOutOfRangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("expected DateOutOfRangeError, got %v", err)
				}
				if !rangeErr.Date.Equal(tt.planDate) {
					t.Errorf("expected offending date %v, got %v", tt.planDate, rangeErr.Date)
				}
				if !rangeErr.Start.Equal(date(2025, 6, 1)) || !rangeErr.End.Equal(date(2025, 6, 3)) {
					t.Errorf("expected valid range [2025-06-01, 2025-06-03], got [%v, %v]", rangeErr.Start, rangeErr.End)
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name       string
		activities []trip.Activity
		wantError  bool
	}{
		{
			name:       "empty day plan",
			activities: nil,
			wantError:  false,
		},
		{
			name:       "single activity",
			activities: []trip.Activity{activity("09:00", "10:00", trip.ActivitySightseeing)},
			wantError:  false,
		},
		{
			name: "back to back is a collision",
			activities: []trip.Activity{
				activity("09:00", "10:00", trip.ActivitySightseeing),
				activity("10:00", "11:00", trip.ActivityDineOut),
			},
			wantError: true,
		},
		{
			name: "one minute gap succeeds",
			activities: []trip.Activity{
				activity("09:00", "10:00", trip.ActivitySightseeing),
				activity("10:01", "11:00", trip.ActivityDineOut),
			},
			wantError: false,
		},
		{
			name: "overlap detected regardless of input order",
			activities: []trip.Activity{
				activity("14:00", "15:00", trip.ActivityDineOut),
				activity("09:00", "14:30", trip.ActivitySightseeing),
			},
			wantError: true,
		},
		{
			name: "full containment is a collision",
			activities: []trip.Activity{
				activity("09:00", "17:00", trip.ActivitySightseeing),
				activity("10:00", "11:00", trip.ActivityDineOut),
			},
			wantError: true,
		},
		{
			name: "three well separated activities",
			activities: []trip.Activity{
				activity("09:00", "10:00", trip.ActivitySightseeing),
				activity("10:30", "12:00", trip.ActivityDineOut),
				activity("13:00", "15:00", trip.ActivityOther),
			},
			wantError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dp := &trip.DayPlan{
				ID:         "day_1",
				Date:       date(2025, 6, 1),
				Activities: tt.activities,
			}

			err := trip.ValidateSchedule(dp)
			if tt.wantError {
				var collisionErr *trip.ScheduleCollisionError
				if !errors.As(err, &collisionErr) {
					t.Fatalf("expected ScheduleCollisionError, got %v", err)
				}
				if collisionErr.First == "" || collisionErr.Second == "" {
					t.Errorf("expected both colliding activity labels, got %q and %q", collisionErr.First, collisionErr.Second)
				}
			} else if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestValidateSchedule_ReportsCollidingLabels(t *testing.T) {
	dp := &trip.DayPlan{
		ID:   "day_1",
		Date: date(2025, 6, 1),
		Activities: []trip.Activity{
			activity("09:00", "10:00", trip.ActivitySightseeing),
			activity("10:00", "11:00", trip.ActivityDineOut),
		},
	}

	err := trip.ValidateSchedule(dp)
	var collisionErr *trip.ScheduleCollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("expected ScheduleCollisionError, got %v", err)
	}
	if collisionErr.First != "SIGHTSEEING" {
		t.Errorf("expected first label SIGHTSEEING, got %q", collisionErr.First)
	}
	if collisionErr.Second != "DINE_OUT" {
		t.Errorf("expected second label DINE_OUT, got %q", collisionErr.Second)
	}
}

func TestValidateSchedule_UsesOtherTypeNameAsLabel(t *testing.T) {
	name := "Kayaking"
	second := activity("10:00", "11:00", trip.ActivityOther)
	second.OtherTypeName = &name

	dp := &trip.DayPlan{
		ID:   "day_1",
		Date: date(2025, 6, 1),
		Activities: []trip.Activity{
			activity("09:00", "10:30", trip.ActivitySightseeing),
			second,
		},
	}

	err := trip.ValidateSchedule(dp)
	var collisionErr *trip.ScheduleCollisionError
	if !errors.As(err, &collisionErr) {
		t.Fatalf("expected ScheduleCollisionError, got %v", err)
	}
	if collisionErr.Second != "Kayaking" {
		t.Errorf("expected second label Kayaking, got %q", collisionErr.Second)
	}
}

func TestValidate_DuplicateDayPlanDates(t *testing.T) {
	it := &trip.Itinerary{
		StartDate: date(2025, 6, 1),
		EndDate:   date(2025, 6, 3),
		DayPlans: []trip.DayPlan{
			{ID: "day_1", Date: date(2025, 6, 1)},
			{ID: "day_2", Date: date(2025, 6, 1)},
		},
	}

	err := trip.Validate(it)
	var dupErr *trip.DuplicateDayPlanError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateDayPlanError, got %v", err)
	}
	if !dupErr.Date.Equal(date(2025, 6, 1)) {
		t.Errorf("expected duplicate date 2025-06-01, got %s", dupErr.Date)
	}
}

func TestValidate_OtherTypeNameOnlyForOther(t *testing.T) {
	name := "Museum"
	bad := activity("09:00", "10:00", trip.ActivitySightseeing)
	bad.OtherTypeName = &name

	it := &trip.Itinerary{
		StartDate: date(2025, 6, 1),
		EndDate:   date(2025, 6, 3),
		DayPlans: []trip.DayPlan{
			{ID: "day_1", Date: date(2025, 6, 1), Activities: []trip.Activity{bad}},
		},
	}

	err := trip.Validate(it)
	var typeErr *trip.OtherTypeNameError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected OtherTypeNameError, got %v", err)
	}
	if typeErr.ActivityID != bad.ID {
		t.Errorf("expected offending activity %s, got %s", bad.ID, typeErr.ActivityID)
	}
}

func TestValidate_IsIdempotent(t *testing.T) {
	it := &trip.Itinerary{
		StartDate: date(2025, 6, 1),
		EndDate:   date(2025, 6, 2),
		DayPlans: []trip.DayPlan{
			{
				ID:   "day_1",
				Date: date(2025, 6, 1),
				Activities: []trip.Activity{
					activity("09:00", "10:00", trip.ActivitySightseeing),
					activity("12:00", "13:00", trip.ActivityDineOut),
				},
			},
			{ID: "day_2", Date: date(2025, 6, 2)},
		},
	}

	for i := 0; i < 3; i++ {
		if err := trip.Validate(it); err != nil {
			t.Fatalf("validation pass %d failed: %v", i+1, err)
		}
	}
}
