package trip

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"time"
)

// clockRegex validates HH:mm clock times.
var clockRegex = regexp.MustCompile(`^([01]?\d|2[0-3]):[0-5]\d$`)

// DateOutOfRangeError reports a day plan whose date falls outside the
// itinerary's date range.
type DateOutOfRangeError struct {
	Date  time.Time
	Start time.Time
	End   time.Time
}

func (e *DateOutOfRangeError) Error() string {
	return fmt.Sprintf("day plan date %s is outside itinerary range [%s, %s]",
		e.Date.Format("2006-01-02"), e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
}

// ScheduleCollisionError reports two activities in the same day plan
// whose time windows overlap. First and Second carry the type labels of
// the colliding activities in start-time order.
type ScheduleCollisionError struct {
	Date   time.Time
	First  string
	Second string
}

func (e *ScheduleCollisionError) Error() string {
	return fmt.Sprintf("activities %q and %q collide on %s",
		e.First, e.Second, e.Date.Format("2006-01-02"))
}

// DuplicateDayPlanError reports two day plans sharing the same date.
type DuplicateDayPlanError struct {
	Date time.Time
}

func (e *DuplicateDayPlanError) Error() string {
	return fmt.Sprintf("duplicate day plan for date %s", e.Date.Format("2006-01-02"))
}

// OtherTypeNameError reports an otherTypeName set on an activity whose
// type is not OTHER.
type OtherTypeNameError struct {
	ActivityID string
}

func (e *OtherTypeNameError) Error() string {
	return fmt.Sprintf("activity %s: otherTypeName is only valid for OTHER activities", e.ActivityID)
}

// ValidateDateRange checks that every day plan's date lies within the
// itinerary's [StartDate, EndDate]. It is a pure check: the first
// offending day plan produces a *DateOutOfRangeError and no state is
// mutated.
func ValidateDateRange(it *Itinerary) error {
	start := TruncateToDay(it.StartDate)
	end := TruncateToDay(it.EndDate)
	for i := range it.DayPlans {
		date := TruncateToDay(it.DayPlans[i].Date)
		if date.Before(start) || date.After(end) {
			return &DateOutOfRangeError{Date: date, Start: start, End: end}
		}
	}
	return nil
}

// ValidateSchedule checks that no two activities within the day plan
// overlap. Activities are copied, sorted by start time (insertion order
// breaks ties), and adjacent pairs are scanned; the first pair where the
// earlier activity does not end strictly before the next one starts is
// reported as a *ScheduleCollisionError. A shared boundary (end == next
// start) counts as a collision.
func ValidateSchedule(dp *DayPlan) error {
	if len(dp.Activities) < 2 {
		return nil
	}

	sorted := make([]Activity, len(dp.Activities))
	copy(sorted, dp.Activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return clockMinutes(sorted[i].Start) < clockMinutes(sorted[j].Start)
	})

	for i := 0; i+1 < len(sorted); i++ {
		cur, next := &sorted[i], &sorted[i+1]
		if clockMinutes(cur.End) >= clockMinutes(next.Start) {
			return &ScheduleCollisionError{
				Date:   TruncateToDay(dp.Date),
				First:  cur.TypeLabel(),
				Second: next.TypeLabel(),
			}
		}
	}
	return nil
}

// Validate runs the full consistency check over a materialized trip
// graph: date range, per-day schedule collisions, one day plan per date,
// and the OTHER-type naming rule. It must be called on the write path
// before any persistence side effect; a failure rejects the whole graph.
func Validate(it *Itinerary) error {
	if err := ValidateDateRange(it); err != nil {
		return err
	}

	seen := make(map[time.Time]bool, len(it.DayPlans))
	for i := range it.DayPlans {
		dp := &it.DayPlans[i]
		date := TruncateToDay(dp.Date)
		if seen[date] {
			return &DuplicateDayPlanError{Date: date}
		}
		seen[date] = true

		if err := ValidateSchedule(dp); err != nil {
			return err
		}

		for j := range dp.Activities {
			a := &dp.Activities[j]
			if a.Type != ActivityOther && a.OtherTypeName != nil {
				return &OtherTypeNameError{ActivityID: a.ID}
			}
		}
	}
	return nil
}

// ValidClock reports whether s is in HH:mm format.
func ValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// clockMinutes converts an HH:mm string to minutes since midnight.
// Malformed input sorts first; format validation happens upstream.
func clockMinutes(s string) int {
	if len(s) < 4 {
		return -1
	}
	sep := 1
	if s[2] == ':' {
		sep = 2
	} else if s[1] != ':' {
		return -1
	}
	h, err := strconv.Atoi(s[:sep])
	if err != nil {
		return -1
	}
	m, err := strconv.Atoi(s[sep+1:])
	if err != nil {
		return -1
	}
	return h*60 + m
}
