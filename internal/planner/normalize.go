package planner

import (
	"fmt"
	"time"

	"github.com/wayfarerhq/wayfarer/internal/api/models"
)

const dateLayout = "2006-01-02"

// candidateRequest maps a generator candidate onto the inbound itinerary
// shape so it can be created through the regular trip service, subject to
// exactly the same validation as a user-authored itinerary.
//
// The generator contract requires exactly NumberOfDays day plans with
// consecutive dates starting at StartDate; anything else is a contract
// violation and the candidate is rejected whole.
func candidateRequest(gen *Generation, c *Candidate) (*models.ItineraryCreateRequest, error) {
	if c == nil {
		return nil, fmt.Errorf("empty candidate")
	}
	if len(c.DayPlans) != gen.NumberOfDays {
		return nil, fmt.Errorf("candidate has %d day plans, want %d", len(c.DayPlans), gen.NumberOfDays)
	}

	days := make([]models.DayPlanInput, 0, len(c.DayPlans))
	for i, day := range c.DayPlans {
		date, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			return nil, fmt.Errorf("day plan %d has malformed date %q", i, day.Date)
		}
		want := gen.StartDate.AddDate(0, 0, i)
		if !date.Equal(want) {
			return nil, fmt.Errorf("day plan %d has date %s, want %s",
				i, date.Format(dateLayout), want.Format(dateLayout))
		}

		activities := make([]models.ActivityInput, 0, len(day.Activities))
		for _, a := range day.Activities {
			cost := a.Cost
			activities = append(activities, models.ActivityInput{
				Location:  models.Point{Lat: a.Location.Lat, Lon: a.Location.Lon},
				StartTime: a.StartTime,
				EndTime:   a.EndTime,
				Type:      a.Type,
				Note:      a.Note,
				Cost:      &cost,
			})
		}

		days = append(days, models.DayPlanInput{
			Date:       models.Date(date),
			RoutePlan:  candidateRoute(day.RoutePlan),
			Activities: activities,
			Notes:      day.Notes,
		})
	}

	title := c.Title
	if title == "" {
		title = fmt.Sprintf("%d days in %s", gen.NumberOfDays, gen.Location)
	}

	return &models.ItineraryCreateRequest{
		Title:       title,
		Description: c.Description,
		Locations:   candidatePoints(c.Locations),
		StartDate:   models.Date(gen.StartDate),
		EndDate:     models.Date(gen.EndDate()),
		DayPlans:    days,
	}, nil
}

func candidateRoute(r *CandidateRoute) *models.RoutePlan {
	if r == nil {
		return nil
	}
	return &models.RoutePlan{
		DistanceKm:  r.DistanceKm,
		TimeMinutes: r.TimeMinutes,
		Description: r.Description,
		Locations:   candidatePoints(r.Locations),
	}
}

func candidatePoints(pts []CandidatePoint) []models.Point {
	out := make([]models.Point, 0, len(pts))
	for _, p := range pts {
		out = append(out, models.Point{Lat: p.Lat, Lon: p.Lon})
	}
	return out
}
