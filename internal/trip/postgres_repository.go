package trip

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarerhq/wayfarer/pkg/polyline"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Waypoint and location sequences are stored polyline-encoded.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL itinerary repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByUserAndID retrieves a fully materialized itinerary graph.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, itineraryID string) (*Itinerary, error) {
	query := `
		SELECT id, user_id, title, description, locations, start_date, end_date, notes,
			created_at, updated_at
		FROM itineraries
		WHERE id = $1 AND user_id = $2
	`

	var it Itinerary
	var encodedLocations string
	err := r.pool.QueryRow(ctx, query, itineraryID, userID).Scan(
		&it.ID,
		&it.UserID,
		&it.Title,
		&it.Description,
		&encodedLocations,
		&it.StartDate,
		&it.EndDate,
		&it.Notes,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItineraryNotFound
		}
		return nil, err
	}
	it.Locations = decodePoints(encodedLocations)

	if err := r.loadDayPlans(ctx, &it); err != nil {
		return nil, err
	}

	return &it, nil
}

// loadDayPlans loads the day plans and activities for an itinerary,
// preserving stored order.
func (r *PostgresRepository) loadDayPlans(ctx context.Context, it *Itinerary) error {
	query := `
		SELECT id, date, route_distance_km, route_time_minutes, route_description,
			route_waypoints, notes
		FROM day_plans
		WHERE itinerary_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, it.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var dp DayPlan
		var distance *float64
		var minutes *int
		var description *string
		var waypoints *string

		if err := rows.Scan(&dp.ID, &dp.Date, &distance, &minutes, &description, &waypoints, &dp.Notes); err != nil {
			return err
		}
		dp.ItineraryID = it.ID
		if distance != nil {
			dp.Route = &RoutePlan{
				DistanceKm:  *distance,
				Waypoints:   decodePoints(derefString(waypoints)),
				Description: derefString(description),
			}
			if minutes != nil {
				dp.Route.TimeMinutes = *minutes
			}
		}
		index[dp.ID] = len(it.DayPlans)
		it.DayPlans = append(it.DayPlans, dp)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	return r.loadActivities(ctx, it, index)
}

// loadActivities loads all activities of an itinerary in one query.
func (r *PostgresRepository) loadActivities(ctx context.Context, it *Itinerary, index map[string]int) error {
	query := `
		SELECT a.id, a.day_plan_id, a.lat, a.lon, a.start_time, a.end_time,
			a.type, a.other_type_name, a.note, a.cost
		FROM activities a
		JOIN day_plans d ON d.id = a.day_plan_id
		WHERE d.itinerary_id = $1
		ORDER BY d.position, a.position
	`

	rows, err := r.pool.Query(ctx, query, it.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a Activity
		var dayPlanID string
		var rawType string

		err := rows.Scan(
			&a.ID,
			&dayPlanID,
			&a.Location.Lat,
			&a.Location.Lon,
			&a.Start,
			&a.End,
			&rawType,
			&a.OtherTypeName,
			&a.Note,
			&a.Cost,
		)
		if err != nil {
			return err
		}
		a.Type, _ = ParseActivityType(rawType)

		i, ok := index[dayPlanID]
		if !ok {
			return fmt.Errorf("activity %s references unknown day plan %s", a.ID, dayPlanID)
		}
		it.DayPlans[i].Activities = append(it.DayPlans[i].Activities, a)
	}

	return rows.Err()
}

// List retrieves itinerary summaries with the derived total cost.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	// Keyset pagination: the cursor is the ID of the last itinerary on
	// the previous page.
	query := `
		SELECT i.id, i.user_id, i.title, i.start_date, i.end_date, i.created_at,
			COALESCE(SUM(a.cost), 0) AS total_cost
		FROM itineraries i
		LEFT JOIN day_plans d ON d.itinerary_id = i.id
		LEFT JOIN activities a ON a.day_plan_id = d.id
		WHERE i.user_id = $1
			AND ($2 = '' OR (i.created_at, i.id) < (SELECT created_at, id FROM itineraries WHERE id = $2))
		GROUP BY i.id
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, userID, opts.Cursor, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*Summary
	for rows.Next() {
		var s Summary
		err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.StartDate, &s.EndDate, &s.CreatedAt, &s.TotalCost)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{Items: summaries}
	if len(summaries) > limit {
		result.Items = summaries[:limit]
		result.NextCursor = summaries[limit-1].ID
	}

	return result, nil
}

// Create persists a new itinerary graph in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, it *Itinerary) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO itineraries (
				id, user_id, title, description, locations, start_date, end_date,
				notes, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`
		_, err := tx.Exec(ctx, query,
			it.ID,
			it.UserID,
			it.Title,
			it.Description,
			encodePoints(it.Locations),
			it.StartDate,
			it.EndDate,
			it.Notes,
			it.CreatedAt,
			it.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return r.insertDayPlans(ctx, tx, it)
	})
}

// Update replaces an existing itinerary graph in one transaction. Child
// rows are rewritten wholesale so stored order always matches the graph.
func (r *PostgresRepository) Update(ctx context.Context, it *Itinerary) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE itineraries SET
				title = $2,
				description = $3,
				locations = $4,
				start_date = $5,
				end_date = $6,
				notes = $7,
				updated_at = $8
			WHERE id = $1
		`
		result, err := tx.Exec(ctx, query,
			it.ID,
			it.Title,
			it.Description,
			encodePoints(it.Locations),
			it.StartDate,
			it.EndDate,
			it.Notes,
			it.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrItineraryNotFound
		}

		if err := deleteChildren(ctx, tx, it.ID); err != nil {
			return err
		}

		return r.insertDayPlans(ctx, tx, it)
	})
}

// Delete removes the itinerary and its whole graph in one transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM itineraries WHERE id = $1`, id)
		return err
	})
}

// insertDayPlans writes the day plan and activity rows for an itinerary.
func (r *PostgresRepository) insertDayPlans(ctx context.Context, tx pgx.Tx, it *Itinerary) error {
	dayQuery := `
		INSERT INTO day_plans (
			id, itinerary_id, position, date, route_distance_km, route_time_minutes,
			route_description, route_waypoints, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	activityQuery := `
		INSERT INTO activities (
			id, day_plan_id, position, lat, lon, start_time, end_time,
			type, other_type_name, note, cost
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	for pos := range it.DayPlans {
		dp := &it.DayPlans[pos]

		var distance *float64
		var minutes *int
		var description *string
		var waypoints *string
		if dp.Route != nil {
			distance = &dp.Route.DistanceKm
			minutes = &dp.Route.TimeMinutes
			description = &dp.Route.Description
			encoded := encodePoints(dp.Route.Waypoints)
			waypoints = &encoded
		}

		_, err := tx.Exec(ctx, dayQuery,
			dp.ID, it.ID, pos, dp.Date, distance, minutes, description, waypoints, dp.Notes,
		)
		if err != nil {
			return err
		}

		for apos := range dp.Activities {
			a := &dp.Activities[apos]
			_, err := tx.Exec(ctx, activityQuery,
				a.ID, dp.ID, apos, a.Location.Lat, a.Location.Lon, a.Start, a.End,
				string(a.Type), a.OtherTypeName, a.Note, a.Cost,
			)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// deleteChildren removes the day plan and activity rows of an itinerary.
func deleteChildren(ctx context.Context, tx pgx.Tx, itineraryID string) error {
	_, err := tx.Exec(ctx, `
		DELETE FROM activities
		WHERE day_plan_id IN (SELECT id FROM day_plans WHERE itinerary_id = $1)
	`, itineraryID)
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, `DELETE FROM day_plans WHERE itinerary_id = $1`, itineraryID)
	return err
}

// encodePoints polyline-encodes an ordered point sequence for storage.
func encodePoints(points []GeoPoint) string {
	coords := make([]polyline.Coordinate, len(points))
	for i, p := range points {
		coords[i] = polyline.Coordinate{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(coords)
}

// decodePoints decodes a stored polyline back into points.
func decodePoints(encoded string) []GeoPoint {
	coords := polyline.Decode(encoded)
	points := make([]GeoPoint, len(coords))
	for i, c := range coords {
		points[i] = GeoPoint{Lat: c.Lat, Lon: c.Lon}
	}
	return points
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
