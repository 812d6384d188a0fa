package journal

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wayfarerhq/wayfarer/pkg/polyline"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Subsection variants share one table with nullable per-variant columns;
// route waypoints are stored polyline-encoded.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL journal repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetByUserAndID retrieves a journal with its subsections in order.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, journalID string) (*Journal, error) {
	query := `
		SELECT id, user_id, title, destination, start_date, end_date, visibility,
			created_at, updated_at
		FROM journals
		WHERE id = $1 AND user_id = $2
	`

	var j Journal
	var visibility string
	err := r.pool.QueryRow(ctx, query, journalID, userID).Scan(
		&j.ID,
		&j.UserID,
		&j.Title,
		&j.Destination,
		&j.StartDate,
		&j.EndDate,
		&visibility,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrJournalNotFound
		}
		return nil, err
	}
	j.Visibility = Visibility(visibility)

	if err := r.loadSubsections(ctx, &j); err != nil {
		return nil, err
	}

	return &j, nil
}

// loadSubsections loads a journal's subsections preserving stored order.
func (r *PostgresRepository) loadSubsections(ctx context.Context, j *Journal) error {
	query := `
		SELECT id, type, title, body,
			sight_place, sight_rating,
			activity_start_time, activity_end_time, activity_difficulty,
			route_distance_km, route_duration_minutes, route_waypoints
		FROM journal_subsections
		WHERE journal_id = $1
		ORDER BY position
	`

	rows, err := r.pool.Query(ctx, query, j.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sec Subsection
		var secType string
		var sightPlace *string
		var sightRating *int
		var actStart, actEnd, actDifficulty *string
		var routeDistance *float64
		var routeDuration *int
		var routeWaypoints *string

		err := rows.Scan(
			&sec.ID, &secType, &sec.Title, &sec.Body,
			&sightPlace, &sightRating,
			&actStart, &actEnd, &actDifficulty,
			&routeDistance, &routeDuration, &routeWaypoints,
		)
		if err != nil {
			return err
		}
		sec.Type = SubsectionType(secType)

		switch sec.Type {
		case SubsectionSightseeing:
			sec.Sightseeing = &SightseeingDetails{}
			if sightPlace != nil {
				sec.Sightseeing.Place = *sightPlace
			}
			if sightRating != nil {
				sec.Sightseeing.Rating = *sightRating
			}
		case SubsectionActivity:
			sec.Activity = &ActivityDetails{}
			if actStart != nil {
				sec.Activity.StartTime = *actStart
			}
			if actEnd != nil {
				sec.Activity.EndTime = *actEnd
			}
			if actDifficulty != nil {
				sec.Activity.Difficulty = Difficulty(*actDifficulty)
			}
		case SubsectionRoute:
			sec.Route = &RouteDetails{}
			if routeDistance != nil {
				sec.Route.DistanceKm = *routeDistance
			}
			if routeDuration != nil {
				sec.Route.DurationMinutes = *routeDuration
			}
			if routeWaypoints != nil {
				sec.Route.Waypoints = decodeWaypoints(*routeWaypoints)
			}
		}

		j.Subsections = append(j.Subsections, sec)
	}

	return rows.Err()
}

// List retrieves journal summaries for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	// Keyset pagination: the cursor is the ID of the last journal on the
	// previous page.
	query := `
		SELECT id, user_id, title, destination, start_date, end_date, visibility, created_at
		FROM journals
		WHERE user_id = $1
			AND ($2 = '' OR (created_at, id) < (SELECT created_at, id FROM journals WHERE id = $2))
		ORDER BY created_at DESC, id DESC
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
		var visibility string
		err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Destination, &s.StartDate, &s.EndDate, &visibility, &s.CreatedAt)
		if err != nil {
			return nil, err
		}
		s.Visibility = Visibility(visibility)
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

// Create persists a new journal and its subsections in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, j *Journal) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO journals (
				id, user_id, title, destination, start_date, end_date, visibility,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`
		_, err := tx.Exec(ctx, query,
			j.ID,
			j.UserID,
			j.Title,
			j.Destination,
			j.StartDate,
			j.EndDate,
			string(j.Visibility),
			j.CreatedAt,
			j.UpdatedAt,
		)
		if err != nil {
			return err
		}

		return insertSubsections(ctx, tx, j)
	})
}

// Update replaces an existing journal in one transaction. Subsection rows
// are rewritten wholesale so stored order always matches the journal.
func (r *PostgresRepository) Update(ctx context.Context, j *Journal) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			UPDATE journals SET
				title = $2,
				destination = $3,
				start_date = $4,
				end_date = $5,
				visibility = $6,
				updated_at = $7
			WHERE id = $1
		`
		result, err := tx.Exec(ctx, query,
			j.ID,
			j.Title,
			j.Destination,
			j.StartDate,
			j.EndDate,
			string(j.Visibility),
			j.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrJournalNotFound
		}

		_, err = tx.Exec(ctx, `DELETE FROM journal_subsections WHERE journal_id = $1`, j.ID)
		if err != nil {
			return err
		}

		return insertSubsections(ctx, tx, j)
	})
}

// Delete removes a journal and its subsections in one transaction.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `DELETE FROM journal_subsections WHERE journal_id = $1`, id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM journals WHERE id = $1`, id)
		return err
	})
}

// insertSubsections writes the subsection rows for a journal.
func insertSubsections(ctx context.Context, tx pgx.Tx, j *Journal) error {
	query := `
		INSERT INTO journal_subsections (
			id, journal_id, position, type, title, body,
			sight_place, sight_rating,
			activity_start_time, activity_end_time, activity_difficulty,
			route_distance_km, route_duration_minutes, route_waypoints
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	for pos := range j.Subsections {
		sec := &j.Subsections[pos]

		var sightPlace *string
		var sightRating *int
		var actStart, actEnd, actDifficulty *string
		var routeDistance *float64
		var routeDuration *int
		var routeWaypoints *string

		switch {
		case sec.Sightseeing != nil:
			sightPlace = &sec.Sightseeing.Place
			sightRating = &sec.Sightseeing.Rating
		case sec.Activity != nil:
			actStart = &sec.Activity.StartTime
			actEnd = &sec.Activity.EndTime
			difficulty := string(sec.Activity.Difficulty)
			actDifficulty = &difficulty
		case sec.Route != nil:
			routeDistance = &sec.Route.DistanceKm
			routeDuration = &sec.Route.DurationMinutes
			encoded := encodeWaypoints(sec.Route.Waypoints)
			routeWaypoints = &encoded
		}

		_, err := tx.Exec(ctx, query,
			sec.ID, j.ID, pos, string(sec.Type), sec.Title, sec.Body,
			sightPlace, sightRating,
			actStart, actEnd, actDifficulty,
			routeDistance, routeDuration, routeWaypoints,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// encodeWaypoints polyline-encodes an ordered waypoint sequence.
func encodeWaypoints(points []Point) string {
	coords := make([]polyline.Coordinate, len(points))
	for i, p := range points {
		coords[i] = polyline.Coordinate{Lat: p.Lat, Lon: p.Lon}
	}
	return polyline.Encode(coords)
}

// decodeWaypoints decodes a stored polyline back into waypoints.
func decodeWaypoints(encoded string) []Point {
	coords := polyline.Decode(encoded)
	points := make([]Point, len(coords))
	for i, c := range coords {
		points[i] = Point{Lat: c.Lat, Lon: c.Lon}
	}
	return points
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
