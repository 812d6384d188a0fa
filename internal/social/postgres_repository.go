package social

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
// Engagement counts are derived at read time; likes and saves live in
// junction tables keyed by (post_id, user_id).
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL social repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const postViewColumns = `
	p.id, p.author_id, p.body, p.journal_id, p.itinerary_id, p.visibility, p.created_at,
	(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id) AS like_count,
	(SELECT COUNT(*) FROM post_comments c WHERE c.post_id = p.id) AS comment_count,
	EXISTS (SELECT 1 FROM post_likes l WHERE l.post_id = p.id AND l.user_id = $1) AS liked,
	EXISTS (SELECT 1 FROM post_saves s WHERE s.post_id = p.id AND s.user_id = $1) AS saved
`

// CreatePost stores a new post.
func (r *PostgresRepository) CreatePost(ctx context.Context, post *Post) error {
	query := `
		INSERT INTO posts (id, author_id, body, journal_id, itinerary_id, visibility, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		post.ID,
		post.AuthorID,
		post.Body,
		post.JournalID,
		post.ItineraryID,
		string(post.Visibility),
		post.CreatedAt,
	)
	return err
}

// GetPost retrieves a post with derived counts and viewer state.
func (r *PostgresRepository) GetPost(ctx context.Context, viewerID, postID string) (*PostView, error) {
	query := `
		SELECT ` + postViewColumns + `
		FROM posts p
		WHERE p.id = $2 AND (p.visibility = 'PUBLIC' OR p.author_id = $1)
	`

	view, err := scanPostView(r.pool.QueryRow(ctx, query, viewerID, postID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return view, nil
}

// DeletePost removes a post and its comments, likes and saves in one
// transaction.
func (r *PostgresRepository) DeletePost(ctx context.Context, postID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, query := range []string{
			`DELETE FROM post_comments WHERE post_id = $1`,
			`DELETE FROM post_likes WHERE post_id = $1`,
			`DELETE FROM post_saves WHERE post_id = $1`,
			`DELETE FROM posts WHERE id = $1`,
		} {
			if _, err := tx.Exec(ctx, query, postID); err != nil {
				return err
			}
		}
		return nil
	})
}

// Feed lists visible posts newest first with pagination.
func (r *PostgresRepository) Feed(ctx context.Context, viewerID string, opts FeedOptions) (*FeedResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	// Keyset pagination: the cursor is the ID of the last post on the
	// previous page.
	query := `
		SELECT ` + postViewColumns + `
		FROM posts p
		WHERE (p.visibility = 'PUBLIC' OR p.author_id = $1)
			AND ($2 = '' OR (p.created_at, p.id) < (SELECT created_at, id FROM posts WHERE id = $2))
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $3
	`

	return r.queryViews(ctx, query, limit, viewerID, opts.Cursor, fetchLimit)
}

// SavedPosts lists the posts the viewer has saved, newest save first.
func (r *PostgresRepository) SavedPosts(ctx context.Context, viewerID string, opts FeedOptions) (*FeedResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	// The cursor is a post ID; pages continue from that post's save time
	// for this viewer.
	query := `
		SELECT ` + postViewColumns + `
		FROM posts p
		JOIN post_saves ps ON ps.post_id = p.id AND ps.user_id = $1
		WHERE (p.visibility = 'PUBLIC' OR p.author_id = $1)
			AND ($2 = '' OR (ps.created_at, p.id) < (
				SELECT created_at, post_id FROM post_saves WHERE post_id = $2 AND user_id = $1))
		ORDER BY ps.created_at DESC, p.id DESC
		LIMIT $3
	`

	return r.queryViews(ctx, query, limit, viewerID, opts.Cursor, fetchLimit)
}

func (r *PostgresRepository) queryViews(ctx context.Context, query string, limit int, args ...any) (*FeedResult, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*PostView
	for rows.Next() {
		view, err := scanPostView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &FeedResult{Items: views}
	if len(views) > limit {
		result.Items = views[:limit]
		result.NextCursor = views[limit-1].ID
	}
	return result, nil
}

// CreateComment stores a new comment.
func (r *PostgresRepository) CreateComment(ctx context.Context, c *Comment) error {
	query := `
		INSERT INTO post_comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, c.ID, c.PostID, c.AuthorID, c.Body, c.CreatedAt)
	return err
}

// GetComment retrieves one comment by ID.
func (r *PostgresRepository) GetComment(ctx context.Context, commentID string) (*Comment, error) {
	query := `
		SELECT id, post_id, author_id, body, created_at
		FROM post_comments
		WHERE id = $1
	`

	var c Comment
	err := r.pool.QueryRow(ctx, query, commentID).Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes one comment.
func (r *PostgresRepository) DeleteComment(ctx context.Context, commentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post_comments WHERE id = $1`, commentID)
	return err
}

// ListComments lists a post's comments oldest first with pagination.
func (r *PostgresRepository) ListComments(ctx context.Context, postID string, opts FeedOptions) (*CommentResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	fetchLimit := limit + 1

	// Keyset pagination: the cursor is the ID of the last comment on the
	// previous page.
	query := `
		SELECT id, post_id, author_id, body, created_at
		FROM post_comments
		WHERE post_id = $1
			AND ($2 = '' OR (created_at, id) > (SELECT created_at, id FROM post_comments WHERE id = $2))
		ORDER BY created_at ASC, id ASC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, postID, opts.Cursor, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &CommentResult{Items: comments}
	if len(comments) > limit {
		result.Items = comments[:limit]
		result.NextCursor = comments[limit-1].ID
	}
	return result, nil
}

// Like records that a user likes a post.
func (r *PostgresRepository) Like(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, postID, userID)
	return err
}

// Unlike removes a like.
func (r *PostgresRepository) Unlike(ctx context.Context, postID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

// Save records that a user saved a post.
func (r *PostgresRepository) Save(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_saves (post_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (post_id, user_id) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, postID, userID)
	return err
}

// Unsave removes a save.
func (r *PostgresRepository) Unsave(ctx context.Context, postID, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM post_saves WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

func scanPostView(row pgx.Row) (*PostView, error) {
	var view PostView
	var visibility string
	err := row.Scan(
		&view.ID,
		&view.AuthorID,
		&view.Body,
		&view.JournalID,
		&view.ItineraryID,
		&visibility,
		&view.CreatedAt,
		&view.LikeCount,
		&view.CommentCount,
		&view.Liked,
		&view.Saved,
	)
	if err != nil {
		return nil, err
	}
	view.Visibility = Visibility(visibility)
	return &view, nil
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
