package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// RatingRepository handles course rating database operations
type RatingRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRatingRepository creates a new RatingRepository
func NewRatingRepository(db *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert stores a user's rating for a course, replacing any earlier value
func (r *RatingRepository) Upsert(ctx context.Context, userID, courseID int64, rating int) error {
	sql, args, err := r.sb.Insert("course_ratings").
		Columns("user_id", "course_id", "rating").
		Values(userID, courseID, rating).
		Suffix("ON CONFLICT (user_id, course_id) DO UPDATE SET rating = EXCLUDED.rating").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert rating query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error upserting rating")
		return fmt.Errorf("error storing rating: %w", err)
	}

	return nil
}

// Get returns a user's rating for a course, or nil when they have not rated it
func (r *RatingRepository) Get(ctx context.Context, userID, courseID int64) (*models.CourseRating, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "rating", "created_at").
		From("course_ratings").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get rating query: %w", err)
	}

	rating := &models.CourseRating{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&rating.ID, &rating.UserID,
		&rating.CourseID, &rating.Rating, &rating.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error scanning rating row")
		return nil, fmt.Errorf("error getting rating: %w", err)
	}

	return rating, nil
}

// Average returns the mean rating of a course, or nil when it has none
func (r *RatingRepository) Average(ctx context.Context, courseID int64) (*float64, error) {
	var avg *float64
	err := r.db.QueryRow(ctx,
		"SELECT AVG(rating)::float8 FROM course_ratings WHERE course_id = $1",
		courseID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("error averaging ratings: %w", err)
	}
	return avg, nil
}
