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

// EnrollmentRepository handles enrollment database operations
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Enroll records an enrollment. Enrolling twice is a no-op; the returned
// bool reports whether a new row was created.
func (r *EnrollmentRepository) Enroll(ctx context.Context, userID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("user_id", "course_id").
		Values(userID, courseID).
		Suffix("ON CONFLICT (user_id, course_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enroll query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error executing enroll query")
		return false, fmt.Errorf("error enrolling user: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// IsEnrolled checks whether a user is enrolled in a course
func (r *EnrollmentRepository) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		Prefix("SELECT EXISTS (").Suffix(")").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment check query: %w", err)
	}

	var exists bool
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error checking enrollment")
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return exists, nil
}

// Unenroll removes an enrollment. The user's progress rows are kept so a
// re-enrollment picks up where they left off.
func (r *EnrollmentRepository) Unenroll(ctx context.Context, userID, courseID int64) (bool, error) {
	sql, args, err := r.sb.Delete("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build unenroll query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error executing unenroll query")
		return false, fmt.Errorf("error unenrolling user: %w", err)
	}

	return cmdTag.RowsAffected() > 0, nil
}

// ListByUser returns a user's enrollments, most recent first
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Enrollment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "enrolled_at").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("enrolled_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list enrollments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing list enrollments query")
		return nil, fmt.Errorf("error querying enrollments: %w", err)
	}
	defer rows.Close()

	enrollments := []*models.Enrollment{}
	for rows.Next() {
		e := &models.Enrollment{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.CourseID, &e.EnrolledAt); err != nil {
			return nil, fmt.Errorf("error scanning enrollment row: %w", err)
		}
		enrollments = append(enrollments, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}

	return enrollments, nil
}

// CountByCourse returns the number of enrollments in a course
func (r *EnrollmentRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM enrollments WHERE course_id = $1", courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting enrollments: %w", err)
	}
	return count, nil
}
