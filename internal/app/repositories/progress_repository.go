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

// ProgressRepository handles lesson progress database operations
type ProgressRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var progressColumns = []string{"id", "user_id", "lesson_id", "completed", "completed_at", "last_position_seconds"}

func scanProgress(row pgx.Row) (*models.LessonProgress, error) {
	p := &models.LessonProgress{}
	err := row.Scan(&p.ID, &p.UserID, &p.LessonID, &p.Completed, &p.CompletedAt, &p.LastPositionSeconds)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetOrCreate returns the progress row for (user, lesson), creating a blank
// one if none exists yet. The insert races safely against concurrent callers:
// ON CONFLICT DO NOTHING means exactly one row wins and everyone reads it.
func (r *ProgressRepository) GetOrCreate(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	insertSql, insertArgs, err := r.sb.Insert("lesson_progress").
		Columns("user_id", "lesson_id").
		Values(userID, lessonID).
		Suffix("ON CONFLICT (user_id, lesson_id) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build create progress query: %w", err)
	}

	if _, err := r.db.Exec(ctx, insertSql, insertArgs...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("lessonID", lessonID).Msg("Error inserting progress row")
		return nil, fmt.Errorf("error creating progress row: %w", err)
	}

	return r.Get(ctx, userID, lessonID)
}

// Get returns the progress row for (user, lesson), or nil when the lesson was
// never opened
func (r *ProgressRepository) Get(ctx context.Context, userID, lessonID int64) (*models.LessonProgress, error) {
	sql, args, err := r.sb.Select(progressColumns...).
		From("lesson_progress").
		Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get progress query: %w", err)
	}

	progress, err := scanProgress(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Int64("userID", userID).Int64("lessonID", lessonID).Msg("Error scanning progress row")
		return nil, fmt.Errorf("error getting progress: %w", err)
	}

	return progress, nil
}

// MarkCompleted marks a lesson complete. The WHERE clause makes repeats a
// no-op so the first completion timestamp survives.
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID, lessonID int64) error {
	sql, args, err := r.sb.Update("lesson_progress").
		SetMap(map[string]interface{}{
			"completed":    true,
			"completed_at": squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID, "completed": false}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark completed query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("lessonID", lessonID).Msg("Error marking lesson completed")
		return fmt.Errorf("error marking lesson completed: %w", err)
	}

	return nil
}

// Uncomplete clears the completion flag and timestamp
func (r *ProgressRepository) Uncomplete(ctx context.Context, userID, lessonID int64) error {
	sql, args, err := r.sb.Update("lesson_progress").
		SetMap(map[string]interface{}{
			"completed":    false,
			"completed_at": nil,
		}).
		Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build uncomplete query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("lessonID", lessonID).Msg("Error unmarking lesson completion")
		return fmt.Errorf("error unmarking lesson completion: %w", err)
	}

	return nil
}

// UpdatePosition stores the last playback position in seconds
func (r *ProgressRepository) UpdatePosition(ctx context.Context, userID, lessonID int64, seconds int) error {
	sql, args, err := r.sb.Update("lesson_progress").
		Set("last_position_seconds", seconds).
		Where(squirrel.Eq{"user_id": userID, "lesson_id": lessonID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update position query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("lessonID", lessonID).Msg("Error updating playback position")
		return fmt.Errorf("error updating playback position: %w", err)
	}

	return nil
}

// MapByCourse returns the user's progress rows for one course keyed by
// lesson id. Lessons never opened have no entry.
func (r *ProgressRepository) MapByCourse(ctx context.Context, userID, courseID int64) (map[int64]*models.LessonProgress, error) {
	sql, args, err := r.sb.Select(
		"p.id", "p.user_id", "p.lesson_id", "p.completed", "p.completed_at", "p.last_position_seconds").
		From("lesson_progress p").
		Join("lessons l ON l.id = p.lesson_id").
		Where(squirrel.Eq{"p.user_id": userID, "l.course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build progress map query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Int64("courseID", courseID).Msg("Error querying course progress")
		return nil, fmt.Errorf("error querying course progress: %w", err)
	}
	defer rows.Close()

	byLesson := map[int64]*models.LessonProgress{}
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning progress row: %w", err)
		}
		byLesson[progress.LessonID] = progress
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating progress rows: %w", err)
	}

	return byLesson, nil
}

// CountCompleted returns how many lessons of a course the user has completed
func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM lesson_progress p
		JOIN lessons l ON l.id = p.lesson_id
		WHERE p.user_id = $1 AND l.course_id = $2 AND p.completed`,
		userID, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting completed lessons: %w", err)
	}
	return count, nil
}

// CompletedByCourse returns the user's completed lesson counts for all their
// enrolled courses in one query, keyed by course id
func (r *ProgressRepository) CompletedByCourse(ctx context.Context, userID int64) (map[int64]int, error) {
	rows, err := r.db.Query(ctx, `
		SELECT l.course_id, COUNT(*)
		FROM lesson_progress p
		JOIN lessons l ON l.id = p.lesson_id
		WHERE p.user_id = $1 AND p.completed
		GROUP BY l.course_id`,
		userID)
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error querying completed counts")
		return nil, fmt.Errorf("error querying completed counts: %w", err)
	}
	defer rows.Close()

	counts := map[int64]int{}
	for rows.Next() {
		var courseID int64
		var count int
		if err := rows.Scan(&courseID, &count); err != nil {
			return nil, fmt.Errorf("error scanning completed count row: %w", err)
		}
		counts[courseID] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed count rows: %w", err)
	}

	return counts, nil
}
