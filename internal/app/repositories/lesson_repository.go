package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/db"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// Positions are offset far above any real ordinal during a reorder so the
// per-course unique index never sees a transient collision.
const reorderOffset = 10000

// LessonPlacement is one (lesson, target position) pair of a reorder
type LessonPlacement struct {
	LessonID int64
	Position int
}

// LessonRepository handles lesson database operations. It holds the full
// database handle rather than just the pool because appends and reorders run
// inside transactions.
type LessonRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewLessonRepository creates a new LessonRepository
func NewLessonRepository(database *db.PostgresDB) *LessonRepository {
	return &LessonRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var lessonColumns = []string{"id", "course_id", "title", "content_type", "text_content", "video_url", "attachment", "position", "created_at", "updated_at"}

func scanLesson(row pgx.Row) (*models.Lesson, error) {
	lesson := &models.Lesson{}
	err := row.Scan(&lesson.ID, &lesson.CourseID, &lesson.Title, &lesson.ContentType,
		&lesson.TextContent, &lesson.VideoURL, &lesson.Attachment, &lesson.Position,
		&lesson.CreatedAt, &lesson.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return lesson, nil
}

// Create appends a lesson to the end of its course. The course row is locked
// so two concurrent appends cannot compute the same position.
func (r *LessonRepository) Create(ctx context.Context, lesson *models.Lesson) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var courseID int64
		err := tx.QueryRow(ctx, "SELECT id FROM courses WHERE id = $1 FOR UPDATE", lesson.CourseID).Scan(&courseID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course row: %w", err)
		}

		var position int
		err = tx.QueryRow(ctx,
			"SELECT COALESCE(MAX(position), 0) + 1 FROM lessons WHERE course_id = $1",
			lesson.CourseID).Scan(&position)
		if err != nil {
			return fmt.Errorf("error computing next position: %w", err)
		}
		lesson.Position = position

		sql, args, err := r.sb.Insert("lessons").
			Columns("course_id", "title", "content_type", "text_content", "video_url", "attachment", "position").
			Values(lesson.CourseID, lesson.Title, lesson.ContentType, lesson.TextContent,
				lesson.VideoURL, lesson.Attachment, lesson.Position).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build create lesson query: %w", err)
		}

		err = tx.QueryRow(ctx, sql, args...).Scan(&lesson.ID, &lesson.CreatedAt, &lesson.UpdatedAt)
		if err != nil {
			logger.Error().Err(err).Int64("courseID", lesson.CourseID).Msg("Error executing create lesson query")
			return fmt.Errorf("error creating lesson: %w", err)
		}

		return nil
	})
}

// GetByID retrieves a lesson by ID
func (r *LessonRepository) GetByID(ctx context.Context, id int64) (*models.Lesson, error) {
	sql, args, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get lesson query: %w", err)
	}

	lesson, err := scanLesson(r.db.Pool.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLessonNotFound
		}
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error scanning lesson row")
		return nil, fmt.Errorf("error getting lesson by ID: %w", err)
	}

	return lesson, nil
}

// ListByCourse returns a course's lessons in display order. Position is the
// primary key of the ordering; ties cannot happen but id keeps the result
// deterministic anyway.
func (r *LessonRepository) ListByCourse(ctx context.Context, courseID int64) ([]*models.Lesson, error) {
	sql, args, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID}).
		OrderBy("position ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list lessons query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list lessons query")
		return nil, fmt.Errorf("error querying lessons: %w", err)
	}
	defer rows.Close()

	lessons := []*models.Lesson{}
	for rows.Next() {
		lesson, err := scanLesson(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning lesson row: %w", err)
		}
		lessons = append(lessons, lesson)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lesson rows: %w", err)
	}

	return lessons, nil
}

// Update updates a lesson's content fields. Position is never touched here;
// ordering changes only through Reorder.
func (r *LessonRepository) Update(ctx context.Context, lesson *models.Lesson) error {
	sql, args, err := r.sb.Update("lessons").
		SetMap(map[string]interface{}{
			"title":        lesson.Title,
			"content_type": lesson.ContentType,
			"text_content": lesson.TextContent,
			"video_url":    lesson.VideoURL,
			"attachment":   lesson.Attachment,
			"updated_at":   squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": lesson.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update lesson query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", lesson.ID).Msg("Error executing update lesson query")
		return fmt.Errorf("error updating lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// Delete removes a lesson. Remaining positions keep their values; gaps in the
// sequence are fine.
func (r *LessonRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("lessons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete lesson query: %w", err)
	}

	cmdTag, err := r.db.Pool.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("lessonID", id).Msg("Error executing delete lesson query")
		return fmt.Errorf("error deleting lesson: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLessonNotFound
	}

	return nil
}

// Reorder applies a new ordering to a course's lessons in one transaction.
// The request is rejected wholesale if any referenced lesson does not belong
// to the course. Entries with a position below 1 are skipped; lessons the
// request does not mention keep their current positions.
//
// Phase one moves each named lesson to an offset position derived from its
// id, phase two writes the requested values. Without the offset step the
// unique (course_id, position) index would reject swaps. A partial request
// that lands on a position an unmentioned lesson still holds trips that same
// index and rolls the whole transaction back.
func (r *LessonRepository) Reorder(ctx context.Context, courseID int64, placements []LessonPlacement) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		var id int64
		err := tx.QueryRow(ctx, "SELECT id FROM courses WHERE id = $1 FOR UPDATE", courseID).Scan(&id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error locking course row: %w", err)
		}

		rows, err := tx.Query(ctx, "SELECT id FROM lessons WHERE course_id = $1", courseID)
		if err != nil {
			return fmt.Errorf("error querying course lessons: %w", err)
		}
		inCourse := map[int64]bool{}
		for rows.Next() {
			var lessonID int64
			if err := rows.Scan(&lessonID); err != nil {
				rows.Close()
				return fmt.Errorf("error scanning lesson id: %w", err)
			}
			inCourse[lessonID] = true
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("error iterating lesson ids: %w", err)
		}

		placedIDs := make([]int64, 0, len(placements))
		for _, p := range placements {
			if !inCourse[p.LessonID] {
				return apperrors.ErrLessonOutsideCourse
			}
			placedIDs = append(placedIDs, p.LessonID)
		}

		// Phase one: park the named lessons on collision-free positions
		_, err = tx.Exec(ctx,
			"UPDATE lessons SET position = $1 + id WHERE course_id = $2 AND id = ANY($3)",
			reorderOffset, courseID, placedIDs)
		if err != nil {
			return fmt.Errorf("error offsetting lesson positions: %w", err)
		}

		// Phase two: write the requested positions
		for _, p := range placements {
			if p.Position < 1 {
				continue
			}
			_, err = tx.Exec(ctx,
				"UPDATE lessons SET position = $1, updated_at = NOW() WHERE id = $2 AND course_id = $3",
				p.Position, p.LessonID, courseID)
			if err != nil {
				return fmt.Errorf("error setting lesson position: %w", err)
			}
		}

		return nil
	})
}

// GetAdjacent returns the lessons immediately before and after the given
// position within a course. Either may be nil at the edges.
func (r *LessonRepository) GetAdjacent(ctx context.Context, courseID int64, position int) (prev, next *models.Lesson, err error) {
	prevSql, prevArgs, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID}).
		Where(squirrel.Lt{"position": position}).
		OrderBy("position DESC", "id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build previous lesson query: %w", err)
	}

	prev, err = scanLesson(r.db.Pool.QueryRow(ctx, prevSql, prevArgs...))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("error getting previous lesson: %w", err)
		}
		prev = nil
	}

	nextSql, nextArgs, err := r.sb.Select(lessonColumns...).
		From("lessons").
		Where(squirrel.Eq{"course_id": courseID}).
		Where(squirrel.Gt{"position": position}).
		OrderBy("position ASC", "id ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build next lesson query: %w", err)
	}

	next, err = scanLesson(r.db.Pool.QueryRow(ctx, nextSql, nextArgs...))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, fmt.Errorf("error getting next lesson: %w", err)
		}
		next = nil
	}

	return prev, next, nil
}

// CountByCourse returns the number of lessons in a course
func (r *LessonRepository) CountByCourse(ctx context.Context, courseID int64) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM lessons WHERE course_id = $1", courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting lessons: %w", err)
	}
	return count, nil
}
