package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// CourseSummary is a course row joined with its aggregate counters
type CourseSummary struct {
	Course          models.Course
	InstructorName  string
	LessonCount     int
	EnrollmentCount int
	AverageRating   *float64
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var courseColumns = []string{"id", "identifier", "instructor_id", "title", "description", "is_listed", "created_at"}

func scanCourse(row pgx.Row) (*models.Course, error) {
	course := &models.Course{}
	err := row.Scan(&course.ID, &course.Identifier, &course.InstructorID,
		&course.Title, &course.Description, &course.IsListed, &course.CreatedAt)
	if err != nil {
		return nil, err
	}
	return course, nil
}

// Create inserts a new course. The identifier is generated here so callers
// never pick their own.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	course.Identifier = uuid.New()

	sql, args, err := r.sb.Insert("courses").
		Columns("identifier", "instructor_id", "title", "description", "is_listed").
		Values(course.Identifier, course.InstructorID, course.Title, course.Description, course.IsListed).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by numeric ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by ID: %w", err)
	}

	return course, nil
}

// GetByIdentifier retrieves a course by its URL identifier
func (r *CourseRepository) GetByIdentifier(ctx context.Context, identifier uuid.UUID) (*models.Course, error) {
	sql, args, err := r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"identifier": identifier}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get course by identifier query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Str("identifier", identifier.String()).Msg("Error scanning course row")
		return nil, fmt.Errorf("error getting course by identifier: %w", err)
	}

	return course, nil
}

// Update updates a course's editable fields
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"title":       course.Title,
			"description": course.Description,
			"is_listed":   course.IsListed,
		}).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete removes a course. Lessons, enrollments, progress, ratings and
// comments go with it via ON DELETE CASCADE.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

func (r *CourseRepository) summaryQuery() squirrel.SelectBuilder {
	return r.sb.Select(
		"c.id", "c.identifier", "c.instructor_id", "c.title", "c.description", "c.is_listed", "c.created_at",
		"u.first_name || ' ' || u.last_name AS instructor_name",
		"(SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count",
		"(SELECT COUNT(*) FROM enrollments e WHERE e.course_id = c.id) AS enrollment_count",
		"(SELECT AVG(rating)::float8 FROM course_ratings cr WHERE cr.course_id = c.id) AS average_rating",
	).
		From("courses c").
		Join("users u ON u.id = c.instructor_id")
}

func (r *CourseRepository) querySummaries(ctx context.Context, builder squirrel.SelectBuilder) ([]*CourseSummary, error) {
	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build course summary query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing course summary query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	summaries := []*CourseSummary{}
	for rows.Next() {
		s := &CourseSummary{}
		err := rows.Scan(&s.Course.ID, &s.Course.Identifier, &s.Course.InstructorID,
			&s.Course.Title, &s.Course.Description, &s.Course.IsListed, &s.Course.CreatedAt,
			&s.InstructorName, &s.LessonCount, &s.EnrollmentCount, &s.AverageRating)
		if err != nil {
			return nil, fmt.Errorf("error scanning course summary row: %w", err)
		}
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course summary rows: %w", err)
	}

	return summaries, nil
}

const instructorNameExpr = "u.first_name || ' ' || u.last_name"

func applyCatalogueFilter(builder squirrel.SelectBuilder, search, instructor string) squirrel.SelectBuilder {
	if search != "" {
		pattern := "%" + search + "%"
		builder = builder.Where(squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.description": pattern},
			squirrel.ILike{instructorNameExpr: pattern},
		})
	}
	if instructor != "" {
		builder = builder.Where(squirrel.ILike{instructorNameExpr: "%" + instructor + "%"})
	}
	return builder
}

// ListListed returns listed courses matching the optional search term and
// instructor name filter, newest first, with offset pagination
func (r *CourseRepository) ListListed(ctx context.Context, search, instructor string, offset, limit int) ([]*CourseSummary, error) {
	builder := applyCatalogueFilter(
		r.summaryQuery().Where(squirrel.Eq{"c.is_listed": true}),
		search, instructor)

	builder = builder.
		OrderBy("c.created_at DESC", "c.id DESC").
		Offset(uint64(offset)).
		Limit(uint64(limit))

	return r.querySummaries(ctx, builder)
}

// CountListed returns the number of listed courses matching the filter
func (r *CourseRepository) CountListed(ctx context.Context, search, instructor string) (int, error) {
	builder := applyCatalogueFilter(
		r.sb.Select("COUNT(*)").
			From("courses c").
			Join("users u ON u.id = c.instructor_id").
			Where(squirrel.Eq{"c.is_listed": true}),
		search, instructor)

	sql, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return 0, fmt.Errorf("error counting courses: %w", err)
	}

	return count, nil
}

// GetSummary returns one course with its aggregate counters
func (r *CourseRepository) GetSummary(ctx context.Context, id int64) (*CourseSummary, error) {
	summaries, err := r.querySummaries(ctx, r.summaryQuery().Where(squirrel.Eq{"c.id": id}).Limit(1))
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return nil, apperrors.ErrCourseNotFound
	}
	return summaries[0], nil
}

// ListByInstructor returns all courses taught by a user, newest first
func (r *CourseRepository) ListByInstructor(ctx context.Context, instructorID int64) ([]*CourseSummary, error) {
	builder := r.summaryQuery().
		Where(squirrel.Eq{"c.instructor_id": instructorID}).
		OrderBy("c.created_at DESC", "c.id DESC")

	return r.querySummaries(ctx, builder)
}

// ListEnrolled returns all courses a user is enrolled in, most recently
// enrolled first
func (r *CourseRepository) ListEnrolled(ctx context.Context, userID int64) ([]*CourseSummary, error) {
	builder := r.summaryQuery().
		Join("enrollments en ON en.course_id = c.id").
		Where(squirrel.Eq{"en.user_id": userID}).
		OrderBy("en.enrolled_at DESC", "c.id DESC")

	return r.querySummaries(ctx, builder)
}
