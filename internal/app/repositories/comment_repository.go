package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmorales/aulago/internal/app/models"
	"github.com/dmorales/aulago/internal/pkg/apperrors"
	"github.com/dmorales/aulago/internal/pkg/logger"
)

// CommentWithAuthor joins a comment with its author's display name
type CommentWithAuthor struct {
	Comment    models.Comment
	AuthorName string
}

// CommentRepository handles course comment database operations
type CommentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new comment and sets its ID
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	sql, args, err := r.sb.Insert("comments").
		Columns("user_id", "course_id", "content").
		Values(comment.UserID, comment.CourseID, comment.Content).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create comment query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", comment.CourseID).Msg("Error executing create comment query")
		return fmt.Errorf("error creating comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "content", "created_at").
		From("comments").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get comment query: %w", err)
	}

	comment := &models.Comment{}
	err = r.db.QueryRow(ctx, sql, args...).Scan(&comment.ID, &comment.UserID,
		&comment.CourseID, &comment.Content, &comment.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewResourceNotFoundError("comment not found")
		}
		logger.Error().Err(err).Int64("commentID", id).Msg("Error scanning comment row")
		return nil, fmt.Errorf("error getting comment by ID: %w", err)
	}

	return comment, nil
}

// ListByCourse returns a course's comments newest first, with author names
func (r *CommentRepository) ListByCourse(ctx context.Context, courseID int64) ([]*CommentWithAuthor, error) {
	sql, args, err := r.sb.Select(
		"cm.id", "cm.user_id", "cm.course_id", "cm.content", "cm.created_at",
		"u.first_name || ' ' || u.last_name AS author_name").
		From("comments cm").
		Join("users u ON u.id = cm.user_id").
		Where(squirrel.Eq{"cm.course_id": courseID}).
		OrderBy("cm.created_at DESC", "cm.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list comments query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", courseID).Msg("Error executing list comments query")
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	comments := []*CommentWithAuthor{}
	for rows.Next() {
		c := &CommentWithAuthor{}
		err := rows.Scan(&c.Comment.ID, &c.Comment.UserID, &c.Comment.CourseID,
			&c.Comment.Content, &c.Comment.CreatedAt, &c.AuthorName)
		if err != nil {
			return nil, fmt.Errorf("error scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comment rows: %w", err)
	}

	return comments, nil
}

// Delete removes a comment
func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("comments").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete comment query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("commentID", id).Msg("Error executing delete comment query")
		return fmt.Errorf("error deleting comment: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewResourceNotFoundError("comment not found")
	}

	return nil
}
