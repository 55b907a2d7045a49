package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/wexford-labs/widgetry/internal/database"
	"github.com/wexford-labs/widgetry/internal/models"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{pool: db.Pool}
}

func scanPostRow(scanner rowScanner) (*models.Post, error) {
	var post models.Post
	err := scanner.Scan(
		&post.ID, &post.UserID, &post.Text,
		&post.AuthorName, &post.AuthorAvatar, &post.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &post, nil
}

// GetByID loads a post with its likes and comments attached.
func (r *PostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	query := `SELECT id, user_id, text, author_name, author_avatar, created_at FROM posts WHERE id = $1`
	post, err := scanPostRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	if err := r.attachLikes(ctx, post); err != nil {
		return nil, err
	}
	if err := r.attachComments(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *PostRepository) attachLikes(ctx context.Context, post *models.Post) error {
	query := `SELECT id, user_id FROM post_likes WHERE post_id = $1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, post.ID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	defer rows.Close()

	post.Likes = []models.PostLike{}
	for rows.Next() {
		var like models.PostLike
		if err := rows.Scan(&like.ID, &like.UserID); err != nil {
			return database.MapPostgresError(err)
		}
		post.Likes = append(post.Likes, like)
	}
	return rows.Err()
}

func (r *PostRepository) attachComments(ctx context.Context, post *models.Post) error {
	query := `
		SELECT id, user_id, text, author_name, author_avatar, created_at
		FROM post_comments WHERE post_id = $1 ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, post.ID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	defer rows.Close()

	post.Comments = []models.PostComment{}
	for rows.Next() {
		var comment models.PostComment
		err := rows.Scan(
			&comment.ID, &comment.UserID, &comment.Text,
			&comment.AuthorName, &comment.AuthorAvatar, &comment.CreatedAt,
		)
		if err != nil {
			return database.MapPostgresError(err)
		}
		post.Comments = append(post.Comments, comment)
	}
	return rows.Err()
}

func (r *PostRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	post.ID = uuid.New().String()
	post.CreatedAt = time.Now()

	query := `
		INSERT INTO posts (id, user_id, text, author_name, author_avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, text, author_name, author_avatar, created_at
	`

	created, err := scanPostRow(r.pool.QueryRow(ctx, query,
		post.ID, post.UserID, post.Text,
		post.AuthorName, post.AuthorAvatar, post.CreatedAt,
	))
	if err != nil {
		return nil, err
	}
	created.Likes = []models.PostLike{}
	created.Comments = []models.PostComment{}
	return created, nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddLike(ctx context.Context, postID, userID string) error {
	query := `
		INSERT INTO post_likes (id, post_id, user_id, created_at)
		VALUES ($1, $2, $3, now())
	`

	_, err := r.pool.Exec(ctx, query, uuid.New().String(), postID, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	return nil
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID, userID string) error {
	query := `DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`

	result, err := r.pool.Exec(ctx, query, postID, userID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PostRepository) AddComment(ctx context.Context, postID string, comment *models.PostComment) (*models.PostComment, error) {
	comment.ID = uuid.New().String()
	comment.CreatedAt = time.Now()

	query := `
		INSERT INTO post_comments (id, post_id, user_id, text, author_name, author_avatar, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, text, author_name, author_avatar, created_at
	`

	var created models.PostComment
	err := r.pool.QueryRow(ctx, query,
		comment.ID, postID, comment.UserID, comment.Text,
		comment.AuthorName, comment.AuthorAvatar, comment.CreatedAt,
	).Scan(
		&created.ID, &created.UserID, &created.Text,
		&created.AuthorName, &created.AuthorAvatar, &created.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &created, nil
}

func (r *PostRepository) GetComment(ctx context.Context, postID, commentID string) (*models.PostComment, error) {
	query := `
		SELECT id, user_id, text, author_name, author_avatar, created_at
		FROM post_comments WHERE id = $1 AND post_id = $2
	`

	var comment models.PostComment
	err := r.pool.QueryRow(ctx, query, commentID, postID).Scan(
		&comment.ID, &comment.UserID, &comment.Text,
		&comment.AuthorName, &comment.AuthorAvatar, &comment.CreatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}
	return &comment, nil
}

func (r *PostRepository) RemoveComment(ctx context.Context, postID, commentID string) error {
	query := `DELETE FROM post_comments WHERE id = $1 AND post_id = $2`

	result, err := r.pool.Exec(ctx, query, commentID, postID)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// HasLiked reports whether the user already liked the post.
func (r *PostRepository) HasLiked(ctx context.Context, postID, userID string) (bool, error) {
	query := `SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2`

	var one int
	err := r.pool.QueryRow(ctx, query, postID, userID).Scan(&one)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, database.MapPostgresError(err)
	}
	return true, nil
}
