package services

import (
	"context"
	"fmt"

	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/pkg/logger"
)

type PostStore interface {
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	Delete(ctx context.Context, id string) error
	AddLike(ctx context.Context, postID, userID string) error
	RemoveLike(ctx context.Context, postID, userID string) error
	HasLiked(ctx context.Context, postID, userID string) (bool, error)
	AddComment(ctx context.Context, postID string, comment *models.PostComment) (*models.PostComment, error)
	GetComment(ctx context.Context, postID, commentID string) (*models.PostComment, error)
	RemoveComment(ctx context.Context, postID, commentID string) error
}

type PostService struct {
	posts PostStore
	audit *logger.AuditLogger
}

func NewPostService(posts PostStore, audit *logger.AuditLogger) *PostService {
	return &PostService{posts: posts, audit: audit}
}

func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// Create snapshots the author's display name and avatar onto the post so
// it keeps rendering even if the account changes later.
func (s *PostService) Create(ctx context.Context, principal *models.User, text string) (*models.Post, error) {
	post := &models.Post{
		UserID:       principal.ID,
		Text:         text,
		AuthorName:   principal.Name,
		AuthorAvatar: principal.AvatarURL,
	}
	return s.posts.Create(ctx, post)
}

func (s *PostService) Delete(ctx context.Context, principal *models.User, id string) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.CanModify(principal, post.UserID) {
		return fmt.Errorf("user %s is not authorized to delete this post: %w",
			principal.ID, models.ErrForbidden)
	}
	return s.posts.Delete(ctx, id)
}

// Like records a like; liking a post twice is a bad request.
func (s *PostService) Like(ctx context.Context, principal *models.User, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.posts.HasLiked(ctx, post.ID, principal.ID)
	if err != nil {
		return nil, err
	}
	if liked {
		return nil, fmt.Errorf("post already liked: %w", models.ErrBadRequest)
	}

	if err := s.posts.AddLike(ctx, post.ID, principal.ID); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// Unlike removes the principal's like; unliking a post that was never
// liked is a bad request.
func (s *PostService) Unlike(ctx context.Context, principal *models.User, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	liked, err := s.posts.HasLiked(ctx, post.ID, principal.ID)
	if err != nil {
		return nil, err
	}
	if !liked {
		return nil, fmt.Errorf("post has not yet been liked: %w", models.ErrBadRequest)
	}

	if err := s.posts.RemoveLike(ctx, post.ID, principal.ID); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

func (s *PostService) AddComment(ctx context.Context, principal *models.User, postID, text string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	comment := &models.PostComment{
		UserID:       principal.ID,
		Text:         text,
		AuthorName:   principal.Name,
		AuthorAvatar: principal.AvatarURL,
	}
	if _, err := s.posts.AddComment(ctx, post.ID, comment); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}

func (s *PostService) RemoveComment(ctx context.Context, principal *models.User, postID, commentID string) (*models.Post, error) {
	comment, err := s.posts.GetComment(ctx, postID, commentID)
	if err != nil {
		return nil, err
	}
	if !auth.CanModify(principal, comment.UserID) {
		return nil, fmt.Errorf("user %s is not authorized to delete this comment: %w",
			principal.ID, models.ErrForbidden)
	}

	if err := s.posts.RemoveComment(ctx, postID, commentID); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}
