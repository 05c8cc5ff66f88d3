package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"blogapi/internal/cache"
	"blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// CommentService handles comment operations, co-mutating the parent post's
// comment counter inside the same transaction as every comment row change.
type CommentService interface {
	Add(ctx context.Context, postID, authorID uint, content string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]model.Comment, error)
	Get(ctx context.Context, id uint) (*model.Comment, error)
	Update(ctx context.Context, id uint, content string) (*model.Comment, error)
	Delete(ctx context.Context, id uint) error
	CountByPost(ctx context.Context, postID uint) (int64, error)
}

type commentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	cache       *cache.Client
}

// NewCommentService creates a new comment service.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository, cache *cache.Client) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		cache:       cache,
	}
}

// Add creates a comment and increments the parent's comment counter by exactly
// one in the same transaction; the post row lock serializes concurrent adds.
func (s *commentService) Add(ctx context.Context, postID, authorID uint, content string) (*model.Comment, error) {
	comment := &model.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}

	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, posts repository.PostRepository, _ repository.LikeRepository, comments repository.CommentRepository) error {
		post, err := posts.FindByIDForUpdate(ctx, postID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}
		if err := comments.Create(ctx, comment); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		return posts.UpdateCommentCount(ctx, postID, post.CommentCount+1)
	})
	if err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, cache.PostKey(postID))
	return comment, nil
}

func (s *commentService) ListByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *commentService) Get(ctx context.Context, id uint) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id uint, content string) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCommentNotFound
		}
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment and decrements the parent's counter, floored at
// zero so prior drift can never push it negative.
func (s *commentService) Delete(ctx context.Context, id uint) error {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCommentNotFound
		}
		return err
	}

	err = s.postRepo.WithTransaction(ctx, func(ctx context.Context, posts repository.PostRepository, _ repository.LikeRepository, comments repository.CommentRepository) error {
		post, err := posts.FindByIDForUpdate(ctx, comment.PostID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}
		// Re-check under the post lock: a concurrent delete may have removed
		// the comment between the lookup above and this transaction, and the
		// counter must only move when a row actually goes away.
		if _, err := comments.FindByID(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrCommentNotFound
			}
			return err
		}
		if err := comments.Delete(ctx, id); err != nil {
			return err
		}
		count := post.CommentCount - 1
		if count < 0 {
			count = 0
		}
		return posts.UpdateCommentCount(ctx, comment.PostID, count)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, cache.PostKey(comment.PostID))
	return nil
}

// CountByPost returns the authoritative comment count from the child table.
func (s *commentService) CountByPost(ctx context.Context, postID uint) (int64, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errors.ErrPostNotFound
		}
		return 0, err
	}
	return s.commentRepo.CountByPost(ctx, postID)
}
