package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blogapi/internal/cache"
	"blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

const postCacheTTL = 5 * time.Minute

// PostService handles post operations and keeps the denormalized like and
// comment counters consistent with the child tables.
type PostService interface {
	Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error)
	List(ctx context.Context, page, size int) ([]model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	Update(ctx context.Context, id uint, title, content string) (*model.Post, error)
	Delete(ctx context.Context, id uint) error
	ToggleLike(ctx context.Context, postID, userID uint) (liked bool, likeCount int64, err error)
	LikeCount(ctx context.Context, postID uint) (int64, error)
}

type postService struct {
	postRepo repository.PostRepository
	likeRepo repository.LikeRepository
	cache    *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(postRepo repository.PostRepository, likeRepo repository.LikeRepository, cache *cache.Client) PostService {
	return &postService{
		postRepo: postRepo,
		likeRepo: likeRepo,
		cache:    cache,
	}
}

func (s *postService) Create(ctx context.Context, authorID uint, title, content string) (*model.Post, error) {
	post := &model.Post{
		Title:    title,
		Content:  content,
		AuthorID: authorID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context, page, size int) ([]model.Post, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10
	}
	return s.postRepo.List(ctx, (page-1)*size, size)
}

func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	if data, _ := s.cache.Get(ctx, cache.PostKey(id)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}

	if data, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(ctx, cache.PostKey(id), data, postCacheTTL)
	}
	return post, nil
}

func (s *postService) Update(ctx context.Context, id uint, title, content string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, err
	}

	post.Title = title
	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}

	_ = s.cache.Delete(ctx, cache.PostKey(id))
	return post, nil
}

// Delete removes a post together with all its like and comment rows. The
// child rows go first and the whole sequence runs in one transaction, so a
// failure partway through leaves no orphaned children and no dangling post.
func (s *postService) Delete(ctx context.Context, id uint) error {
	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, posts repository.PostRepository, likes repository.LikeRepository, comments repository.CommentRepository) error {
		if _, err := posts.FindByIDForUpdate(ctx, id); err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}
		if err := likes.DeleteByPost(ctx, id); err != nil {
			return fmt.Errorf("delete likes: %w", err)
		}
		if err := comments.DeleteByPost(ctx, id); err != nil {
			return fmt.Errorf("delete comments: %w", err)
		}
		return posts.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	_ = s.cache.Delete(ctx, cache.PostKey(id))
	return nil
}

// ToggleLike flips the (post, user) like membership and co-mutates the post's
// like counter inside one transaction. The post row is locked first, so
// concurrent toggles on the same post serialize and the final counter always
// equals the number of live like rows. A duplicate-key race is retried once,
// then surfaced as a conflict.
func (s *postService) ToggleLike(ctx context.Context, postID, userID uint) (bool, int64, error) {
	liked, count, err := s.toggleLikeOnce(ctx, postID, userID)
	if err == gorm.ErrDuplicatedKey {
		liked, count, err = s.toggleLikeOnce(ctx, postID, userID)
		if err == gorm.ErrDuplicatedKey {
			err = errors.ErrConflict
		}
	}
	if err != nil {
		return false, 0, err
	}

	_ = s.cache.Delete(ctx, cache.PostKey(postID))
	return liked, count, nil
}

func (s *postService) toggleLikeOnce(ctx context.Context, postID, userID uint) (bool, int64, error) {
	var liked bool
	var count int64

	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, posts repository.PostRepository, likes repository.LikeRepository, _ repository.CommentRepository) error {
		post, err := posts.FindByIDForUpdate(ctx, postID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.ErrPostNotFound
			}
			return err
		}

		_, err = likes.Find(ctx, postID, userID)
		switch err {
		case nil:
			if err := likes.Delete(ctx, postID, userID); err != nil {
				return err
			}
			liked = false
			count = post.LikeCount - 1
			if count < 0 {
				count = 0
			}
		case gorm.ErrRecordNotFound:
			if err := likes.Create(ctx, &model.Like{PostID: postID, UserID: userID}); err != nil {
				return err
			}
			liked = true
			count = post.LikeCount + 1
		default:
			return err
		}

		return posts.UpdateLikeCount(ctx, postID, count)
	})

	return liked, count, err
}

// LikeCount returns the authoritative like count from the child table.
func (s *postService) LikeCount(ctx context.Context, postID uint) (int64, error) {
	if _, err := s.postRepo.FindByID(ctx, postID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, errors.ErrPostNotFound
		}
		return 0, err
	}
	return s.likeRepo.CountByPost(ctx, postID)
}
