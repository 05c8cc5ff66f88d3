package repository

import (
	"context"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

// PostRepository defines post persistence operations. Counter mutations go
// through WithTransaction plus FindByIDForUpdate so that concurrent updates to
// the same post serialize on the row lock.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context, offset, limit int) ([]model.Post, error)
	UpdateLikeCount(ctx context.Context, id uint, count int64) error
	UpdateCommentCount(ctx context.Context, id uint, count int64) error
	Delete(ctx context.Context, id uint) error
	OwnerUsername(ctx context.Context, id uint) (string, error)
	// WithTransaction executes fn with post, like and comment repositories all
	// bound to the same database transaction.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, posts PostRepository, likes LikeRepository, comments CommentRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// FindByIDForUpdate finds a post by ID with a row-level lock.
func (r *postRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).Set("gorm:query_option", "FOR UPDATE").
		Where("id = ?", id).First(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).Preload("Author").
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) UpdateLikeCount(ctx context.Context, id uint, count int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("like_count", count).Error
}

func (r *postRepository) UpdateCommentCount(ctx context.Context, id uint, count int64) error {
	return r.db.WithContext(ctx).Model(&model.Post{}).
		Where("id = ?", id).
		Update("comment_count", count).Error
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

// OwnerUsername resolves the username of the post's author.
func (r *postRepository) OwnerUsername(ctx context.Context, id uint) (string, error) {
	var username string
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Select("users.username").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("posts.id = ?", id).
		Scan(&username).Error
	if err != nil {
		return "", err
	}
	if username == "" {
		return "", gorm.ErrRecordNotFound
	}
	return username, nil
}

// WithTransaction executes fn within a database transaction.
func (r *postRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, posts PostRepository, likes LikeRepository, comments CommentRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &postRepository{db: tx}, &likeRepository{db: tx}, &commentRepository{db: tx})
	})
}
