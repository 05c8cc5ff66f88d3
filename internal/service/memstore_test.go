package service

import (
	"context"
	"sort"
	"sync"

	"gorm.io/gorm"

	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// memStore is a stateful in-memory stand-in for the database used to exercise
// the counter consistency engine. A single mutex plays the role of the row
// lock: WithTransaction holds it for the whole closure, so transactions on the
// store serialize exactly like conflicting row-locked transactions would.
type memStore struct {
	mu       sync.Mutex
	posts    map[uint]*model.Post
	likes    map[uint]*model.Like
	comments map[uint]*model.Comment
	owners   map[uint]string // post/comment id -> owning username (shared test fixture)
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{
		posts:    make(map[uint]*model.Post),
		likes:    make(map[uint]*model.Like),
		comments: make(map[uint]*model.Comment),
		owners:   make(map[uint]string),
	}
}

func (s *memStore) id() uint {
	s.nextID++
	return s.nextID
}

func (s *memStore) lock(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// --- post repository ---

type fakePostRepo struct {
	s    *memStore
	inTx bool
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func (r *fakePostRepo) Create(ctx context.Context, post *model.Post) error {
	defer r.s.lock(r.inTx)()
	post.ID = r.s.id()
	cp := *post
	r.s.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) Update(ctx context.Context, post *model.Post) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.posts[post.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *post
	r.s.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	defer r.s.lock(r.inTx)()
	post, ok := r.s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *post
	return &cp, nil
}

func (r *fakePostRepo) FindByIDForUpdate(ctx context.Context, id uint) (*model.Post, error) {
	return r.FindByID(ctx, id)
}

func (r *fakePostRepo) List(ctx context.Context, offset, limit int) ([]model.Post, error) {
	defer r.s.lock(r.inTx)()
	ids := make([]uint, 0, len(r.s.posts))
	for id := range r.s.posts {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var out []model.Post
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(out) >= limit {
			break
		}
		out = append(out, *r.s.posts[id])
	}
	return out, nil
}

func (r *fakePostRepo) UpdateLikeCount(ctx context.Context, id uint, count int64) error {
	defer r.s.lock(r.inTx)()
	post, ok := r.s.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.LikeCount = count
	return nil
}

func (r *fakePostRepo) UpdateCommentCount(ctx context.Context, id uint, count int64) error {
	defer r.s.lock(r.inTx)()
	post, ok := r.s.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	post.CommentCount = count
	return nil
}

func (r *fakePostRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.posts, id)
	return nil
}

func (r *fakePostRepo) OwnerUsername(ctx context.Context, id uint) (string, error) {
	defer r.s.lock(r.inTx)()
	owner, ok := r.s.owners[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return owner, nil
}

func (r *fakePostRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context, posts repository.PostRepository, likes repository.LikeRepository, comments repository.CommentRepository) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(ctx, &fakePostRepo{s: r.s, inTx: true}, &fakeLikeRepo{s: r.s, inTx: true}, &fakeCommentRepo{s: r.s, inTx: true})
}

// --- like repository ---

type fakeLikeRepo struct {
	s    *memStore
	inTx bool
}

var _ repository.LikeRepository = (*fakeLikeRepo)(nil)

func (r *fakeLikeRepo) Create(ctx context.Context, like *model.Like) error {
	defer r.s.lock(r.inTx)()
	for _, l := range r.s.likes {
		if l.PostID == like.PostID && l.UserID == like.UserID {
			return gorm.ErrDuplicatedKey
		}
	}
	like.ID = r.s.id()
	cp := *like
	r.s.likes[like.ID] = &cp
	return nil
}

func (r *fakeLikeRepo) Find(ctx context.Context, postID, userID uint) (*model.Like, error) {
	defer r.s.lock(r.inTx)()
	for _, l := range r.s.likes {
		if l.PostID == postID && l.UserID == userID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeLikeRepo) Delete(ctx context.Context, postID, userID uint) error {
	defer r.s.lock(r.inTx)()
	for id, l := range r.s.likes {
		if l.PostID == postID && l.UserID == userID {
			delete(r.s.likes, id)
		}
	}
	return nil
}

func (r *fakeLikeRepo) CountByPost(ctx context.Context, postID uint) (int64, error) {
	defer r.s.lock(r.inTx)()
	var count int64
	for _, l := range r.s.likes {
		if l.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeLikeRepo) DeleteByPost(ctx context.Context, postID uint) error {
	defer r.s.lock(r.inTx)()
	for id, l := range r.s.likes {
		if l.PostID == postID {
			delete(r.s.likes, id)
		}
	}
	return nil
}

// --- comment repository ---

type fakeCommentRepo struct {
	s    *memStore
	inTx bool
}

var _ repository.CommentRepository = (*fakeCommentRepo)(nil)

func (r *fakeCommentRepo) Create(ctx context.Context, comment *model.Comment) error {
	defer r.s.lock(r.inTx)()
	comment.ID = r.s.id()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) Update(ctx context.Context, comment *model.Comment) error {
	defer r.s.lock(r.inTx)()
	if _, ok := r.s.comments[comment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) FindByID(ctx context.Context, id uint) (*model.Comment, error) {
	defer r.s.lock(r.inTx)()
	comment, ok := r.s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *comment
	return &cp, nil
}

func (r *fakeCommentRepo) ListByPost(ctx context.Context, postID uint) ([]model.Comment, error) {
	defer r.s.lock(r.inTx)()
	var out []model.Comment
	for _, c := range r.s.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Delete(ctx context.Context, id uint) error {
	defer r.s.lock(r.inTx)()
	delete(r.s.comments, id)
	return nil
}

func (r *fakeCommentRepo) CountByPost(ctx context.Context, postID uint) (int64, error) {
	defer r.s.lock(r.inTx)()
	var count int64
	for _, c := range r.s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (r *fakeCommentRepo) DeleteByPost(ctx context.Context, postID uint) error {
	defer r.s.lock(r.inTx)()
	for id, c := range r.s.comments {
		if c.PostID == postID {
			delete(r.s.comments, id)
		}
	}
	return nil
}

func (r *fakeCommentRepo) OwnerUsername(ctx context.Context, id uint) (string, error) {
	defer r.s.lock(r.inTx)()
	owner, ok := r.s.owners[id]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return owner, nil
}
