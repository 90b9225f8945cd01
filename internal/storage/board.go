package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrWrongPassword = errors.New("wrong password")
)

// Post lists are cached briefly in Redis; the lounge page polls and the
// board is low-traffic, so a short TTL beats explicit invalidation.
const postListCacheTTL = 30 * time.Second

func (s *Store) CreatePost(nickname, content, passwordHash string, isAdmin bool) (*Post, error) {
	p := &Post{
		Nickname:     nickname,
		Content:      content,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
	}
	if err := s.DB.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// ListPosts returns posts newest first with limit/offset paging.
func (s *Store) ListPosts(limit, offset int) ([]Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("painori:posts:%d:%d", limit, offset)

	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Post
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var posts []Post
	if err := s.DB.Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	if s.Redis != nil && len(posts) > 0 {
		if bs, err := json.Marshal(posts); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, postListCacheTTL).Err()
		}
	}

	return posts, nil
}

func (s *Store) GetPost(id uint) (*Post, error) {
	var p Post
	if err := s.DB.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &p, nil
}

// UpdatePost rewrites a post's content after the password hash matches.
// An admin hash override is handled by the caller passing isAdmin.
func (s *Store) UpdatePost(id uint, content, passwordHash string, isAdmin bool) (*Post, error) {
	p, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && p.PasswordHash != passwordHash {
		return nil, ErrWrongPassword
	}

	if err := s.DB.Model(p).Update("content", content).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) DeletePost(id uint, passwordHash string, isAdmin bool) error {
	p, err := s.GetPost(id)
	if err != nil {
		return err
	}
	if !isAdmin && p.PasswordHash != passwordHash {
		return ErrWrongPassword
	}
	return s.DB.Delete(p).Error
}
