package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/linkdeck/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrRedirectNotFound 在短链 slug 不存在时返回。
	ErrRedirectNotFound = errors.New("redirect not found")
	// ErrRedirectExpired 在短链已过期时返回，过期短链不跳转也不计数。
	ErrRedirectExpired = errors.New("redirect expired")
)

// RedirectService 负责短链的读取与过期判定。
type RedirectService struct {
	db *gorm.DB
}

// NewRedirectService 构造 RedirectService。
func NewRedirectService(gdb *gorm.DB) *RedirectService {
	return &RedirectService{db: gdb}
}

// GetBySlug 按全局唯一 slug 读取短链并检查过期时间。
func (s *RedirectService) GetBySlug(slug string, now time.Time) (*db.Redirect, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, ErrRedirectNotFound
	}

	var redirect db.Redirect
	if err := s.db.Where("slug = ?", trimmed).First(&redirect).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRedirectNotFound
		}
		return nil, fmt.Errorf("find redirect: %w", err)
	}

	if redirect.ExpiresAt != nil && redirect.ExpiresAt.Before(now) {
		return nil, ErrRedirectExpired
	}

	return &redirect, nil
}
