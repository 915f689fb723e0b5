package service

import (
	"errors"
	"fmt"

	"github.com/linkdeck/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrLinkNotFound 在链接不存在时返回。
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkUnavailable 在链接所属页面被停用或设为私有时返回，对外同样表现为 404。
	ErrLinkUnavailable = errors.New("link page unavailable")
)

// LinkService 负责链接的读取与跳转前校验。
type LinkService struct {
	db *gorm.DB
}

// NewLinkService 构造 LinkService。
func NewLinkService(gdb *gorm.DB) *LinkService {
	return &LinkService{db: gdb}
}

// Get 按 ID 读取链接。
func (s *LinkService) Get(id uint) (*db.Link, error) {
	var link db.Link
	if err := s.db.First(&link, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("find link: %w", err)
	}
	return &link, nil
}

// GetForRedirect 读取链接并校验可跳转性：
// 挂在页面下的链接要求页面处于启用且公开状态；
// 历史遗留的所有者级链接（无页面）直接放行。
func (s *LinkService) GetForRedirect(id uint) (*db.Link, error) {
	link, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if link.PageID == nil {
		return link, nil
	}

	var page db.Page
	if err := s.db.First(&page, *link.PageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLinkUnavailable
		}
		return nil, fmt.Errorf("find link page: %w", err)
	}

	if !page.IsActive || page.Visibility != db.VisibilityPublic {
		return nil, ErrLinkUnavailable
	}

	return link, nil
}
