package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/linkdeck/internal/db"
	"gorm.io/gorm"
)

var (
	// ErrOwnerNotFound 在 handle 对应的所有者不存在时返回。
	ErrOwnerNotFound = errors.New("owner not found")
	// ErrPageNotFound 在查找策略未命中任何页面时返回。
	ErrPageNotFound = errors.New("page not found")
	// ErrPageInactive 在页面存在但被停用时返回，区别于不存在。
	ErrPageInactive = errors.New("page inactive")
	// ErrPageForbidden 在私有页面被非所有者访问时返回。
	ErrPageForbidden = errors.New("page forbidden")
)

// ResolveInput 是页面解析的类型化输入。
// CallerID 为 nil 表示匿名访问；Preview 只影响是否记录浏览，不影响可见性判定。
type ResolveInput struct {
	OwnerHandle string
	Identifier  string
	CallerID    *uint
	Preview     bool
}

// Resolution 是成功解析的结果。
type Resolution struct {
	Owner db.Owner
	Page  db.Page
}

// PageResolveService 负责按所有者与标识定位页面并执行可见性判定。
type PageResolveService struct {
	db *gorm.DB
}

// NewPageResolveService 构造 PageResolveService。
func NewPageResolveService(gdb *gorm.DB) *PageResolveService {
	return &PageResolveService{db: gdb}
}

// Resolve 依次完成所有者查找、标识解析、页面查找与访问判定。
// 判定顺序固定：所有者不存在 → 页面不存在 → 页面停用 → 私有页非本人，
// 全部通过后返回所有者与页面。
func (s *PageResolveService) Resolve(input ResolveInput) (*Resolution, error) {
	handle := strings.TrimSpace(input.OwnerHandle)
	if handle == "" {
		return nil, ErrOwnerNotFound
	}

	var owner db.Owner
	if err := s.db.Where("handle = ?", handle).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("find owner: %w", err)
	}

	page, err := s.lookupPage(owner.ID, ParseIdentifier(strings.TrimSpace(input.Identifier)))
	if err != nil {
		return nil, err
	}

	if !page.IsActive {
		return nil, ErrPageInactive
	}

	if page.Visibility == db.VisibilityPrivate {
		if input.CallerID == nil || *input.CallerID != owner.ID {
			return nil, ErrPageForbidden
		}
	}

	return &Resolution{Owner: owner, Page: *page}, nil
}

// lookupPage 按分类结果执行对应的查找策略，每种策略至多命中一个页面。
func (s *PageResolveService) lookupPage(ownerID uint, ident PageIdentifier) (*db.Page, error) {
	var page db.Page

	switch ident.Kind {
	case IdentifierIndex:
		if err := s.firstPage(&page, "owner_id = ? AND page_index = ?", ownerID, ident.Index); err != nil {
			return nil, err
		}
	case IdentifierSlug:
		if err := s.firstPage(&page, "owner_id = ? AND slug = ?", ownerID, ident.Slug); err != nil {
			return nil, err
		}
	default:
		// 默认页：优先 is_default 标记，缺失时回退 page_index = 0。
		err := s.firstPage(&page, "owner_id = ? AND is_default = ?", ownerID, true)
		if errors.Is(err, ErrPageNotFound) {
			err = s.firstPage(&page, "owner_id = ? AND page_index = ?", ownerID, 0)
		}
		if err != nil {
			return nil, err
		}
	}

	return &page, nil
}

func (s *PageResolveService) firstPage(dst *db.Page, query string, args ...interface{}) error {
	if err := s.db.Where(query, args...).First(dst).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPageNotFound
		}
		return fmt.Errorf("find page: %w", err)
	}
	return nil
}
