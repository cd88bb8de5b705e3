package service

import (
	"errors"
	"strings"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrNavigationNotFound      = errors.New("navigation item not found")
	ErrNavigationLabelRequired = errors.New("navigation label is required")
	ErrNavigationPathRequired  = errors.New("navigation path is required")
	ErrNavigationOrder         = errors.New("invalid navigation order")
)

// NavigationService wraps navigation menu operations.
type NavigationService struct {
	db *gorm.DB
}

// NewNavigationService creates a NavigationService instance.
func NewNavigationService(gdb *gorm.DB) *NavigationService {
	return &NavigationService{db: gdb}
}

// NavigationInput represents fields accepted when creating or updating an item.
type NavigationInput struct {
	Label     string
	Path      string
	Icon      string
	ParentID  *uint
	Target    string
	SortOrder int
	IsActive  bool
	Position  string
}

// ListActive 返回顶部导航栏可见的菜单项。
// 展示顺序固定为 (sort_order asc, id asc)。
func (s *NavigationService) ListActive() ([]db.NavigationItem, error) {
	var items []db.NavigationItem
	if err := s.db.
		Where("is_active = ? AND position = ?", true, db.NavigationPositionHeader).
		Order("sort_order asc").
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every navigation item for the admin panel.
func (s *NavigationService) ListAll() ([]db.NavigationItem, error) {
	var items []db.NavigationItem
	if err := s.db.
		Order("sort_order asc").
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Create inserts a new navigation item.
func (s *NavigationService) Create(input NavigationInput) (*db.NavigationItem, error) {
	if err := validateNavigationInput(input); err != nil {
		return nil, err
	}

	item := db.NavigationItem{
		Label:     strings.TrimSpace(input.Label),
		Path:      strings.TrimSpace(input.Path),
		Icon:      strings.TrimSpace(input.Icon),
		ParentID:  input.ParentID,
		Target:    normalizeNavigationTarget(input.Target),
		SortOrder: input.SortOrder,
		IsActive:  input.IsActive,
		Position:  normalizeNavigationPosition(input.Position),
	}
	if item.SortOrder == 0 {
		order, err := s.nextSortOrder(item.Position)
		if err != nil {
			return nil, err
		}
		item.SortOrder = order
	}

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Update modifies an existing navigation item.
func (s *NavigationService) Update(id uint, input NavigationInput) (*db.NavigationItem, error) {
	if err := validateNavigationInput(input); err != nil {
		return nil, err
	}

	var item db.NavigationItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNavigationNotFound
		}
		return nil, err
	}

	item.Label = strings.TrimSpace(input.Label)
	item.Path = strings.TrimSpace(input.Path)
	item.Icon = strings.TrimSpace(input.Icon)
	item.ParentID = input.ParentID
	item.Target = normalizeNavigationTarget(input.Target)
	item.SortOrder = input.SortOrder
	item.IsActive = input.IsActive
	item.Position = normalizeNavigationPosition(input.Position)

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes a navigation item and detaches its children.
func (s *NavigationService) Delete(id uint) error {
	var item db.NavigationItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNavigationNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.NavigationItem{}).
			Where("parent_id = ?", id).
			Update("parent_id", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&item).Error
	})
}

// Reorder updates sort order based on the provided ids sequence.
func (s *NavigationService) Reorder(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return ErrNavigationOrder
		}
		if _, ok := seen[id]; ok {
			return ErrNavigationOrder
		}
		seen[id] = struct{}{}
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for idx, id := range ids {
			result := tx.Model(&db.NavigationItem{}).Where("id = ?", id).Update("sort_order", idx)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNavigationNotFound
			}
		}
		return nil
	})
}

// SetHome 将给定菜单项标记为首页入口，同时清除其他项的首页标记。
func (s *NavigationService) SetHome(id uint) error {
	var item db.NavigationItem
	if err := s.db.First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNavigationNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&db.NavigationItem{}).
			Where("is_home = ?", true).
			Update("is_home", false).Error; err != nil {
			return err
		}
		return tx.Model(&db.NavigationItem{}).
			Where("id = ?", id).
			Update("is_home", true).Error
	})
}

func validateNavigationInput(input NavigationInput) error {
	if strings.TrimSpace(input.Label) == "" {
		return ErrNavigationLabelRequired
	}
	if strings.TrimSpace(input.Path) == "" {
		return ErrNavigationPathRequired
	}
	return nil
}

func normalizeNavigationTarget(target string) string {
	target = strings.TrimSpace(target)
	if target != "_blank" {
		return "_self"
	}
	return target
}

func normalizeNavigationPosition(position string) string {
	position = strings.ToLower(strings.TrimSpace(position))
	if position == "" {
		return db.NavigationPositionHeader
	}
	return position
}

func (s *NavigationService) nextSortOrder(position string) (int, error) {
	var maxSort int
	if err := s.db.Model(&db.NavigationItem{}).
		Where("position = ?", position).
		Select("COALESCE(MAX(sort_order), -1)").
		Scan(&maxSort).Error; err != nil {
		return 0, err
	}
	return maxSort + 1, nil
}
