package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/inklog/internal/cache"
	"github.com/inklog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPageTypeInvalid     = errors.New("page type is invalid")
	ErrLayoutIDRequired    = errors.New("layout id is required")
	ErrLayoutNotFound      = errors.New("layout template not found")
	ErrLayoutNameRequired  = errors.New("layout name is required")
	ErrLayoutStillBound    = errors.New("layout template is still bound to pages")
	ErrLayoutBindingAbsent = errors.New("page has no layout binding")
)

// LayoutService 管理布局模板与页面绑定，并在绑定变更后清除边缘缓存。
type LayoutService struct {
	db          *gorm.DB
	invalidator cache.Invalidator
	siteBaseURL string
}

// NewLayoutService 构造 LayoutService。invalidator 为空时不做缓存失效。
func NewLayoutService(gdb *gorm.DB, invalidator cache.Invalidator, siteBaseURL string) *LayoutService {
	if invalidator == nil {
		invalidator = cache.NopInvalidator{}
	}
	return &LayoutService{
		db:          gdb,
		invalidator: invalidator,
		siteBaseURL: strings.TrimRight(strings.TrimSpace(siteBaseURL), "/"),
	}
}

// LayoutInput represents fields accepted when creating or updating a template.
type LayoutInput struct {
	Name        string
	Description string
	Schema      string
}

// PageBinding 描述某个页面类型当前绑定的布局。
type PageBinding struct {
	PageType         string
	LayoutTemplateID uint
	LayoutName       string
	UpdatedAt        string
}

// ListTemplates returns all layout templates, newest first.
func (s *LayoutService) ListTemplates() ([]db.LayoutTemplate, error) {
	var templates []db.LayoutTemplate
	if err := s.db.Order("created_at desc").Order("id desc").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

// GetTemplate fetches a layout template by id.
func (s *LayoutService) GetTemplate(id uint) (*db.LayoutTemplate, error) {
	var template db.LayoutTemplate
	if err := s.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}
	return &template, nil
}

// CreateTemplate inserts a new layout template.
func (s *LayoutService) CreateTemplate(input LayoutInput) (*db.LayoutTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLayoutNameRequired
	}

	template := db.LayoutTemplate{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		Schema:      input.Schema,
	}
	if err := s.db.Create(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// UpdateTemplate modifies an existing layout template.
func (s *LayoutService) UpdateTemplate(id uint, input LayoutInput) (*db.LayoutTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrLayoutNameRequired
	}

	var template db.LayoutTemplate
	if err := s.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLayoutNotFound
		}
		return nil, err
	}

	template.Name = name
	template.Description = strings.TrimSpace(input.Description)
	template.Schema = input.Schema
	if err := s.db.Save(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// DeleteTemplate removes a template unless a page binding still references it.
func (s *LayoutService) DeleteTemplate(id uint) error {
	var template db.LayoutTemplate
	if err := s.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLayoutNotFound
		}
		return err
	}

	var bound int64
	if err := s.db.Model(&db.PageLayout{}).
		Where("layout_template_id = ?", id).
		Count(&bound).Error; err != nil {
		return err
	}
	if bound > 0 {
		return ErrLayoutStillBound
	}

	return s.db.Unscoped().Delete(&template).Error
}

// GetBindings returns the current binding of every page type.
func (s *LayoutService) GetBindings() ([]PageBinding, error) {
	var rows []struct {
		PageType         string
		LayoutTemplateID uint
		LayoutName       string
		UpdatedAt        string
	}
	if err := s.db.Table("page_layouts").
		Select("page_layouts.page_type, page_layouts.layout_template_id, layout_templates.name AS layout_name, page_layouts.updated_at").
		Joins("JOIN layout_templates ON layout_templates.id = page_layouts.layout_template_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	bindings := make([]PageBinding, 0, len(rows))
	for _, row := range rows {
		bindings = append(bindings, PageBinding(row))
	}
	return bindings, nil
}

// GetBinding returns the binding of a single page type.
func (s *LayoutService) GetBinding(pageType string) (*PageBinding, error) {
	pageType = strings.ToLower(strings.TrimSpace(pageType))
	if !db.ValidPageType(pageType) {
		return nil, ErrPageTypeInvalid
	}

	var row struct {
		PageType         string
		LayoutTemplateID uint
		LayoutName       string
		UpdatedAt        string
	}
	result := s.db.Table("page_layouts").
		Select("page_layouts.page_type, page_layouts.layout_template_id, layout_templates.name AS layout_name, page_layouts.updated_at").
		Joins("JOIN layout_templates ON layout_templates.id = page_layouts.layout_template_id").
		Where("page_layouts.page_type = ?", pageType).
		Limit(1).
		Scan(&row)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrLayoutBindingAbsent
	}

	binding := PageBinding(row)
	return &binding, nil
}

// BindPage 将页面类型绑定到布局模板。
// 绑定写入是单条原子 upsert，并发调用不会产生重复的 page_type 行；
// 写入成功后按 URL 清除相关缓存条目，清除失败只记日志。
func (s *LayoutService) BindPage(ctx context.Context, pageType string, layoutID uint) error {
	pageType = strings.ToLower(strings.TrimSpace(pageType))
	if !db.ValidPageType(pageType) {
		return ErrPageTypeInvalid
	}
	if layoutID == 0 {
		return ErrLayoutIDRequired
	}

	var template db.LayoutTemplate
	if err := s.db.First(&template, layoutID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLayoutNotFound
		}
		return err
	}

	binding := db.PageLayout{PageType: pageType, LayoutTemplateID: layoutID}
	if err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "page_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"layout_template_id": layoutID,
			"updated_at":         gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&binding).Error; err != nil {
		return err
	}

	// 绑定已生效，缓存条目失效失败时靠 TTL 自行过期
	urls := s.cacheURLs(pageType)
	if err := s.invalidator.Invalidate(ctx, urls...); err != nil {
		log.Printf("layout cache invalidation failed for %s: %v", pageType, err)
	}

	return nil
}

// cacheURLs 构造布局接口的规范缓存键：全量接口与按页面类型参数化的变体。
func (s *LayoutService) cacheURLs(pageType string) []string {
	return []string{
		fmt.Sprintf("%s/api/layout", s.siteBaseURL),
		fmt.Sprintf("%s/api/layout?page_type=%s", s.siteBaseURL, pageType),
	}
}
