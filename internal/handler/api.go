package handler

import (
	"github.com/inklog/internal/cache"
	"github.com/inklog/internal/service"
	"github.com/inklog/internal/storage"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	comments   *service.CommentService
	categories *service.CategoryService
	tags       *service.TagService
	navigation *service.NavigationService
	settings   *service.SettingService
	layouts    *service.LayoutService
	stats      *service.StatsService
	files      *service.FileService
}

// Options 描述构造 API 所需的外部依赖与配置。
type Options struct {
	Store       storage.ObjectStore
	Invalidator cache.Invalidator
	SiteBaseURL string
	QuotaBytes  int64
}

// NewAPI constructs a handler set with shared services.
func NewAPI(db *gorm.DB, opts Options) *API {
	return &API{
		db:         db,
		posts:      service.NewPostService(db),
		comments:   service.NewCommentService(db),
		categories: service.NewCategoryService(db),
		tags:       service.NewTagService(db),
		navigation: service.NewNavigationService(db),
		settings:   service.NewSettingService(db),
		layouts:    service.NewLayoutService(db, opts.Invalidator, opts.SiteBaseURL),
		stats:      service.NewStatsService(db, opts.QuotaBytes),
		files:      service.NewFileService(db, opts.Store),
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}
