package service

import (
	"errors"
	"strings"
	"time"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostTitleRequired = errors.New("post title is required")
	ErrPostSlugExists    = errors.New("post slug already exists")
	ErrPostStatusInvalid = errors.New("post status is invalid")
)

const (
	PostStatusDraft     = "draft"
	PostStatusPublished = "published"
)

// PostService wraps post related operations.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostFilter 描述文章列表的筛选条件。
type PostFilter struct {
	Status     string
	CategoryID uint
	TagID      uint
	Search     string
	Page       int
	PerPage    int
}

// PostListResult aggregates paginated post results.
type PostListResult struct {
	Items      []db.Post
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// PostInput represents fields accepted when creating or updating a post.
type PostInput struct {
	Title      string
	Slug       string
	Content    string
	Summary    string
	Status     string
	CategoryID *uint
	TagIDs     []uint
}

// List returns posts matching the filter, newest first.
func (s *PostService) List(filter PostFilter) (PostListResult, error) {
	result := PostListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 10),
	}

	query := s.db.Model(&db.Post{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.TagID != 0 {
		query = query.
			Joins("JOIN post_tags ON post_tags.post_id = posts.id").
			Where("post_tags.tag_id = ?", filter.TagID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR summary LIKE ?", like, like)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Preload("Category").Preload("Tags").
		Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches a post by id.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Tags").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by slug.
func (s *PostService) GetBySlug(slug string) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Category").Preload("Tags").
		Where("slug = ?", strings.TrimSpace(slug)).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a new post and associates its tags.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	status := normalizePostStatus(input.Status)
	if status == "" {
		return nil, ErrPostStatusInvalid
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(title)
	}

	var existing db.Post
	if err := s.db.Where("slug = ?", slug).First(&existing).Error; err == nil {
		return nil, ErrPostSlugExists
	}

	post := db.Post{
		Title:      title,
		Slug:       slug,
		Content:    input.Content,
		Summary:    strings.TrimSpace(input.Summary),
		Status:     status,
		CategoryID: input.CategoryID,
	}
	if status == PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if err := replacePostTags(tx, &post, input.TagIDs); err != nil {
			return err
		}
		return syncTagPostCounts(tx)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(post.ID)
}

// Update modifies an existing post.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrPostTitleRequired
	}

	status := normalizePostStatus(input.Status)
	if status == "" {
		return nil, ErrPostStatusInvalid
	}

	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = post.Slug
	}

	var existing db.Post
	if err := s.db.Where("slug = ? AND id <> ?", slug, id).First(&existing).Error; err == nil {
		return nil, ErrPostSlugExists
	}

	post.Title = title
	post.Slug = slug
	post.Content = input.Content
	post.Summary = strings.TrimSpace(input.Summary)
	post.CategoryID = input.CategoryID
	if status == PostStatusPublished && post.Status != PostStatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}
	post.Status = status

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&post).Error; err != nil {
			return err
		}
		if err := replacePostTags(tx, &post, input.TagIDs); err != nil {
			return err
		}
		return syncTagPostCounts(tx)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(post.ID)
}

// Publish 将草稿文章切换为已发布状态。
func (s *PostService) Publish(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	if post.Status != PostStatusPublished {
		now := time.Now()
		post.Status = PostStatusPublished
		post.PublishedAt = &now
		if err := s.db.Save(&post).Error; err != nil {
			return nil, err
		}
	}

	return s.Get(post.ID)
}

// Delete removes a post and its tag associations.
func (s *PostService) Delete(id uint) error {
	var post db.Post
	if err := s.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		return syncTagPostCounts(tx)
	})
}

// RecordView 原子地累加文章浏览计数，并返回累加后的数值。
func (s *PostService) RecordView(id uint) (uint64, error) {
	result := s.db.Model(&db.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrPostNotFound
	}

	var post db.Post
	if err := s.db.Select("view_count").First(&post, id).Error; err != nil {
		return 0, err
	}
	return post.ViewCount, nil
}

func replacePostTags(tx *gorm.DB, post *db.Post, tagIDs []uint) error {
	if tagIDs == nil {
		return nil
	}

	var tags []db.Tag
	if len(tagIDs) > 0 {
		if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
			return err
		}
	}
	return tx.Model(post).Association("Tags").Replace(tags)
}

// syncTagPostCounts 重算所有标签的冗余文章计数。
func syncTagPostCounts(tx *gorm.DB) error {
	return tx.Exec(`
		UPDATE tags SET post_count = (
			SELECT COUNT(*) FROM post_tags
			JOIN posts ON posts.id = post_tags.post_id
			WHERE post_tags.tag_id = tags.id AND posts.deleted_at IS NULL
		)`).Error
}

func normalizePostStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return PostStatusDraft
	}
	if status != PostStatusDraft && status != PostStatusPublished {
		return ""
	}
	return status
}
