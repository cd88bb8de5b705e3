package service

import (
	"errors"
	"strings"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentContentRequired = errors.New("comment content is required")
	ErrCommentStatusInvalid   = errors.New("comment status is invalid")
)

// CommentService wraps comment related operations.
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// CommentFilter 描述后台评论列表的筛选条件。
type CommentFilter struct {
	Status  string
	PostID  uint
	Page    int
	PerPage int
}

// CommentListResult aggregates paginated comment results.
type CommentListResult struct {
	Items      []db.Comment
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// CommentInput represents fields accepted for a visitor submission.
type CommentInput struct {
	AuthorName  string
	AuthorEmail string
	AuthorURL   string
	Content     string
	IP          string
}

// ListApproved returns approved comments of a post, oldest first.
func (s *CommentService) ListApproved(postID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Where("post_id = ? AND status = ?", postID, db.CommentStatusApproved).
		Order("created_at asc").Order("id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// List returns comments matching the filter for the admin panel, newest first.
func (s *CommentService) List(filter CommentFilter) (CommentListResult, error) {
	result := CommentListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 20),
	}

	query := s.db.Model(&db.Comment{})
	if status := strings.TrimSpace(filter.Status); status != "" {
		if !db.ValidCommentStatus(status) {
			return result, ErrCommentStatusInvalid
		}
		query = query.Where("status = ?", status)
	}
	if filter.PostID != 0 {
		query = query.Where("post_id = ?", filter.PostID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Submit 保存访客提交的评论，初始状态为待审核。
func (s *CommentService) Submit(postID uint, input CommentInput) (*db.Comment, error) {
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	var post db.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	comment := db.Comment{
		PostID:      postID,
		AuthorName:  strings.TrimSpace(input.AuthorName),
		AuthorEmail: strings.TrimSpace(input.AuthorEmail),
		AuthorURL:   strings.TrimSpace(input.AuthorURL),
		Content:     content,
		Status:      db.CommentStatusPending,
		IP:          strings.TrimSpace(input.IP),
	}
	if comment.AuthorName == "" {
		comment.AuthorName = "匿名"
	}

	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateStatus 更新评论状态，状态必须属于合法枚举，否则不触碰任何行。
func (s *CommentService) UpdateStatus(id uint, status string) (*db.Comment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !db.ValidCommentStatus(status) {
		return nil, ErrCommentStatusInvalid
	}

	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	comment.Status = status
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Like 原子地为评论点赞计数加一，并返回累加后的数值。
func (s *CommentService) Like(id uint) (uint64, error) {
	result := s.db.Model(&db.Comment{}).
		Where("id = ?", id).
		UpdateColumn("like_count", gorm.Expr("like_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrCommentNotFound
	}

	var comment db.Comment
	if err := s.db.Select("like_count").First(&comment, id).Error; err != nil {
		return 0, err
	}
	return comment.LikeCount, nil
}

// Delete removes a comment permanently.
func (s *CommentService) Delete(id uint) error {
	var comment db.Comment
	if err := s.db.First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	return s.db.Unscoped().Delete(&comment).Error
}

// CountByStatus 返回各状态的评论数量。
func (s *CommentService) CountByStatus() (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := s.db.Model(&db.Comment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
