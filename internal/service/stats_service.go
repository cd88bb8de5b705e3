package service

import (
	"math"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
)

// StatsService 负责后台仪表盘与存储用量的聚合统计。
// 各项统计相互独立读取，不提供跨查询一致性。
type StatsService struct {
	db         *gorm.DB
	quotaBytes int64
}

// NewStatsService 构造 StatsService，quotaBytes 为存储配额（usagePercent 分母）。
func NewStatsService(gdb *gorm.DB, quotaBytes int64) *StatsService {
	return &StatsService{db: gdb, quotaBytes: quotaBytes}
}

// RecentPost 描述仪表盘中的最近文章条目。
type RecentPost struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Status    string `json:"status"`
	ViewCount uint64 `json:"viewCount"`
	CreatedAt string `json:"createdAt"`
}

// RecentComment 描述仪表盘中的最近评论条目。
type RecentComment struct {
	ID         uint   `json:"id"`
	PostID     uint   `json:"postId"`
	AuthorName string `json:"authorName"`
	Content    string `json:"content"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
}

// DashboardStats 汇总仪表盘数据。
type DashboardStats struct {
	TotalPosts      int64           `json:"totalPosts"`
	TotalComments   int64           `json:"totalComments"`
	TotalTags       int64           `json:"totalTags"`
	TotalCategories int64           `json:"totalCategories"`
	PendingComments int64           `json:"pendingComments"`
	TotalViews      int64           `json:"totalViews"`
	RecentPosts     []RecentPost    `json:"recentPosts"`
	RecentComments  []RecentComment `json:"recentComments"`
}

// StorageStats 汇总媒体库存储用量，只统计未清除的文件。
type StorageStats struct {
	FileCount    int64   `json:"fileCount"`
	FolderCount  int64   `json:"folderCount"`
	ImageCount   int64   `json:"imageCount"`
	VideoCount   int64   `json:"videoCount"`
	UsedSpace    int64   `json:"usedSpace"`
	TotalSpace   int64   `json:"totalSpace"`
	UsagePercent float64 `json:"usagePercent"`
}

// Dashboard 聚合仪表盘统计，空库时各计数为 0、列表为空。
func (s *StatsService) Dashboard() (DashboardStats, error) {
	stats := DashboardStats{
		RecentPosts:    []RecentPost{},
		RecentComments: []RecentComment{},
	}

	if err := s.db.Model(&db.Post{}).Count(&stats.TotalPosts).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.Comment{}).Count(&stats.TotalComments).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.Tag{}).Count(&stats.TotalTags).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.Category{}).Count(&stats.TotalCategories).Error; err != nil {
		return stats, err
	}
	if err := s.db.Model(&db.Comment{}).
		Where("status = ?", db.CommentStatusPending).
		Count(&stats.PendingComments).Error; err != nil {
		return stats, err
	}

	var totalViews struct{ Total int64 }
	if err := s.db.Model(&db.Post{}).
		Select("COALESCE(SUM(view_count), 0) AS total").
		Scan(&totalViews).Error; err != nil {
		return stats, err
	}
	stats.TotalViews = totalViews.Total

	if err := s.db.Model(&db.Post{}).
		Select("id, title, slug, status, view_count, created_at").
		Where("status = ?", PostStatusPublished).
		Order("created_at desc").Order("id desc").
		Limit(5).
		Scan(&stats.RecentPosts).Error; err != nil {
		return stats, err
	}

	if err := s.db.Model(&db.Comment{}).
		Select("id, post_id, author_name, content, status, created_at").
		Order("created_at desc").Order("id desc").
		Limit(5).
		Scan(&stats.RecentComments).Error; err != nil {
		return stats, err
	}

	return stats, nil
}

// Storage 聚合存储用量。purged = 1 的文件既不计数也不计容量。
func (s *StatsService) Storage() (StorageStats, error) {
	stats := StorageStats{TotalSpace: s.quotaBytes}

	live := s.db.Model(&db.File{}).Where("purged = ?", false)

	if err := live.Session(&gorm.Session{}).Count(&stats.FileCount).Error; err != nil {
		return stats, err
	}
	if err := live.Session(&gorm.Session{}).
		Where("is_image = ?", true).
		Count(&stats.ImageCount).Error; err != nil {
		return stats, err
	}
	if err := live.Session(&gorm.Session{}).
		Where("is_video = ?", true).
		Count(&stats.VideoCount).Error; err != nil {
		return stats, err
	}

	var used struct{ Total int64 }
	if err := live.Session(&gorm.Session{}).
		Select("COALESCE(SUM(size), 0) AS total").
		Scan(&used).Error; err != nil {
		return stats, err
	}
	stats.UsedSpace = used.Total

	if err := s.db.Model(&db.Folder{}).Count(&stats.FolderCount).Error; err != nil {
		return stats, err
	}

	if stats.TotalSpace > 0 {
		percent := float64(stats.UsedSpace) / float64(stats.TotalSpace) * 100
		stats.UsagePercent = math.Round(percent*100) / 100
	}

	return stats, nil
}
