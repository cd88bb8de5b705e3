package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/inklog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStatsServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:stats-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.Post{}, &db.Comment{}, &db.Tag{}, &db.Category{}, &db.File{}, &db.Folder{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestStatsServiceDashboardEmptyDatabase(t *testing.T) {
	gdb, cleanup := setupStatsServiceTestDB(t)
	defer cleanup()

	svc := NewStatsService(gdb, 1024)
	stats, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}

	if stats.TotalPosts != 0 || stats.TotalComments != 0 || stats.TotalTags != 0 {
		t.Fatalf("expected zero totals, got %+v", stats)
	}
	if stats.RecentPosts == nil || len(stats.RecentPosts) != 0 {
		t.Fatalf("expected empty recentPosts slice, got %+v", stats.RecentPosts)
	}
	if stats.RecentComments == nil || len(stats.RecentComments) != 0 {
		t.Fatalf("expected empty recentComments slice, got %+v", stats.RecentComments)
	}
}

func TestStatsServiceDashboardCountsAndRecents(t *testing.T) {
	gdb, cleanup := setupStatsServiceTestDB(t)
	defer cleanup()

	for i := 0; i < 7; i++ {
		post := db.Post{
			Title:  fmt.Sprintf("文章 %d", i),
			Slug:   fmt.Sprintf("post-%d", i),
			Status: PostStatusPublished,
		}
		if err := gdb.Create(&post).Error; err != nil {
			t.Fatalf("failed to seed post: %v", err)
		}
	}
	comment := db.Comment{PostID: 1, Content: "评论", Status: db.CommentStatusPending}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	svc := NewStatsService(gdb, 1024)
	stats, err := svc.Dashboard()
	if err != nil {
		t.Fatalf("dashboard stats: %v", err)
	}

	if stats.TotalPosts != 7 {
		t.Fatalf("expected 7 posts, got %d", stats.TotalPosts)
	}
	if stats.PendingComments != 1 {
		t.Fatalf("expected 1 pending comment, got %d", stats.PendingComments)
	}
	if len(stats.RecentPosts) != 5 {
		t.Fatalf("expected 5 recent posts, got %d", len(stats.RecentPosts))
	}
	if len(stats.RecentComments) != 1 {
		t.Fatalf("expected 1 recent comment, got %d", len(stats.RecentComments))
	}
}

func TestStatsServiceStorageExcludesPurgedFiles(t *testing.T) {
	gdb, cleanup := setupStatsServiceTestDB(t)
	defer cleanup()

	files := []db.File{
		{ObjectKey: "a.jpg", Size: 300, IsImage: true},
		{ObjectKey: "b.mp4", Size: 500, IsVideo: true},
		{ObjectKey: "c.jpg", Size: 9999, IsImage: true, Purged: true},
	}
	if err := gdb.Create(&files).Error; err != nil {
		t.Fatalf("failed to seed files: %v", err)
	}

	svc := NewStatsService(gdb, 1000)
	stats, err := svc.Storage()
	if err != nil {
		t.Fatalf("storage stats: %v", err)
	}

	if stats.FileCount != 2 {
		t.Fatalf("expected 2 live files, got %d", stats.FileCount)
	}
	if stats.UsedSpace != 800 {
		t.Fatalf("expected used space 800, got %d", stats.UsedSpace)
	}
	if stats.ImageCount != 1 || stats.VideoCount != 1 {
		t.Fatalf("unexpected media counts: %+v", stats)
	}
	// 800/1000×100 = 80.00
	if stats.UsagePercent != 80 {
		t.Fatalf("expected usagePercent 80, got %v", stats.UsagePercent)
	}
}

func TestStatsServiceStorageRoundsToTwoDecimals(t *testing.T) {
	gdb, cleanup := setupStatsServiceTestDB(t)
	defer cleanup()

	file := db.File{ObjectKey: "a.bin", Size: 1}
	if err := gdb.Create(&file).Error; err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	svc := NewStatsService(gdb, 3)
	stats, err := svc.Storage()
	if err != nil {
		t.Fatalf("storage stats: %v", err)
	}

	// 1/3×100 = 33.333... → 33.33
	if stats.UsagePercent != 33.33 {
		t.Fatalf("expected usagePercent 33.33, got %v", stats.UsagePercent)
	}
}
