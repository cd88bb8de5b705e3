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

func setupSettingServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:setting-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.SiteSetting{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestSettingServiceGetSettingsDefaults(t *testing.T) {
	gdb, cleanup := setupSettingServiceTestDB(t)
	defer cleanup()

	svc := NewSettingService(gdb)
	settings, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}

	if settings.SiteTitle != DefaultSiteTitle {
		t.Fatalf("expected default title, got %q", settings.SiteTitle)
	}
	if settings.SiteSubtitle != DefaultSiteSubtitle {
		t.Fatalf("expected default subtitle, got %q", settings.SiteSubtitle)
	}
	if settings.SiteURL != "" {
		t.Fatalf("expected empty site url, got %q", settings.SiteURL)
	}
}

func TestSettingServiceUpdateSettingsUpserts(t *testing.T) {
	gdb, cleanup := setupSettingServiceTestDB(t)
	defer cleanup()

	svc := NewSettingService(gdb)
	if _, err := svc.UpdateSettings(SiteSettingsInput{SiteTitle: "墨痕", SiteURL: "https://blog.example.com/"}); err != nil {
		t.Fatalf("first update: %v", err)
	}
	updated, err := svc.UpdateSettings(SiteSettingsInput{SiteTitle: "墨痕二", SiteURL: "https://blog.example.com"})
	if err != nil {
		t.Fatalf("second update: %v", err)
	}

	if updated.SiteTitle != "墨痕二" {
		t.Fatalf("expected updated title, got %q", updated.SiteTitle)
	}

	// 同一 key 只保留一行
	var count int64
	if err := gdb.Model(&db.SiteSetting{}).Where("key = ?", db.SettingKeySiteTitle).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row for site_title, got %d", count)
	}

	reloaded, err := svc.GetSettings()
	if err != nil {
		t.Fatalf("reload settings: %v", err)
	}
	if reloaded.SiteTitle != "墨痕二" {
		t.Fatalf("expected persisted title, got %q", reloaded.SiteTitle)
	}
	if reloaded.SiteURL != "https://blog.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", reloaded.SiteURL)
	}
}

func TestSettingServiceUpdateSettingsEmptyTitleFallsBack(t *testing.T) {
	gdb, cleanup := setupSettingServiceTestDB(t)
	defer cleanup()

	svc := NewSettingService(gdb)
	updated, err := svc.UpdateSettings(SiteSettingsInput{SiteTitle: "   "})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if updated.SiteTitle != DefaultSiteTitle {
		t.Fatalf("expected fallback title, got %q", updated.SiteTitle)
	}
}
