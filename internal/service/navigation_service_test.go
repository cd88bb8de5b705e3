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

func setupNavigationServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:navigation-service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.NavigationItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func TestNavigationServiceListActiveFiltersAndOrders(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	items := []db.NavigationItem{
		{Label: "关于", Path: "/about", SortOrder: 2, IsActive: true, Position: "header"},
		{Label: "停用", Path: "/hidden", SortOrder: 0, IsActive: false, Position: "header"},
		{Label: "首页", Path: "/", SortOrder: 0, IsActive: true, Position: "header"},
		{Label: "页脚", Path: "/footer", SortOrder: 1, IsActive: true, Position: "footer"},
		{Label: "归档", Path: "/archive", SortOrder: 0, IsActive: true, Position: "header"},
	}
	if err := gdb.Create(&items).Error; err != nil {
		t.Fatalf("failed to seed navigation: %v", err)
	}

	svc := NewNavigationService(gdb)
	list, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list active navigation: %v", err)
	}

	// 只含 header 且启用的项，sort_order 相同按 id 先后
	if len(list) != 3 {
		t.Fatalf("expected 3 items, got %d", len(list))
	}
	if list[0].Label != "首页" || list[1].Label != "归档" || list[2].Label != "关于" {
		t.Fatalf("unexpected order: %+v", []string{list[0].Label, list[1].Label, list[2].Label})
	}
}

func TestNavigationServiceReorderUpdatesSortOrder(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	items := []db.NavigationItem{
		{Label: "A", Path: "/a", SortOrder: 0, IsActive: true, Position: "header"},
		{Label: "B", Path: "/b", SortOrder: 1, IsActive: true, Position: "header"},
		{Label: "C", Path: "/c", SortOrder: 2, IsActive: true, Position: "header"},
	}
	if err := gdb.Create(&items).Error; err != nil {
		t.Fatalf("failed to seed navigation: %v", err)
	}

	svc := NewNavigationService(gdb)
	if err := svc.Reorder([]uint{items[2].ID, items[0].ID, items[1].ID}); err != nil {
		t.Fatalf("reorder navigation: %v", err)
	}

	list, err := svc.ListActive()
	if err != nil {
		t.Fatalf("list navigation: %v", err)
	}
	if list[0].Label != "C" || list[1].Label != "A" || list[2].Label != "B" {
		t.Fatalf("unexpected order after reorder: %+v", []string{list[0].Label, list[1].Label, list[2].Label})
	}
}

func TestNavigationServiceReorderRejectsDuplicateIDs(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	svc := NewNavigationService(gdb)
	if err := svc.Reorder([]uint{1, 1}); err != ErrNavigationOrder {
		t.Fatalf("expected ErrNavigationOrder, got %v", err)
	}
}

func TestNavigationServiceReorderUnknownIDRollsBack(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	item := db.NavigationItem{Label: "A", Path: "/a", SortOrder: 7, IsActive: true, Position: "header"}
	if err := gdb.Create(&item).Error; err != nil {
		t.Fatalf("failed to seed navigation: %v", err)
	}

	svc := NewNavigationService(gdb)
	if err := svc.Reorder([]uint{item.ID, 999}); err != ErrNavigationNotFound {
		t.Fatalf("expected ErrNavigationNotFound, got %v", err)
	}

	// 整批在事务内执行，失败后原排序保持不变
	var reloaded db.NavigationItem
	if err := gdb.First(&reloaded, item.ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if reloaded.SortOrder != 7 {
		t.Fatalf("expected sort_order unchanged, got %d", reloaded.SortOrder)
	}
}

func TestNavigationServiceSetHomeClearsPreviousFlag(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	items := []db.NavigationItem{
		{Label: "A", Path: "/a", IsHome: true, IsActive: true, Position: "header"},
		{Label: "B", Path: "/b", IsActive: true, Position: "header"},
	}
	if err := gdb.Create(&items).Error; err != nil {
		t.Fatalf("failed to seed navigation: %v", err)
	}

	svc := NewNavigationService(gdb)
	if err := svc.SetHome(items[1].ID); err != nil {
		t.Fatalf("set home: %v", err)
	}

	var homeCount int64
	if err := gdb.Model(&db.NavigationItem{}).Where("is_home = ?", true).Count(&homeCount).Error; err != nil {
		t.Fatalf("count home items: %v", err)
	}
	if homeCount != 1 {
		t.Fatalf("expected exactly one home item, got %d", homeCount)
	}

	var b db.NavigationItem
	if err := gdb.First(&b, items[1].ID).Error; err != nil {
		t.Fatalf("reload item: %v", err)
	}
	if !b.IsHome {
		t.Fatalf("expected item B to be home")
	}
}

func TestNavigationServiceDeleteDetachesChildren(t *testing.T) {
	gdb, cleanup := setupNavigationServiceTestDB(t)
	defer cleanup()

	parent := db.NavigationItem{Label: "父级", Path: "/parent", IsActive: true, Position: "header"}
	if err := gdb.Create(&parent).Error; err != nil {
		t.Fatalf("failed to seed parent: %v", err)
	}
	child := db.NavigationItem{Label: "子级", Path: "/child", ParentID: &parent.ID, IsActive: true, Position: "header"}
	if err := gdb.Create(&child).Error; err != nil {
		t.Fatalf("failed to seed child: %v", err)
	}

	svc := NewNavigationService(gdb)
	if err := svc.Delete(parent.ID); err != nil {
		t.Fatalf("delete parent: %v", err)
	}

	var reloaded db.NavigationItem
	if err := gdb.First(&reloaded, child.ID).Error; err != nil {
		t.Fatalf("reload child: %v", err)
	}
	if reloaded.ParentID != nil {
		t.Fatalf("expected child detached, got parent %v", *reloaded.ParentID)
	}
}
