package db

import "gorm.io/gorm"

// NavigationPositionHeader 表示顶部导航栏位置。
const NavigationPositionHeader = "header"

// NavigationItem 定义了导航菜单项模型
type NavigationItem struct {
	gorm.Model
	Label     string `gorm:"not null"`
	Path      string `gorm:"not null"`
	Icon      string
	ParentID  *uint `gorm:"index"`
	Target    string `gorm:"default:_self"`
	SortOrder int    `gorm:"default:0"`
	IsHome    bool   `gorm:"default:false"`
	IsActive  bool   `gorm:"default:true"`
	Position  string `gorm:"default:header;index"`
}
