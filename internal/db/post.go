package db

import (
	"time"

	"gorm.io/gorm"
)

// Post 定义了文章模型
type Post struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Content     string `gorm:"type:text"`
	Summary     string
	Status      string `gorm:"default:draft"` // draft, published
	CategoryID  *uint
	Category    *Category
	Tags        []Tag `gorm:"many2many:post_tags;"`
	ViewCount   uint64 `gorm:"default:0"`
	PublishedAt *time.Time
}
