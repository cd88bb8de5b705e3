package db

import "gorm.io/gorm"

// Folder 定义了媒体库文件夹模型
type Folder struct {
	gorm.Model
	Name string `gorm:"unique;not null"`
}

// File 定义了上传文件的元数据模型，二进制内容存放在对象存储中。
type File struct {
	gorm.Model
	FolderID      *uint `gorm:"index"`
	Folder        *Folder
	ObjectKey     string `gorm:"uniqueIndex;not null"`
	Name          string
	ContentType   string
	Size          int64 `gorm:"default:0"`
	IsImage       bool  `gorm:"default:false"`
	IsVideo       bool  `gorm:"default:false"`
	Width         int   `gorm:"default:0"`
	Height        int   `gorm:"default:0"`
	ThumbnailKey  string
	MediumKey     string
	HasThumbnails bool `gorm:"default:false"`
	Purged        bool `gorm:"default:false;index"`
}
