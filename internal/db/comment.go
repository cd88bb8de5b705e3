package db

import "gorm.io/gorm"

// 评论状态的全部合法取值。
const (
	CommentStatusApproved = "approved"
	CommentStatusPending  = "pending"
	CommentStatusSpam     = "spam"
	CommentStatusTrash    = "trash"
)

// Comment 定义了文章评论模型
type Comment struct {
	gorm.Model
	PostID      uint   `gorm:"index;not null"`
	AuthorName  string `gorm:"size:75"`
	AuthorEmail string
	AuthorURL   string
	Content     string `gorm:"type:text;not null"`
	Status      string `gorm:"default:pending;index"`
	LikeCount   uint64 `gorm:"default:0"`
	IP          string
}

// ValidCommentStatus 判断给定状态是否属于合法枚举。
func ValidCommentStatus(status string) bool {
	switch status {
	case CommentStatusApproved, CommentStatusPending, CommentStatusSpam, CommentStatusTrash:
		return true
	}
	return false
}
