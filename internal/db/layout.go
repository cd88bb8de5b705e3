package db

import "gorm.io/gorm"

// 页面类型的全部合法取值，每种页面至多绑定一个布局模板。
const (
	PageTypeHome     = "home"
	PageTypeThread   = "thread"
	PageTypeCategory = "category"
	PageTypeTag      = "tag"
	PageTypeAbout    = "about"
	PageTypeFriends  = "friends"
)

// PageTypes 按固定顺序列出全部页面类型。
var PageTypes = []string{
	PageTypeHome,
	PageTypeThread,
	PageTypeCategory,
	PageTypeTag,
	PageTypeAbout,
	PageTypeFriends,
}

// ValidPageType 判断给定页面类型是否属于合法枚举。
func ValidPageType(pageType string) bool {
	for _, candidate := range PageTypes {
		if pageType == candidate {
			return true
		}
	}
	return false
}

// LayoutTemplate 定义了页面布局模板模型，Schema 存放序列化的布局描述。
type LayoutTemplate struct {
	gorm.Model
	Name        string `gorm:"not null"`
	Description string
	Schema      string `gorm:"type:text"`
}

// PageLayout 定义了页面类型与布局模板之间的绑定关系，page_type 唯一。
type PageLayout struct {
	gorm.Model
	PageType         string `gorm:"uniqueIndex;not null"`
	LayoutTemplateID uint   `gorm:"not null"`
}
