package db

import "gorm.io/gorm"

// SiteSetting 存储后台可配置的站点级键值对。
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex;not null"`
	Value string `gorm:"type:text"`
}

// TableName 自定义表名以保持命名一致。
func (SiteSetting) TableName() string {
	return "site_settings"
}

const (
	// SettingKeySiteTitle 表示站点标题。
	SettingKeySiteTitle = "site_title"
	// SettingKeySiteSubtitle 表示站点副标题。
	SettingKeySiteSubtitle = "site_subtitle"
	// SettingKeySiteURL 表示站点对外访问地址。
	SettingKeySiteURL = "site_url"
	// SettingKeyICPNumber 表示备案号。
	SettingKeyICPNumber = "icp_number"
	// SettingKeyFooterText 表示页脚文案。
	SettingKeyFooterText = "footer_text"
)
