package service

import (
	"fmt"
	"strings"

	"github.com/inklog/internal/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 站点设置缺省值。
const (
	DefaultSiteTitle    = "Inklog"
	DefaultSiteSubtitle = "记录与分享"
)

// SiteSettings 描述后台可配置的站点信息。
type SiteSettings struct {
	SiteTitle    string
	SiteSubtitle string
	SiteURL      string
	ICPNumber    string
	FooterText   string
}

// SiteSettingsInput 用于更新站点设置。
type SiteSettingsInput struct {
	SiteTitle    string
	SiteSubtitle string
	SiteURL      string
	ICPNumber    string
	FooterText   string
}

// SettingService 提供站点设置的读取与更新能力。
type SettingService struct {
	db *gorm.DB
}

// NewSettingService 构造 SettingService。
func NewSettingService(gdb *gorm.DB) *SettingService {
	return &SettingService{db: gdb}
}

var settingKeys = []string{
	db.SettingKeySiteTitle,
	db.SettingKeySiteSubtitle,
	db.SettingKeySiteURL,
	db.SettingKeyICPNumber,
	db.SettingKeyFooterText,
}

// GetSettings 读取站点设置，如未设置将返回默认值。
func (s *SettingService) GetSettings() (SiteSettings, error) {
	result := SiteSettings{
		SiteTitle:    DefaultSiteTitle,
		SiteSubtitle: DefaultSiteSubtitle,
	}

	var records []db.SiteSetting
	if err := s.db.Where("key IN ?", settingKeys).Find(&records).Error; err != nil {
		return result, fmt.Errorf("load site settings: %w", err)
	}

	for _, record := range records {
		switch record.Key {
		case db.SettingKeySiteTitle:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteTitle = record.Value
			}
		case db.SettingKeySiteSubtitle:
			if strings.TrimSpace(record.Value) != "" {
				result.SiteSubtitle = record.Value
			}
		case db.SettingKeySiteURL:
			result.SiteURL = record.Value
		case db.SettingKeyICPNumber:
			result.ICPNumber = record.Value
		case db.SettingKeyFooterText:
			result.FooterText = record.Value
		}
	}

	return result, nil
}

// UpdateSettings 保存站点设置，未填写标题时回退默认值。
func (s *SettingService) UpdateSettings(input SiteSettingsInput) (SiteSettings, error) {
	sanitized := SiteSettings{
		SiteTitle:    strings.TrimSpace(input.SiteTitle),
		SiteSubtitle: strings.TrimSpace(input.SiteSubtitle),
		SiteURL:      strings.TrimRight(strings.TrimSpace(input.SiteURL), "/"),
		ICPNumber:    strings.TrimSpace(input.ICPNumber),
		FooterText:   strings.TrimSpace(input.FooterText),
	}

	if sanitized.SiteTitle == "" {
		sanitized.SiteTitle = DefaultSiteTitle
	}
	if sanitized.SiteSubtitle == "" {
		sanitized.SiteSubtitle = DefaultSiteSubtitle
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		pairs := []struct {
			key   string
			value string
		}{
			{db.SettingKeySiteTitle, sanitized.SiteTitle},
			{db.SettingKeySiteSubtitle, sanitized.SiteSubtitle},
			{db.SettingKeySiteURL, sanitized.SiteURL},
			{db.SettingKeyICPNumber, sanitized.ICPNumber},
			{db.SettingKeyFooterText, sanitized.FooterText},
		}
		for _, pair := range pairs {
			if err := upsertSetting(tx, pair.key, pair.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return SiteSettings{}, fmt.Errorf("update site settings: %w", err)
	}

	return sanitized, nil
}

func upsertSetting(tx *gorm.DB, key, value string) error {
	setting := db.SiteSetting{Key: key, Value: value}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"value":      value,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(&setting).Error; err != nil {
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return nil
}
