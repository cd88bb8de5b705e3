package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

type settingsRequest struct {
	SiteTitle    string `json:"siteTitle"`
	SiteSubtitle string `json:"siteSubtitle"`
	SiteURL      string `json:"siteUrl"`
	ICPNumber    string `json:"icpNumber"`
	FooterText   string `json:"footerText"`
}

func settingsPayload(settings service.SiteSettings) gin.H {
	return gin.H{
		"siteTitle":    settings.SiteTitle,
		"siteSubtitle": settings.SiteSubtitle,
		"siteUrl":      settings.SiteURL,
		"icpNumber":    settings.ICPNumber,
		"footerText":   settings.FooterText,
	}
}

// GetSettings 获取站点设置，未配置项返回默认值
func (a *API) GetSettings(c *gin.Context) {
	settings, err := a.settings.GetSettings()
	if err != nil {
		respondServerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settingsPayload(settings)})
}

// UpdateSettings 更新站点设置
func (a *API) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	settings, err := a.settings.UpdateSettings(service.SiteSettingsInput{
		SiteTitle:    req.SiteTitle,
		SiteSubtitle: req.SiteSubtitle,
		SiteURL:      req.SiteURL,
		ICPNumber:    req.ICPNumber,
		FooterText:   req.FooterText,
	})
	if err != nil {
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "站点设置已保存", "settings": settingsPayload(settings)})
}
