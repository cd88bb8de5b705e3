package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/service"
)

type layoutTemplateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Schema      string `json:"schema"`
}

type bindPageRequest struct {
	LayoutID uint `json:"layoutId"`
}

func bindingPayload(binding service.PageBinding) gin.H {
	return gin.H{
		"pageType":   binding.PageType,
		"layoutId":   binding.LayoutTemplateID,
		"layoutName": binding.LayoutName,
		"updatedAt":  binding.UpdatedAt,
	}
}

// GetLayout 获取页面布局绑定。不带 page_type 参数时返回全部绑定，
// 带参数时返回单个页面的绑定。
func (a *API) GetLayout(c *gin.Context) {
	pageType := c.Query("page_type")
	if pageType == "" {
		bindings, err := a.layouts.GetBindings()
		if err != nil {
			respondServerError(c, err)
			return
		}

		items := make([]gin.H, 0, len(bindings))
		for _, binding := range bindings {
			items = append(items, bindingPayload(binding))
		}
		c.JSON(http.StatusOK, gin.H{"bindings": items})
		return
	}

	binding, err := a.layouts.GetBinding(pageType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageTypeInvalid):
			respondError(c, http.StatusBadRequest, "无效的页面类型")
		case errors.Is(err, service.ErrLayoutBindingAbsent):
			respondError(c, http.StatusNotFound, "该页面尚未绑定布局")
		default:
			respondServerError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"binding": bindingPayload(*binding)})
}

// BindPageLayout 将页面类型绑定到布局模板，成功后清除相关缓存
func (a *API) BindPageLayout(c *gin.Context) {
	var req bindPageRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	err := a.layouts.BindPage(c.Request.Context(), c.Param("pageType"), req.LayoutID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPageTypeInvalid):
			respondError(c, http.StatusBadRequest, "无效的页面类型")
		case errors.Is(err, service.ErrLayoutIDRequired):
			respondError(c, http.StatusBadRequest, "缺少布局ID")
		case errors.Is(err, service.ErrLayoutNotFound):
			respondError(c, http.StatusNotFound, "布局模板不存在")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "页面布局已更新"})
}

// ListLayoutTemplates 获取布局模板列表
func (a *API) ListLayoutTemplates(c *gin.Context) {
	templates, err := a.layouts.ListTemplates()
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(templates))
	for _, template := range templates {
		items = append(items, gin.H{
			"id":          template.ID,
			"name":        template.Name,
			"description": template.Description,
			"schema":      template.Schema,
		})
	}
	c.JSON(http.StatusOK, gin.H{"layouts": items})
}

// CreateLayoutTemplate 创建布局模板
func (a *API) CreateLayoutTemplate(c *gin.Context) {
	var req layoutTemplateRequest
	if !bindJSON(c, &req, "布局名称不能为空") {
		return
	}

	template, err := a.layouts.CreateTemplate(service.LayoutInput{
		Name:        req.Name,
		Description: req.Description,
		Schema:      req.Schema,
	})
	if err != nil {
		if errors.Is(err, service.ErrLayoutNameRequired) {
			respondError(c, http.StatusBadRequest, "布局名称不能为空")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "布局创建成功", "layout": template})
}

// UpdateLayoutTemplate 更新布局模板
func (a *API) UpdateLayoutTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的布局ID")
		return
	}

	var req layoutTemplateRequest
	if !bindJSON(c, &req, "布局名称不能为空") {
		return
	}

	template, err := a.layouts.UpdateTemplate(id, service.LayoutInput{
		Name:        req.Name,
		Description: req.Description,
		Schema:      req.Schema,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLayoutNotFound):
			respondError(c, http.StatusNotFound, "布局模板不存在")
		case errors.Is(err, service.ErrLayoutNameRequired):
			respondError(c, http.StatusBadRequest, "布局名称不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "布局更新成功", "layout": template})
}

// DeleteLayoutTemplate 删除布局模板，仍被页面绑定时拒绝删除
func (a *API) DeleteLayoutTemplate(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的布局ID")
		return
	}

	if err := a.layouts.DeleteTemplate(id); err != nil {
		switch {
		case errors.Is(err, service.ErrLayoutStillBound):
			respondError(c, http.StatusBadRequest, "布局仍被页面使用，无法删除")
		case errors.Is(err, service.ErrLayoutNotFound):
			respondError(c, http.StatusNotFound, "布局模板不存在")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "布局删除成功"})
}
