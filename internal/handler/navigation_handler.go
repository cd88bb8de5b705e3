package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
)

type navigationRequest struct {
	Label     string `json:"label" binding:"required"`
	Path      string `json:"path" binding:"required"`
	Icon      string `json:"icon"`
	ParentID  *uint  `json:"parentId"`
	Target    string `json:"target"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
	Position  string `json:"position"`
}

type navigationReorderRequest struct {
	IDs []uint `json:"ids" binding:"required"`
}

func navigationItem(item db.NavigationItem) gin.H {
	return gin.H{
		"id":        item.ID,
		"label":     item.Label,
		"path":      item.Path,
		"icon":      item.Icon,
		"parentId":  item.ParentID,
		"target":    item.Target,
		"sortOrder": item.SortOrder,
		"isHome":    item.IsHome,
		"isActive":  item.IsActive,
		"position":  item.Position,
	}
}

func (req navigationRequest) toInput() service.NavigationInput {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return service.NavigationInput{
		Label:     req.Label,
		Path:      req.Path,
		Icon:      req.Icon,
		ParentID:  req.ParentID,
		Target:    req.Target,
		SortOrder: req.SortOrder,
		IsActive:  isActive,
		Position:  req.Position,
	}
}

// ListNavigation 获取顶部导航菜单（公开接口），只含启用项，按固定顺序
func (a *API) ListNavigation(c *gin.Context) {
	items, err := a.navigation.ListActive()
	if err != nil {
		respondServerError(c, err)
		return
	}

	response := make([]gin.H, 0, len(items))
	for _, item := range items {
		response = append(response, navigationItem(item))
	}
	c.JSON(http.StatusOK, gin.H{"navigation": response})
}

// ListAllNavigation 获取全部导航项（后台接口）
func (a *API) ListAllNavigation(c *gin.Context) {
	items, err := a.navigation.ListAll()
	if err != nil {
		respondServerError(c, err)
		return
	}

	response := make([]gin.H, 0, len(items))
	for _, item := range items {
		response = append(response, navigationItem(item))
	}
	c.JSON(http.StatusOK, gin.H{"navigation": response})
}

// CreateNavigation 创建导航项
func (a *API) CreateNavigation(c *gin.Context) {
	var req navigationRequest
	if !bindJSON(c, &req, "导航名称和路径不能为空") {
		return
	}

	item, err := a.navigation.Create(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNavigationLabelRequired), errors.Is(err, service.ErrNavigationPathRequired):
			respondError(c, http.StatusBadRequest, "导航名称和路径不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "导航创建成功", "item": navigationItem(*item)})
}

// UpdateNavigation 更新导航项
func (a *API) UpdateNavigation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的导航ID")
		return
	}

	var req navigationRequest
	if !bindJSON(c, &req, "导航名称和路径不能为空") {
		return
	}

	item, err := a.navigation.Update(id, req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNavigationNotFound):
			respondError(c, http.StatusNotFound, "导航项不存在")
		case errors.Is(err, service.ErrNavigationLabelRequired), errors.Is(err, service.ErrNavigationPathRequired):
			respondError(c, http.StatusBadRequest, "导航名称和路径不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "导航更新成功", "item": navigationItem(*item)})
}

// DeleteNavigation 删除导航项
func (a *API) DeleteNavigation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的导航ID")
		return
	}

	if err := a.navigation.Delete(id); err != nil {
		if errors.Is(err, service.ErrNavigationNotFound) {
			respondError(c, http.StatusNotFound, "导航项不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "导航删除成功"})
}

// ReorderNavigation 按给定顺序批量调整导航排序
func (a *API) ReorderNavigation(c *gin.Context) {
	var req navigationReorderRequest
	if !bindJSON(c, &req, "排序列表不能为空") {
		return
	}

	if err := a.navigation.Reorder(req.IDs); err != nil {
		switch {
		case errors.Is(err, service.ErrNavigationOrder):
			respondError(c, http.StatusBadRequest, "无效的排序列表")
		case errors.Is(err, service.ErrNavigationNotFound):
			respondError(c, http.StatusNotFound, "导航项不存在")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "导航排序已更新"})
}

// SetHomeNavigation 将导航项设为首页入口
func (a *API) SetHomeNavigation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的导航ID")
		return
	}

	if err := a.navigation.SetHome(id); err != nil {
		if errors.Is(err, service.ErrNavigationNotFound) {
			respondError(c, http.StatusNotFound, "导航项不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "首页导航已更新"})
}
