package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
)

// 单个上传文件的大小上限 15MB。
const maxUploadSize = 15 * 1024 * 1024

type folderRequest struct {
	Name string `json:"name" binding:"required"`
}

func (a *API) fileItem(file db.File) gin.H {
	item := gin.H{
		"id":            file.ID,
		"folderId":      file.FolderID,
		"name":          file.Name,
		"url":           a.files.URL(&file),
		"contentType":   file.ContentType,
		"size":          file.Size,
		"isImage":       file.IsImage,
		"isVideo":       file.IsVideo,
		"width":         file.Width,
		"height":        file.Height,
		"hasThumbnails": file.HasThumbnails,
		"createdAt":     file.CreatedAt.Format(time.RFC3339),
	}
	return item
}

// UploadFile 处理媒体文件上传
func (a *API) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, http.StatusBadRequest, "未找到上传的文件")
		return
	}
	if header.Size > maxUploadSize {
		respondError(c, http.StatusBadRequest, "文件大小超出限制")
		return
	}

	src, err := header.Open()
	if err != nil {
		respondServerError(c, err)
		return
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		respondServerError(c, err)
		return
	}
	if len(data) > maxUploadSize {
		respondError(c, http.StatusBadRequest, "文件大小超出限制")
		return
	}

	var folderID *uint
	if id := parseUintQuery(c, "folder_id"); id != 0 {
		folderID = &id
	}

	file, err := a.files.Upload(c.Request.Context(), service.UploadInput{
		FolderID:    folderID,
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFolderNotFound):
			respondError(c, http.StatusNotFound, "文件夹不存在")
		case errors.Is(err, service.ErrFileDataRequired):
			respondError(c, http.StatusBadRequest, "文件内容不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "上传成功", "file": a.fileItem(*file)})
}

// ListFiles 获取媒体库文件列表，已清除的文件不会出现
func (a *API) ListFiles(c *gin.Context) {
	var folderID *uint
	if id := parseUintQuery(c, "folder_id"); id != 0 {
		folderID = &id
	}

	result, err := a.files.List(service.FileFilter{
		FolderID: folderID,
		Page:     parseIntQuery(c, "page"),
		PerPage:  parseIntQuery(c, "per_page"),
	})
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, file := range result.Items {
		items = append(items, a.fileItem(file))
	}

	c.JSON(http.StatusOK, gin.H{
		"files":      items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// PurgeFile 软删除文件并移除存储对象
func (a *API) PurgeFile(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文件ID")
		return
	}

	if err := a.files.Purge(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrFileNotFound) {
			respondError(c, http.StatusNotFound, "文件不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "文件已删除"})
}

// ListFolders 获取媒体库文件夹列表
func (a *API) ListFolders(c *gin.Context) {
	folders, err := a.files.ListFolders()
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(folders))
	for _, folder := range folders {
		items = append(items, gin.H{"id": folder.ID, "name": folder.Name})
	}
	c.JSON(http.StatusOK, gin.H{"folders": items})
}

// CreateFolder 创建媒体库文件夹
func (a *API) CreateFolder(c *gin.Context) {
	var req folderRequest
	if !bindJSON(c, &req, "文件夹名称不能为空") {
		return
	}

	folder, err := a.files.CreateFolder(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFolderExists):
			respondError(c, http.StatusBadRequest, "文件夹已存在")
		case errors.Is(err, service.ErrFolderNameRequired):
			respondError(c, http.StatusBadRequest, "文件夹名称不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "文件夹创建成功", "folder": gin.H{"id": folder.ID, "name": folder.Name}})
}
