package handler

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown 将 Markdown 渲染为净化后的 HTML。
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

type postRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	Content    string `json:"content"`
	Summary    string `json:"summary"`
	Status     string `json:"status"`
	CategoryID *uint  `json:"categoryId"`
	TagIDs     []uint `json:"tagIds"`
}

func postListItem(post db.Post) gin.H {
	tags := make([]gin.H, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, gin.H{"id": tag.ID, "name": tag.Name, "slug": tag.Slug})
	}

	item := gin.H{
		"id":        post.ID,
		"title":     post.Title,
		"slug":      post.Slug,
		"summary":   post.Summary,
		"status":    post.Status,
		"viewCount": post.ViewCount,
		"tags":      tags,
		"createdAt": post.CreatedAt.Format(time.RFC3339),
	}
	if post.Category != nil {
		item["category"] = gin.H{"id": post.Category.ID, "name": post.Category.Name, "slug": post.Category.Slug}
	}
	if post.PublishedAt != nil {
		item["publishedAt"] = post.PublishedAt.Format(time.RFC3339)
	}
	return item
}

// ListPublishedPosts 获取已发布文章列表（公开接口）
func (a *API) ListPublishedPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Status:     service.PostStatusPublished,
		CategoryID: parseUintQuery(c, "category_id"),
		TagID:      parseUintQuery(c, "tag_id"),
		Search:     c.Query("search"),
		Page:       parseIntQuery(c, "page"),
		PerPage:    parseIntQuery(c, "per_page"),
	})
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, post := range result.Items {
		items = append(items, postListItem(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetPublishedPost 按 slug 获取单篇已发布文章，正文渲染为 HTML
func (a *API) GetPublishedPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}
	if post.Status != service.PostStatusPublished {
		respondError(c, http.StatusNotFound, "文章不存在")
		return
	}

	item := postListItem(*post)
	item["content"] = post.Content
	item["html"] = renderMarkdown(post.Content)
	c.JSON(http.StatusOK, gin.H{"post": item})
}

// RecordPostView 累加文章浏览计数
func (a *API) RecordPostView(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	count, err := a.posts.RecordView(post.ID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"viewCount": count})
}

// ListPosts 获取全部文章列表（后台接口）
func (a *API) ListPosts(c *gin.Context) {
	result, err := a.posts.List(service.PostFilter{
		Status:     c.Query("status"),
		CategoryID: parseUintQuery(c, "category_id"),
		TagID:      parseUintQuery(c, "tag_id"),
		Search:     c.Query("search"),
		Page:       parseIntQuery(c, "page"),
		PerPage:    parseIntQuery(c, "per_page"),
	})
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, post := range result.Items {
		items = append(items, postListItem(post))
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":      items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// GetPost 获取单篇文章（后台接口）
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	item := postListItem(*post)
	item["content"] = post.Content
	c.JSON(http.StatusOK, gin.H{"post": item})
}

// CreatePost 创建新文章
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Summary:    req.Summary,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "文章标题不能为空")
		case errors.Is(err, service.ErrPostSlugExists):
			respondError(c, http.StatusBadRequest, "文章 slug 已存在")
		case errors.Is(err, service.ErrPostStatusInvalid):
			respondError(c, http.StatusBadRequest, "无效的文章状态")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "文章创建成功", "post": postListItem(*post)})
}

// UpdatePost 更新文章
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "请求格式不正确") {
		return
	}

	post, err := a.posts.Update(id, service.PostInput{
		Title:      req.Title,
		Slug:       req.Slug,
		Content:    req.Content,
		Summary:    req.Summary,
		Status:     req.Status,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrPostTitleRequired):
			respondError(c, http.StatusBadRequest, "文章标题不能为空")
		case errors.Is(err, service.ErrPostSlugExists):
			respondError(c, http.StatusBadRequest, "文章 slug 已存在")
		case errors.Is(err, service.ErrPostStatusInvalid):
			respondError(c, http.StatusBadRequest, "无效的文章状态")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "文章更新成功", "post": postListItem(*post)})
}

// PublishPost 发布草稿文章
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	post, err := a.posts.Publish(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "文章发布成功", "post": postListItem(*post)})
}

// DeletePost 删除文章
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的文章ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "文章删除成功"})
}
