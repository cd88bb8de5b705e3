package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/service"
)

type commentSubmitRequest struct {
	AuthorName  string `json:"authorName"`
	AuthorEmail string `json:"authorEmail"`
	AuthorURL   string `json:"authorUrl"`
	Content     string `json:"content" binding:"required"`
}

type commentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func commentItem(comment db.Comment) gin.H {
	return gin.H{
		"id":         comment.ID,
		"postId":     comment.PostID,
		"authorName": comment.AuthorName,
		"authorUrl":  comment.AuthorURL,
		"content":    comment.Content,
		"status":     comment.Status,
		"likeCount":  comment.LikeCount,
		"createdAt":  comment.CreatedAt.Format(time.RFC3339),
	}
}

// ListPostComments 获取文章的已审核评论（公开接口）
func (a *API) ListPostComments(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	comments, err := a.comments.ListApproved(post.ID)
	if err != nil {
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(comments))
	for _, comment := range comments {
		items = append(items, commentItem(comment))
	}
	c.JSON(http.StatusOK, gin.H{"comments": items})
}

// SubmitComment 处理访客提交的评论，正文在入口处净化
func (a *API) SubmitComment(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "文章不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	var req commentSubmitRequest
	if !bindJSON(c, &req, "评论内容不能为空") {
		return
	}

	comment, err := a.comments.Submit(post.ID, service.CommentInput{
		AuthorName:  req.AuthorName,
		AuthorEmail: req.AuthorEmail,
		AuthorURL:   req.AuthorURL,
		Content:     sanitizer.Sanitize(req.Content),
		IP:          c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			respondError(c, http.StatusNotFound, "文章不存在")
		case errors.Is(err, service.ErrCommentContentRequired):
			respondError(c, http.StatusBadRequest, "评论内容不能为空")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "评论已提交，等待审核", "comment": commentItem(*comment)})
}

// LikeComment 为评论点赞，返回累加后的计数
func (a *API) LikeComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	count, err := a.comments.Like(id)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"likeCount": count})
}

// ListComments 获取评论列表（后台接口）
func (a *API) ListComments(c *gin.Context) {
	result, err := a.comments.List(service.CommentFilter{
		Status:  c.Query("status"),
		PostID:  parseUintQuery(c, "post_id"),
		Page:    parseIntQuery(c, "page"),
		PerPage: parseIntQuery(c, "per_page"),
	})
	if err != nil {
		if errors.Is(err, service.ErrCommentStatusInvalid) {
			respondError(c, http.StatusBadRequest, "无效的评论状态")
			return
		}
		respondServerError(c, err)
		return
	}

	items := make([]gin.H, 0, len(result.Items))
	for _, comment := range result.Items {
		items = append(items, commentItem(comment))
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":   items,
		"total":      result.Total,
		"totalPages": result.TotalPages,
		"page":       result.Page,
		"perPage":    result.PerPage,
	})
}

// UpdateCommentStatus 更新评论状态
func (a *API) UpdateCommentStatus(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	var req commentStatusRequest
	if !bindJSON(c, &req, "评论状态不能为空") {
		return
	}

	comment, err := a.comments.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCommentStatusInvalid):
			respondError(c, http.StatusBadRequest, "无效的评论状态")
		case errors.Is(err, service.ErrCommentNotFound):
			respondError(c, http.StatusNotFound, "评论不存在")
		default:
			respondServerError(c, err)
		}
		return
	}

	respondOK(c, gin.H{"message": "评论状态更新成功", "comment": commentItem(*comment)})
}

// DeleteComment 删除评论
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(id); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			respondError(c, http.StatusNotFound, "评论不存在")
			return
		}
		respondServerError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "评论删除成功"})
}
