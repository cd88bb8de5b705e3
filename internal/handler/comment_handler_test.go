package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
)

func TestSubmitCommentUnknownPost(t *testing.T) {
	api, _, cleanup := setupHandlerTest(t)
	defer cleanup()

	c, w := newTestContext(t, http.MethodPost, "/api/posts/missing/comments", `{"content":"你好"}`)
	c.Params = gin.Params{{Key: "slug", Value: "missing"}}
	api.SubmitComment(c)

	assertStatus(t, w, http.StatusNotFound)
}

func TestSubmitCommentLandsPending(t *testing.T) {
	api, gdb, cleanup := setupHandlerTest(t)
	defer cleanup()

	post := db.Post{Title: "文章", Slug: "hello", Status: "published"}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}

	c, w := newTestContext(t, http.MethodPost, "/api/posts/hello/comments", `{"content":"写得不错"}`)
	c.Params = gin.Params{{Key: "slug", Value: "hello"}}
	api.SubmitComment(c)

	assertStatus(t, w, http.StatusOK)

	var comment db.Comment
	if err := gdb.Where("post_id = ?", post.ID).First(&comment).Error; err != nil {
		t.Fatalf("expected stored comment: %v", err)
	}
	if comment.Status != db.CommentStatusPending {
		t.Fatalf("expected pending status, got %q", comment.Status)
	}
	if comment.AuthorName != "匿名" {
		t.Fatalf("expected anonymous author fallback, got %q", comment.AuthorName)
	}
}

func TestUpdateCommentStatusRejectsUnknownStatus(t *testing.T) {
	api, gdb, cleanup := setupHandlerTest(t)
	defer cleanup()

	post := db.Post{Title: "文章", Slug: "hello", Status: "published"}
	if err := gdb.Create(&post).Error; err != nil {
		t.Fatalf("failed to seed post: %v", err)
	}
	comment := db.Comment{PostID: post.ID, Content: "评论", Status: db.CommentStatusPending}
	if err := gdb.Create(&comment).Error; err != nil {
		t.Fatalf("failed to seed comment: %v", err)
	}

	c, w := newTestContext(t, http.MethodPut, "/admin/api/comments/1/status", `{"status":"deleted"}`)
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	api.UpdateCommentStatus(c)

	assertStatus(t, w, http.StatusBadRequest)

	// 无效状态不落库
	var reloaded db.Comment
	if err := gdb.First(&reloaded, comment.ID).Error; err != nil {
		t.Fatalf("reload comment: %v", err)
	}
	if reloaded.Status != db.CommentStatusPending {
		t.Fatalf("expected status unchanged, got %q", reloaded.Status)
	}
}

func TestLikeCommentMissing(t *testing.T) {
	api, _, cleanup := setupHandlerTest(t)
	defer cleanup()

	c, w := newTestContext(t, http.MethodPost, "/api/comments/999/like", "")
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	api.LikeComment(c)

	assertStatus(t, w, http.StatusNotFound)
}
