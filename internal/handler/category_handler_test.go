package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/db"
)

func TestDeleteCategoryInUse(t *testing.T) {
	api, gdb, cleanup := setupHandlerTest(t)
	defer cleanup()

	category := db.Category{Name: "技术", Slug: "tech"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	posts := []db.Post{
		{Title: "一", Slug: "one", CategoryID: &category.ID},
		{Title: "二", Slug: "two", CategoryID: &category.ID},
	}
	if err := gdb.Create(&posts).Error; err != nil {
		t.Fatalf("failed to seed posts: %v", err)
	}

	c, w := newTestContext(t, http.MethodDelete, "/admin/api/categories/1", "")
	c.Params = gin.Params{{Key: "id", Value: "1"}}
	api.DeleteCategory(c)

	assertStatus(t, w, http.StatusBadRequest)

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !strings.Contains(payload.Error, "2") {
		t.Fatalf("expected post count in message, got %q", payload.Error)
	}
}

func TestDeleteCategoryMissing(t *testing.T) {
	api, _, cleanup := setupHandlerTest(t)
	defer cleanup()

	c, w := newTestContext(t, http.MethodDelete, "/admin/api/categories/999", "")
	c.Params = gin.Params{{Key: "id", Value: "999"}}
	api.DeleteCategory(c)

	assertStatus(t, w, http.StatusNotFound)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	api, gdb, cleanup := setupHandlerTest(t)
	defer cleanup()

	category := db.Category{Name: "技术", Slug: "tech"}
	if err := gdb.Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	c, w := newTestContext(t, http.MethodPost, "/admin/api/categories", `{"name":"技术"}`)
	api.CreateCategory(c)

	assertStatus(t, w, http.StatusBadRequest)
}
