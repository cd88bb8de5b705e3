package router

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/handler"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("inklog_session", store))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.GET("/robots.txt", api.Robots)

	commentLimiter := handler.NewRateLimiter(0, 0)

	// 公开接口
	public := r.Group("/api")
	{
		public.GET("/posts", api.ListPublishedPosts)
		public.GET("/posts/:slug", api.GetPublishedPost)
		public.POST("/posts/:slug/view", api.RecordPostView)
		public.GET("/posts/:slug/comments", api.ListPostComments)
		public.POST("/posts/:slug/comments", commentLimiter.Middleware(), api.SubmitComment)
		public.POST("/comments/:id/like", api.LikeComment)
		public.GET("/navigation", api.ListNavigation)
		public.GET("/categories", api.ListCategories)
		public.GET("/tags", api.ListTags)
		public.GET("/settings", api.GetSettings)
		public.GET("/layout", api.GetLayout)
		public.GET("/qrcode", api.QRCode)
	}

	// 后台管理路由
	admin := r.Group("/admin")
	{
		admin.POST("/login", handler.Login)
		admin.POST("/logout", handler.Logout)

		// 需要认证的后台路由
		auth := admin.Group("/api")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/posts", api.ListPosts)
			auth.GET("/posts/:id", api.GetPost)
			auth.POST("/posts", api.CreatePost)
			auth.PUT("/posts/:id", api.UpdatePost)
			auth.POST("/posts/:id/publish", api.PublishPost)
			auth.DELETE("/posts/:id", api.DeletePost)

			auth.GET("/comments", api.ListComments)
			auth.PUT("/comments/:id/status", api.UpdateCommentStatus)
			auth.DELETE("/comments/:id", api.DeleteComment)

			auth.GET("/categories", api.ListCategories)
			auth.POST("/categories", api.CreateCategory)
			auth.PUT("/categories/:id", api.UpdateCategory)
			auth.DELETE("/categories/:id", api.DeleteCategory)

			auth.GET("/tags", api.ListTags)
			auth.POST("/tags", api.CreateTag)
			auth.PUT("/tags/:id", api.UpdateTag)
			auth.DELETE("/tags/:id", api.DeleteTag)

			auth.GET("/navigation", api.ListAllNavigation)
			auth.POST("/navigation", api.CreateNavigation)
			auth.POST("/navigation/reorder", api.ReorderNavigation)
			auth.PUT("/navigation/:id", api.UpdateNavigation)
			auth.PUT("/navigation/:id/home", api.SetHomeNavigation)
			auth.DELETE("/navigation/:id", api.DeleteNavigation)

			auth.GET("/settings", api.GetSettings)
			auth.PUT("/settings", api.UpdateSettings)

			auth.GET("/layouts", api.ListLayoutTemplates)
			auth.POST("/layouts", api.CreateLayoutTemplate)
			auth.PUT("/layouts/:id", api.UpdateLayoutTemplate)
			auth.DELETE("/layouts/:id", api.DeleteLayoutTemplate)
			auth.GET("/layout", api.GetLayout)
			auth.PUT("/layout/:pageType", api.BindPageLayout)

			auth.POST("/files", api.UploadFile)
			auth.GET("/files", api.ListFiles)
			auth.DELETE("/files/:id", api.PurgeFile)
			auth.GET("/folders", api.ListFolders)
			auth.POST("/folders", api.CreateFolder)

			auth.GET("/stats/dashboard", api.GetDashboardStats)
			auth.GET("/stats/storage", api.GetStorageStats)
		}
	}

	return r
}
