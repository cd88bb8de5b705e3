package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/inklog/internal/cache"
	"github.com/inklog/internal/config"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/handler"
	"github.com/inklog/internal/router"
	"github.com/inklog/internal/storage"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 按需初始化超级管理员
	if err := db.EnsureUser(cfg.SuperRootUserName, cfg.SuperRootPassword); err != nil {
		log.Fatalf("failed to ensure root user: %v", err)
	}

	// 对象存储：配置了 S3 端点时使用对象存储，否则回退到本地磁盘
	var store storage.ObjectStore
	if cfg.S3Endpoint != "" {
		s3, err := storage.NewS3Storage(context.Background(), storage.S3Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			PublicURL: cfg.S3PublicURL,
			UseSSL:    cfg.S3UseSSL,
		})
		if err != nil {
			log.Fatalf("failed to initialize object storage: %v", err)
		}
		store = s3
	} else {
		local, err := storage.NewLocalStorage(cfg.UploadDir)
		if err != nil {
			log.Fatalf("failed to initialize local storage: %v", err)
		}
		store = local
	}

	// 边缘缓存：未配置清除接口时不做缓存失效
	var invalidator cache.Invalidator = cache.NopInvalidator{}
	if cfg.CachePurgeURL != "" {
		invalidator = cache.NewHTTPInvalidator(cfg.CachePurgeURL, cfg.CachePurgeToken)
	}

	api := handler.NewAPI(db.DB, handler.Options{
		Store:       store,
		Invalidator: invalidator,
		SiteBaseURL: cfg.SiteBaseURL,
		QuotaBytes:  cfg.StorageQuotaBytes,
	})

	// 设置并运行 Gin 服务器
	r := router.SetupRouter(api, cfg.SessionSecret)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
