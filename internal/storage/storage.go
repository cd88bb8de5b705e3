package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore 抽象了媒体文件的二进制存储，键由上层生成。
type ObjectStore interface {
	// Put 保存对象并返回可公开访问的 URL。
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete 删除对象，对象不存在时不视为错误。
	Delete(ctx context.Context, key string) error
	// URL 返回对象的公开访问地址。
	URL(key string) string
}

// LocalStorage 将对象写入本地磁盘，用于没有配置对象存储的开发环境。
type LocalStorage struct {
	UploadDir string
}

// NewLocalStorage 创建 LocalStorage 并确保上传目录存在。
func NewLocalStorage(uploadDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{UploadDir: uploadDir}, nil
}

func (ls *LocalStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	fullPath := filepath.Join(ls.UploadDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", err
	}
	return ls.URL(key), nil
}

func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	err := os.Remove(filepath.Join(ls.UploadDir, filepath.FromSlash(key)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (ls *LocalStorage) URL(key string) string {
	return "/uploads/" + key
}

// S3Storage 基于 S3 兼容接口的对象存储实现。
type S3Storage struct {
	client     *minio.Client
	bucketName string
	publicURL  string
}

// S3Options 描述 S3 兼容存储的连接参数。
type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	PublicURL string
	UseSSL    bool
}

// NewS3Storage 连接对象存储并校验桶存在。
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	endpoint := strings.TrimPrefix(opts.Endpoint, "https://")
	endpoint = strings.TrimPrefix(endpoint, "http://")

	var creds *credentials.Credentials
	if opts.AccessKey == "" || opts.SecretKey == "" {
		// 未提供密钥时使用 IAM 角色凭证
		creds = credentials.NewIAM("")
	} else {
		creds = credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, "")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  creds,
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", opts.Bucket)
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		protocol := "http"
		if opts.UseSSL {
			protocol = "https"
		}
		publicURL = fmt.Sprintf("%s://%s.%s", protocol, opts.Bucket, endpoint)
	}
	publicURL = strings.TrimSuffix(publicURL, "/")

	return &S3Storage{
		client:     client,
		bucketName: opts.Bucket,
		publicURL:  publicURL,
	}, nil
}

func (s3 *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	reader := bytes.NewReader(data)
	_, err := s3.client.PutObject(ctx, s3.bucketName, key, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return s3.URL(key), nil
}

func (s3 *S3Storage) Delete(ctx context.Context, key string) error {
	return s3.client.RemoveObject(ctx, s3.bucketName, key, minio.RemoveObjectOptions{})
}

func (s3 *S3Storage) URL(key string) string {
	return fmt.Sprintf("%s/%s", s3.publicURL, key)
}
