package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"path"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/inklog/internal/db"
	"github.com/inklog/internal/storage"
	"gorm.io/gorm"

	// 注册 webp 解码器，使上传的 webp 图片也能读取尺寸
	_ "golang.org/x/image/webp"
)

var (
	ErrFileNotFound       = errors.New("file not found")
	ErrFileDataRequired   = errors.New("file data is required")
	ErrFolderNotFound     = errors.New("folder not found")
	ErrFolderExists       = errors.New("folder already exists")
	ErrFolderNameRequired = errors.New("folder name is required")
)

// 缩略图与中等尺寸渲染的最大宽度。
const (
	thumbnailMaxWidth = 240
	mediumMaxWidth    = 480
)

// FileService 管理上传文件的元数据与对象存储内容。
type FileService struct {
	db    *gorm.DB
	store storage.ObjectStore
}

// NewFileService creates a FileService instance.
func NewFileService(gdb *gorm.DB, store storage.ObjectStore) *FileService {
	return &FileService{db: gdb, store: store}
}

// UploadInput represents an incoming file upload.
type UploadInput struct {
	FolderID    *uint
	Name        string
	ContentType string
	Data        []byte
}

// FileFilter 描述媒体库文件列表的筛选条件。
type FileFilter struct {
	FolderID *uint
	Page     int
	PerPage  int
}

// FileListResult aggregates paginated file results.
type FileListResult struct {
	Items      []db.File
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// Upload 将文件写入对象存储并记录元数据。
// 图片上传会解析尺寸并生成中等与缩略两种渲染。
func (s *FileService) Upload(ctx context.Context, input UploadInput) (*db.File, error) {
	if len(input.Data) == 0 {
		return nil, ErrFileDataRequired
	}

	if input.FolderID != nil {
		var folder db.Folder
		if err := s.db.First(&folder, *input.FolderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrFolderNotFound
			}
			return nil, err
		}
	}

	contentType := strings.TrimSpace(input.ContentType)
	key := newObjectKey(input.Name)

	file := db.File{
		FolderID:    input.FolderID,
		ObjectKey:   key,
		Name:        strings.TrimSpace(input.Name),
		ContentType: contentType,
		Size:        int64(len(input.Data)),
		IsImage:     strings.HasPrefix(contentType, "image/"),
		IsVideo:     strings.HasPrefix(contentType, "video/"),
	}

	if file.IsImage {
		if img, err := imaging.Decode(bytes.NewReader(input.Data)); err == nil {
			bounds := img.Bounds()
			file.Width = bounds.Dx()
			file.Height = bounds.Dy()

			mediumKey, thumbKey, renderErr := s.putRenditions(ctx, key, img)
			if renderErr != nil {
				// 渲染失败不阻断上传，原图仍然可用
				log.Printf("generate renditions for %s: %v", key, renderErr)
			} else {
				file.MediumKey = mediumKey
				file.ThumbnailKey = thumbKey
				file.HasThumbnails = true
			}
		}
	}

	if _, err := s.store.Put(ctx, key, input.Data, contentType); err != nil {
		return nil, fmt.Errorf("store object: %w", err)
	}

	if err := s.db.Create(&file).Error; err != nil {
		return nil, err
	}
	return &file, nil
}

// List returns files matching the filter, newest first. Purged files are hidden.
func (s *FileService) List(filter FileFilter) (FileListResult, error) {
	result := FileListResult{
		Page:    normalizePage(filter.Page),
		PerPage: normalizePerPage(filter.PerPage, 20),
	}

	query := s.db.Model(&db.File{}).Where("purged = ?", false)
	if filter.FolderID != nil {
		query = query.Where("folder_id = ?", *filter.FolderID)
	}

	if err := query.Count(&result.Total).Error; err != nil {
		return result, err
	}

	result.TotalPages = calculateTotalPages(result.Total, result.PerPage)
	offset := (result.Page - 1) * result.PerPage

	if err := query.Order("created_at desc").Order("id desc").
		Limit(result.PerPage).
		Offset(offset).
		Find(&result.Items).Error; err != nil {
		return result, err
	}

	return result, nil
}

// Get fetches file metadata by id.
func (s *FileService) Get(id uint) (*db.File, error) {
	var file db.File
	if err := s.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// URL 返回文件的公开访问地址。
func (s *FileService) URL(file *db.File) string {
	return s.store.URL(file.ObjectKey)
}

// Purge 软删除文件并尽力移除对应的存储对象。
// 对象删除失败只记日志：purged 标记是唯一权威状态。
func (s *FileService) Purge(ctx context.Context, id uint) error {
	var file db.File
	if err := s.db.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	if err := s.db.Model(&file).Update("purged", true).Error; err != nil {
		return err
	}

	for _, key := range []string{file.ObjectKey, file.MediumKey, file.ThumbnailKey} {
		if key == "" {
			continue
		}
		if err := s.store.Delete(ctx, key); err != nil {
			log.Printf("delete object %s: %v", key, err)
		}
	}

	return nil
}

// CreateFolder inserts a new media folder with unique name.
func (s *FileService) CreateFolder(name string) (*db.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFolderNameRequired
	}

	var existing db.Folder
	if err := s.db.Where("name = ?", name).First(&existing).Error; err == nil {
		return nil, ErrFolderExists
	}

	folder := db.Folder{Name: name}
	if err := s.db.Create(&folder).Error; err != nil {
		return nil, err
	}
	return &folder, nil
}

// ListFolders returns all media folders by name.
func (s *FileService) ListFolders() ([]db.Folder, error) {
	var folders []db.Folder
	if err := s.db.Order("name asc").Order("id asc").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

// putRenditions 生成并保存中等与缩略两种 JPEG 渲染，返回对象键。
func (s *FileService) putRenditions(ctx context.Context, key string, img image.Image) (string, string, error) {
	mediumKey := renditionKey(key, "medium")
	thumbKey := renditionKey(key, "thumb")

	medium, err := encodeResized(img, mediumMaxWidth)
	if err != nil {
		return "", "", err
	}
	if _, err := s.store.Put(ctx, mediumKey, medium, "image/jpeg"); err != nil {
		return "", "", err
	}

	thumb, err := encodeResized(img, thumbnailMaxWidth)
	if err != nil {
		return "", "", err
	}
	if _, err := s.store.Put(ctx, thumbKey, thumb, "image/jpeg"); err != nil {
		return "", "", err
	}

	return mediumKey, thumbKey, nil
}

func encodeResized(img image.Image, maxWidth int) ([]byte, error) {
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// newObjectKey 以月份分目录生成唯一对象键，保留原始扩展名。
func newObjectKey(name string) string {
	ext := strings.ToLower(path.Ext(name))
	return fmt.Sprintf("%s/%s%s", time.Now().Format("2006/01"), uuid.New().String(), ext)
}

func renditionKey(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "-" + suffix + ".jpg"
}
