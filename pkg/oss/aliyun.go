// Package oss 对象存储服务，保存支付凭证和房间照片
package oss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

// 对象前缀
const (
	PrefixReceipts   = "receipts"
	PrefixRoomPhotos = "rooms"
)

// Uploader 上传器接口
type Uploader interface {
	Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error)
	Delete(ctx context.Context, objectKey string) error
	GetURL(objectKey string) string
	GetSignedURL(objectKey string, expires time.Duration) (string, error)
}

// AliyunConfig 阿里云 OSS 配置
type AliyunConfig struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	BucketName      string
	Domain          string // 自定义域名（可选）
	BasePath        string
}

// AliyunUploader 阿里云 OSS 上传器
type AliyunUploader struct {
	bucket *oss.Bucket
	config *AliyunConfig
}

// NewAliyunUploader 创建阿里云 OSS 上传器
func NewAliyunUploader(config *AliyunConfig) (*AliyunUploader, error) {
	client, err := oss.New(config.Endpoint, config.AccessKeyID, config.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("create oss client: %w", err)
	}

	bucket, err := client.Bucket(config.BucketName)
	if err != nil {
		return nil, fmt.Errorf("get oss bucket: %w", err)
	}

	return &AliyunUploader{bucket: bucket, config: config}, nil
}

// Upload 上传对象，返回访问地址
func (u *AliyunUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	opts := []oss.Option{oss.ContentType(ContentType(objectKey)), oss.WithContext(ctx)}
	if err := u.bucket.PutObject(u.fullKey(objectKey), reader, opts...); err != nil {
		return "", fmt.Errorf("put object %s: %w", objectKey, err)
	}
	return u.GetURL(objectKey), nil
}

// Delete 删除对象
func (u *AliyunUploader) Delete(ctx context.Context, objectKey string) error {
	return u.bucket.DeleteObject(u.fullKey(objectKey), oss.WithContext(ctx))
}

// GetURL 获取对象 URL
func (u *AliyunUploader) GetURL(objectKey string) string {
	key := u.fullKey(objectKey)
	if u.config.Domain != "" {
		return fmt.Sprintf("%s/%s", strings.TrimSuffix(u.config.Domain, "/"), key)
	}
	return fmt.Sprintf("https://%s.%s/%s", u.config.BucketName, u.config.Endpoint, key)
}

// GetSignedURL 获取带签名的临时 URL
func (u *AliyunUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return u.bucket.SignURL(u.fullKey(objectKey), oss.HTTPGet, int64(expires.Seconds()))
}

func (u *AliyunUploader) fullKey(objectKey string) string {
	if u.config.BasePath == "" {
		return objectKey
	}
	return path.Join(u.config.BasePath, objectKey)
}

// ReceiptKey 支付凭证对象键：receipts/<paymentId>/<uuid><ext>
func ReceiptKey(paymentID, filename string) string {
	return fmt.Sprintf("%s/%s/%s%s", PrefixReceipts, paymentID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

// RoomPhotoKey 房间照片对象键：rooms/<roomId>/<yyyy/mm/dd>/<uuid><ext>
func RoomPhotoKey(roomID, filename string) string {
	return fmt.Sprintf("%s/%s/%s/%s%s", PrefixRoomPhotos, roomID, time.Now().Format("2006/01/02"),
		uuid.NewString(), strings.ToLower(path.Ext(filename)))
}

var contentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".pdf":  "application/pdf",
}

// ContentType 根据扩展名获取 Content-Type
func ContentType(filename string) string {
	if ct, ok := contentTypes[strings.ToLower(path.Ext(filename))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ValidateReceipt 校验凭证文件：图片或 PDF，且不超过 maxSize
// 返回的 reader 包含已读取的文件头
func ValidateReceipt(filename string, size, maxSize int64, reader io.Reader) (io.Reader, error) {
	return validateUpload(filename, size, maxSize, reader, true)
}

// ValidateImage 校验图片文件
func ValidateImage(filename string, size, maxSize int64, reader io.Reader) (io.Reader, error) {
	return validateUpload(filename, size, maxSize, reader, false)
}

func validateUpload(filename string, size, maxSize int64, reader io.Reader, allowPDF bool) (io.Reader, error) {
	ext := strings.ToLower(path.Ext(filename))
	ct, ok := contentTypes[ext]
	if !ok || (!allowPDF && !strings.HasPrefix(ct, "image/")) {
		return nil, fmt.Errorf("unsupported file type: %q", ext)
	}
	if maxSize > 0 && size > maxSize {
		return nil, fmt.Errorf("file too large: %d > %d bytes", size, maxSize)
	}

	header := make([]byte, 512)
	n, err := io.ReadFull(reader, header)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read file header: %w", err)
	}
	header = header[:n]

	detected := http.DetectContentType(header)
	isImage := strings.HasPrefix(detected, "image/")
	if !isImage && !(allowPDF && detected == "application/pdf") {
		return nil, fmt.Errorf("file content is %s", detected)
	}
	return io.MultiReader(bytes.NewReader(header), reader), nil
}

// MockUploader 内存上传器（开发/测试用）
type MockUploader struct {
	mu    sync.Mutex
	Files map[string][]byte
}

// NewMockUploader 创建内存上传器
func NewMockUploader() *MockUploader {
	return &MockUploader{Files: make(map[string][]byte)}
}

// Upload 保存到内存
func (u *MockUploader) Upload(ctx context.Context, objectKey string, reader io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.mu.Lock()
	u.Files[objectKey] = data
	u.mu.Unlock()
	return u.GetURL(objectKey), nil
}

// Delete 从内存删除
func (u *MockUploader) Delete(_ context.Context, objectKey string) error {
	u.mu.Lock()
	delete(u.Files, objectKey)
	u.mu.Unlock()
	return nil
}

// Get 读取已保存的对象
func (u *MockUploader) Get(objectKey string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.Files[objectKey]
	return data, ok
}

// GetURL 获取模拟 URL
func (u *MockUploader) GetURL(objectKey string) string {
	return fmt.Sprintf("https://mock-oss.example.com/%s", objectKey)
}

// GetSignedURL 获取模拟签名 URL
func (u *MockUploader) GetSignedURL(objectKey string, expires time.Duration) (string, error) {
	return fmt.Sprintf("%s?expires=%d", u.GetURL(objectKey), time.Now().Add(expires).Unix()), nil
}
