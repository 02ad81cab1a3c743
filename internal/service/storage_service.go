package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/restofleet/pos-admin-api/internal/observability"
)

const maxUploadSize = 5 * 1024 * 1024 // 5 MB

var (
	ErrFileTooBig           = errors.New("file size exceeds 5MB limit")
	ErrInvalidFileType      = errors.New("invalid file type, only JPEG and PNG images are allowed")
	ErrInvalidUploadFolder  = errors.New("unknown upload folder")
	ErrBucketCreationFailed = errors.New("failed to create storage bucket")
	ErrUploadFailed         = errors.New("failed to upload file")
	ErrDeleteFailed         = errors.New("failed to delete file")

	allowedContentTypes = map[string]struct{}{
		"image/jpeg": {},
		"image/png":  {},
	}

	// One folder per image-bearing module plus user avatars.
	allowedUploadFolders = map[string]struct{}{
		"avatars":     {},
		"restaurants": {},
		"products":    {},
		"ingredients": {},
		"suppliers":   {},
	}
)

type StoredObject struct {
	FileName   string    `json:"fileName"`
	UploadedAt time.Time `json:"uploadedAt"`
}

type StorageService interface {
	// Upload validates and stores an image under the given folder and
	// returns the generated file name.
	Upload(ctx context.Context, folder string, file io.Reader, fileSize int64) (*StoredObject, error)

	// Delete removes a previously uploaded file. Unknown files are a no-op.
	Delete(ctx context.Context, folder, fileName string) error

	// PublicURL renders the path the console uses to display the file.
	PublicURL(folder, fileName string) string
}

// MinIOStorageService implements StorageService on MinIO/S3-compatible
// storage. Bucket creation is deferred until the first operation so a cold
// MinIO does not block app startup.
type MinIOStorageService struct {
	client   *minio.Client
	bucket   string
	baseURL  string
	initOnce sync.Once
	initErr  error
}

func NewMinIOStorageService(endpoint, accessKey, secretKey, bucket, baseURL string, useSSL bool) (*MinIOStorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOStorageService{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Healthy reports whether the backing store answers a bucket probe. Used
// by the readiness endpoint; never creates the bucket.
func (s *MinIOStorageService) Healthy(ctx context.Context) error {
	_, err := s.client.BucketExists(ctx, s.bucket)
	return err
}

func (s *MinIOStorageService) lazyInit(ctx context.Context) error {
	s.initOnce.Do(func() {
		s.initErr = s.ensureBucketExists(ctx)
	})
	return s.initErr
}

func (s *MinIOStorageService) ensureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("%w: check bucket existence: %v", ErrBucketCreationFailed, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("%w: create bucket: %v", ErrBucketCreationFailed, err)
		}
	}
	return nil
}

func (s *MinIOStorageService) Upload(ctx context.Context, folder string, file io.Reader, fileSize int64) (*StoredObject, error) {
	if _, ok := allowedUploadFolders[folder]; !ok {
		observability.RecordUploadEvent(ctx, folder, "invalid_folder")
		return nil, ErrInvalidUploadFolder
	}
	if fileSize > maxUploadSize {
		observability.RecordUploadEvent(ctx, folder, "too_big")
		return nil, ErrFileTooBig
	}

	// Sniff the real content type from the first bytes; the client-supplied
	// Content-Type header is never trusted.
	buf := make([]byte, 512)
	n, err := io.ReadFull(file, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: read file for content detection: %v", ErrUploadFailed, err)
	}
	buf = buf[:n]

	detectedType := strings.ToLower(strings.TrimSpace(http.DetectContentType(buf)))
	if _, allowed := allowedContentTypes[detectedType]; !allowed {
		observability.RecordUploadEvent(ctx, folder, "invalid_type")
		return nil, ErrInvalidFileType
	}

	if err := s.lazyInit(ctx); err != nil {
		return nil, err
	}

	fullFile := io.MultiReader(bytes.NewReader(buf), file)
	uploadedAt := time.Now().UTC()
	fileName := uuid.New().String() + contentTypeToExtension(detectedType)
	objectKey := folder + "/" + fileName

	_, err = s.client.PutObject(ctx, s.bucket, objectKey, fullFile, fileSize, minio.PutObjectOptions{
		ContentType: detectedType,
		UserMetadata: map[string]string{
			"Detected-Content-Type": detectedType,
			"Uploaded-At":           uploadedAt.Format(time.RFC3339),
		},
	})
	if err != nil {
		observability.RecordUploadEvent(ctx, folder, "error")
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	observability.RecordUploadEvent(ctx, folder, "success")
	observability.RecordUploadBytes(ctx, folder, fileSize)
	return &StoredObject{FileName: fileName, UploadedAt: uploadedAt}, nil
}

func (s *MinIOStorageService) Delete(ctx context.Context, folder, fileName string) error {
	if strings.TrimSpace(fileName) == "" {
		return nil
	}
	if _, ok := allowedUploadFolders[folder]; !ok {
		return ErrInvalidUploadFolder
	}
	if strings.Contains(fileName, "..") || strings.Contains(fileName, "/") {
		return ErrDeleteFailed
	}
	if err := s.lazyInit(ctx); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, folder+"/"+fileName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	return nil
}

func (s *MinIOStorageService) PublicURL(folder, fileName string) string {
	return s.baseURL + "/" + folder + "/" + fileName
}

func contentTypeToExtension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	default:
		return ""
	}
}
