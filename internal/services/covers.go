package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

const maxCoverSize = 5 * 1024 * 1024 // 5MB

var ErrInvalidCover = errors.New("cover must be a JPEG, PNG, GIF or WebP image up to 5MB")

type CoverStorage interface {
	// UploadCover stores an uploaded image and returns its public URL.
	UploadCover(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error)
}

// S3CoverStorage keeps uploaded cover images in an S3 bucket.
type S3CoverStorage struct {
	client     s3iface.S3API
	bucketName string
	region     string
	now        func() time.Time
}

func NewS3CoverStorage(region, bucketName, accessKey, secretKey string) (*S3CoverStorage, error) {
	cfg := &aws.Config{Region: aws.String(region)}
	if accessKey != "" {
		cfg.Credentials = credentials.NewStaticCredentials(accessKey, secretKey, "")
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}
	return newS3CoverStorage(s3.New(sess), region, bucketName), nil
}

func newS3CoverStorage(client s3iface.S3API, region, bucketName string) *S3CoverStorage {
	return &S3CoverStorage{
		client:     client,
		bucketName: bucketName,
		region:     region,
		now:        time.Now,
	}
}

func (s *S3CoverStorage) UploadCover(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = contentTypeFromExtension(header.Filename)
	}
	if !isValidImageType(contentType) || header.Size > maxCoverSize {
		return "", ErrInvalidCover
	}

	key := fmt.Sprintf("covers/%s/%s%s",
		s.now().UTC().Format("2006/01/02"), uuid.New().String(), strings.ToLower(filepath.Ext(header.Filename)))

	buffer := bytes.NewBuffer(nil)
	if _, err := io.Copy(buffer, io.LimitReader(file, maxCoverSize+1)); err != nil {
		return "", fmt.Errorf("failed to read cover: %w", err)
	}
	if buffer.Len() > maxCoverSize {
		return "", ErrInvalidCover
	}

	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(buffer.Bytes()),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=31536000"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cover to S3: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, key), nil
}

func isValidImageType(contentType string) bool {
	validTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	for _, validType := range validTypes {
		if strings.EqualFold(contentType, validType) {
			return true
		}
	}
	return false
}

func contentTypeFromExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
