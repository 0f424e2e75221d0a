package minio

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/storage"
)

// mediaPrefix — корень ключей медиавложений в бакете.
const mediaPrefix = "articles"

// MediaUploadURL генерирует presigned PUT URL для загрузки медиафайла статьи.
// Валидирует contentType и contentLength согласно конфигу, формирует ключ вида
// "articles/<kind>/<uuid>.<ext>" и возвращает заголовки, которые клиент
// обязан передать при PUT (проверяются при подтверждении).
func (s *MediaStorage) MediaUploadURL(ctx context.Context, kind models.MediaKind, contentType string, contentLength int64) (*storage.MediaUploadInfo, error) {
	const op = "storage/minio/media/MediaUploadURL"

	if kind != models.MediaImage && kind != models.MediaVideo {
		return nil, storage.ErrInvalidArgument
	}

	if contentLength <= 0 || contentLength > s.cfg.Media.MaxSizeBytes {
		return nil, storage.ErrInvalidArgument
	}

	if !isAllowedContentType(s.cfg.Media.AllowedContentTypes, contentType) {
		return nil, storage.ErrInvalidArgument
	}

	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "video/mp4":
		ext = ".mp4"
	default:
		ext = ""
	}

	key := path.Join(mediaPrefix, string(kind), uuid.NewString()+ext)

	url, err := s.client.PresignedPutObject(ctx, s.cfg.S3.Bucket, key, s.cfg.S3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	info := &storage.MediaUploadInfo{
		UploadURL:  url.String(),
		StorageKey: key,
		Expires:    s.cfg.S3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}

	return info, nil
}

// CheckMediaUpload подтверждает факт загрузки по key: объект существует и
// удовлетворяет ограничениям размера/типа. Возвращает публичный URL
// (если PublicBaseURL задан), иначе — пустую строку.
func (s *MediaStorage) CheckMediaUpload(ctx context.Context, key string) (publicURL string, err error) {
	const op = "storage/minio/media/CheckMediaUpload"

	if !strings.HasPrefix(key, mediaPrefix+"/") {
		return "", storage.ErrInvalidArgument
	}

	objInfo, err := s.client.StatObject(ctx, s.cfg.S3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return "", storage.ErrNotFound
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if objInfo.Size <= 0 || objInfo.Size > s.cfg.Media.MaxSizeBytes {
		return "", storage.ErrInvalidArgument
	}

	if ct := objInfo.ContentType; ct != "" && !isAllowedContentType(s.cfg.Media.AllowedContentTypes, ct) {
		return "", storage.ErrInvalidArgument
	}

	if s.cfg.S3.PublicBaseURL == "" {
		return "", nil
	}

	base := strings.TrimRight(s.cfg.S3.PublicBaseURL, "/")

	return base + "/" + key, nil
}

// RemoveMedia удаляет объект по ключу. Отсутствующий объект — не ошибка:
// фоновая чистка может прийти за одним объектом дважды.
func (s *MediaStorage) RemoveMedia(ctx context.Context, key string) error {
	const op = "storage/minio/media/RemoveMedia"

	if strings.TrimSpace(key) == "" {
		return storage.ErrInvalidArgument
	}

	if err := s.client.RemoveObject(ctx, s.cfg.S3.Bucket, key, mclient.RemoveObjectOptions{}); err != nil {
		errResp := mclient.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.StatusCode == 404 {
			return nil
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// isAllowedContentType проверяет, что тип содержимого входит в allow-list.
func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
