package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/pkg/log"
	"github.com/ashlinpj/xplore/internal/storage"
)

// ErrMediaDisabled — объектное хранилище не сконфигурировано.
var ErrMediaDisabled = fmt.Errorf("media storage disabled: %w", ErrInvalidArgument)

// MediaUploadURL выдаёт presigned PUT для загрузки медиавложения.
func (s *Service) MediaUploadURL(ctx context.Context, kind models.MediaKind, contentType string, contentLength int64) (*storage.MediaUploadInfo, error) {
	const op = "service/media/MediaUploadURL"

	lg := log.From(ctx).With("op", op, "kind", string(kind))

	if s.media == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrMediaDisabled)
	}

	info, err := s.media.MediaUploadURL(ctx, kind, contentType, contentLength)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "MediaUploadURL", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return info, nil
}

// ConfirmMediaUpload проверяет, что объект по ключу действительно загружен,
// и возвращает его публичный URL.
func (s *Service) ConfirmMediaUpload(ctx context.Context, key string) (string, error) {
	const op = "service/media/ConfirmMediaUpload"

	key = strings.TrimSpace(key)
	lg := log.From(ctx).With("op", op, "storage_key", key)

	if s.media == nil {
		return "", fmt.Errorf("%s: %w", op, ErrMediaDisabled)
	}

	if key == "" {
		lg.Warn("invalid argument: empty key")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.media.CheckMediaUpload(ctx, key)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "CheckMediaUpload", err, mapped)
		return "", fmt.Errorf("%s: %w", op, mapped)
	}

	return publicURL, nil
}
