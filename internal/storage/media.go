package storage

import (
	"context"
	"time"

	"github.com/ashlinpj/xplore/internal/models"
)

// MediaUploadInfo — информация для клиента о presigned PUT загрузке медиафайла.
//   - UploadURL: конечная URL для PUT-запроса;
//   - StorageKey: ключ будущего объекта в бакете;
//   - Expires: время жизни подписи;
//   - RequiredHeader: заголовки, которые клиент ОБЯЗАН передать при PUT.
type MediaUploadInfo struct {
	UploadURL      string
	StorageKey     string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// MediaStorage — контракт объектного хранилища медиавложений статей.
type MediaStorage interface {
	// MediaUploadURL генерирует presigned PUT. Внутри — валидация contentType и contentLength.
	MediaUploadURL(ctx context.Context, kind models.MediaKind, contentType string, contentLength int64) (*MediaUploadInfo, error)

	// CheckMediaUpload проверяет факт загрузки по key (наличие, тип, размер)
	// и возвращает публичный URL объекта (если сконфигурирован PublicBaseURL).
	CheckMediaUpload(ctx context.Context, key string) (publicURL string, err error)

	// RemoveMedia удаляет объект по ключу. Отсутствующий объект — не ошибка:
	// чистка обязана быть идемпотентной.
	RemoveMedia(ctx context.Context, key string) error
}
