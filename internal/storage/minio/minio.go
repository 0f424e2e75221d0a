// minio предоставляет реализацию storage.MediaStorage на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, настраивает
// Secure/creds и проверяет наличие целевого бакета.
// media.go — presigned PUT для загрузки медиа, подтверждение загрузки
// и идемпотентное удаление объектов при чистке статей.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/storage"
)

// MediaStorage — адаптер MinIO для медиавложений статей.
type MediaStorage struct {
	cfg    *config.Config
	client *mclient.Client
}

// New создаёт и инициализирует клиент MinIO.
// Убирает схему из endpoint, подбирает Secure по схеме и выполняет
// fail-fast-проверку доступности бакета.
func New(ctx context.Context, cfg *config.Config) (*MediaStorage, error) {
	const op = "storage/minio/New"

	endpoint := cfg.S3.Endpoint
	secure := strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &MediaStorage{cfg: cfg, client: client}, nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.MediaStorage = (*MediaStorage)(nil)
