// service содержит бизнес-логику xplore-server: правила вовлечённости,
// дедупликацию просмотров и политику устаревания статей.
package service

import (
	"context"
	"errors"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/storage"
)

var (
	// ErrNotFound — статья отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — действие вовлечённости без разрешённой личности.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrTimeout — истёк дедлайн обращения к хранилищу; повтор безопасен,
	// toggle-операции сходятся.
	ErrTimeout = errors.New("timeout")
	// ErrConflict — запрошенное изменение несовместимо с текущим состоянием.
	ErrConflict = errors.New("conflict")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст и т.д.).
	ErrInternal = errors.New("internal")
)

// Notifier — контракт fan-out уведомлений о новых статьях.
// Доставка (push-транспорт) вне зоны ответственности сервиса.
type Notifier interface {
	NotifyArticleCreated(ctx context.Context, article *models.Article) error
}

// Service — бизнес-логика сервиса статей.
type Service struct {
	storage  storage.Storage
	media    storage.MediaStorage
	notifier Notifier
	cfg      config.Config
}

// New создаёт новый экземпляр Service.
// notifier может быть nil — рассылка тогда отключена.
func New(st storage.Storage, media storage.MediaStorage, notifier Notifier, cfg config.Config) *Service {
	return &Service{
		storage:  st,
		media:    media,
		notifier: notifier,
		cfg:      cfg,
	}
}

// mapStorageErr переводит ошибки хранилища в сервисные.
// Отдельно распознаёт истечение дедлайна: клиенту нужен повторяемый Timeout.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrInvalidArgument):
		return ErrInvalidArgument
	case errors.Is(err, storage.ErrConflict):
		return ErrConflict
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout
	default:
		return ErrInternal
	}
}
