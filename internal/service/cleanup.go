package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/pkg/log"
)

// ComputeExpiry — момент устаревания статьи, созданной в createdAt.
func (s *Service) ComputeExpiry(createdAt time.Time) time.Time {
	return createdAt.Add(s.cfg.Lifecycle.TTL)
}

// SweepExpired — один прогон фоновой чистки: удаляет статьи с истёкшим
// expires_at, не защищённые закладками. Возвращает число удалённых.
//
// Операция идемпотентна: повторный прогон по той же базе ничего не находит.
// Медиаобъекты удаляются best-effort — отказ бакета не блокирует чистку.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	const op = "service/cleanup/SweepExpired"

	lg := log.From(ctx).With("op", op)

	expired, err := s.storage.ExpiredUnprotected(ctx, time.Now().UTC())
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ExpiredUnprotected", err, mapped)
		return 0, fmt.Errorf("%s: %w", op, mapped)
	}

	deleted := 0

	for i := range expired {
		// Сначала медиа (best-effort), затем запись: отказ на удалении записи
		// оставляет статью без осиротевших объектов в бакете.
		s.removeArticleMedia(ctx, &expired[i])

		if _, err := s.storage.DeleteArticle(ctx, expired[i].ID); err != nil {
			// Гонка с ручным удалением — пропускаем.
			mapped := mapStorageErr(err)
			if mapped == ErrNotFound {
				continue
			}

			logStorageErr(lg, "DeleteArticle", err, mapped)
			return deleted, fmt.Errorf("%s: %w", op, mapped)
		}

		deleted++
		sweepDeleted.Inc()
	}

	if deleted > 0 {
		lg.Info("sweep finished", "deleted", deleted)
	}

	return deleted, nil
}

// ExpiringSoon — статьи, срок которых истекает в ближайшее окно
// (cfg.Lifecycle.ExpiringWindow); для админ-отчёта.
func (s *Service) ExpiringSoon(ctx context.Context) ([]models.Article, error) {
	const op = "service/cleanup/ExpiringSoon"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.ExpiringSoon(ctx, time.Now().UTC(), s.cfg.Lifecycle.ExpiringWindow)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ExpiringSoon", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return items, nil
}

// ExtendExpiry — админ-продление срока жизни статьи: expires_at = now + days.
// days <= 0 означает «ещё один TTL от текущего момента».
func (s *Service) ExtendExpiry(ctx context.Context, articleID string, days int) (*models.Article, error) {
	const op = "service/cleanup/ExtendExpiry"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID, "days", days)

	if articleID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	now := time.Now().UTC()

	until := s.ComputeExpiry(now)
	if days > 0 {
		until = now.Add(time.Duration(days) * 24 * time.Hour)
	}

	article, err := s.storage.ExtendExpiry(ctx, articleID, until)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ExtendExpiry", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return article, nil
}
