package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/pkg/log"
	"github.com/ashlinpj/xplore/internal/storage"
)

// CreateArticleInput — создание статьи (только админ; проверка роли — на транспорте).
type CreateArticleInput struct {
	Title    string
	Excerpt  string
	Content  string
	Author   string
	Category models.Category
	Image    string
	Media    []models.MediaItem
	IsLive   bool
}

// UpdateArticleInput — частичное обновление редакторских полей; nil — «не менять».
type UpdateArticleInput struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Author   *string
	Category *models.Category
	Image    *string
	Media    *[]models.MediaItem
	IsLive   *bool
}

// ArticleView — статья вместе с вовлечённостью запрашивающего
// (Status != nil только для аутентифицированных запросов).
type ArticleView struct {
	Article *models.Article
	Status  *models.InteractionStatus
}

// CreateArticle — бизнес-операция создания статьи.
//
// Валидация: Title/Excerpt/Content/Author обязательны, Category — из закрытого
// перечня, медиавложения — с валидным kind и непустым url.
// Срок жизни: ExpiresAt = время создания + cfg.Lifecycle.TTL.
// Побочный эффект: fan-out уведомления подписчикам (асинхронно, best-effort).
func (s *Service) CreateArticle(ctx context.Context, in CreateArticleInput, actor models.Actor) (*models.Article, error) {
	const op = "service/articles/CreateArticle"

	lg := log.From(ctx).With("op", op, "user_id", actor.UserID.String())

	if !actor.Authenticated() {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Excerpt = strings.TrimSpace(in.Excerpt)
	in.Content = strings.TrimSpace(in.Content)
	in.Author = strings.TrimSpace(in.Author)

	if in.Title == "" || in.Excerpt == "" || in.Content == "" || in.Author == "" {
		lg.Warn("invalid argument: missing required field")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !in.Category.Valid() {
		lg.Warn("invalid argument: unknown category", "category", string(in.Category))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	for _, mi := range in.Media {
		if (mi.Kind != models.MediaImage && mi.Kind != models.MediaVideo) || strings.TrimSpace(mi.URL) == "" {
			lg.Warn("invalid argument: bad media item")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	now := time.Now().UTC()

	article := models.Article{
		Title:     in.Title,
		Excerpt:   in.Excerpt,
		Content:   in.Content,
		Author:    in.Author,
		Category:  in.Category,
		Image:     in.Image,
		Media:     in.Media,
		IsLive:    in.IsLive,
		CreatedBy: actor.UserID,
		// Один отсчёт часов для обеих меток: expires_at = created_at + TTL точно.
		CreatedAt: now,
		ExpiresAt: s.ComputeExpiry(now),
	}

	created, err := s.storage.CreateArticle(ctx, article)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "CreateArticle", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	s.fanOutCreated(ctx, created)

	return created, nil
}

// fanOutCreated — асинхронная рассылка о новой статье.
// Ошибки доставки только логируются: публикация статьи от них не зависит.
func (s *Service) fanOutCreated(ctx context.Context, article *models.Article) {
	if s.notifier == nil {
		return
	}

	lg := log.From(ctx)

	go func() {
		nctx, cancel := context.WithTimeout(context.Background(), s.cfg.Notify.Timeout)
		defer cancel()

		if err := s.notifier.NotifyArticleCreated(nctx, article); err != nil {
			lg.Warn("article fan-out failed", "article_id", article.ID, "err", err)
		}
	}()
}

// GetArticle — выдача одной статьи с побочным эффектом дедуплицированного
// учёта просмотра (только на одиночном фетче, не на списках).
//
// Просмотр считается:
//   - аутентифицированному — один раз на личность;
//   - анониму с visitor-токеном — один раз на токен;
//   - без того и другого — всегда (деградированный режим старых клиентов;
//     известный источник завышения, сохранён сознательно).
func (s *Service) GetArticle(ctx context.Context, articleID string, actor models.Actor) (*ArticleView, error) {
	const op = "service/articles/GetArticle"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID)

	if articleID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	counted, err := s.storage.RegisterView(ctx, articleID, actor)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "RegisterView", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	if counted {
		viewsCounted.Inc()
	}

	article, err := s.storage.ArticleByID(ctx, articleID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ArticleByID", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	view := &ArticleView{Article: article}

	if actor.Authenticated() {
		st := article.StatusFor(actor.UserID)

		// Закладка живёт на стороне пользователя; сверяемся с его множеством.
		if u, err := s.storage.UserByID(ctx, actor.UserID); err == nil {
			st.IsBookmarked = u.HasBookmark(article.ID)
		}

		view.Status = &st
	}

	return view, nil
}

// ListArticles — страница статей без побочных эффектов на счётчиках.
func (s *Service) ListArticles(ctx context.Context, p models.ListParams) (*models.ArticlePage, error) {
	const op = "service/articles/ListArticles"

	lg := log.From(ctx).With("op", op)

	if p.Category != "" && !p.Category.Valid() {
		lg.Warn("invalid argument: unknown category", "category", string(p.Category))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	page, err := s.storage.ListArticles(ctx, p)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ListArticles", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return page, nil
}

// UpdateArticle — частичное обновление редакторских полей.
func (s *Service) UpdateArticle(ctx context.Context, articleID string, in UpdateArticleInput) (*models.Article, error) {
	const op = "service/articles/UpdateArticle"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID)

	if articleID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Category != nil && !in.Category.Valid() {
		lg.Warn("invalid argument: unknown category", "category", string(*in.Category))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	article, err := s.storage.UpdateArticle(ctx, articleID, storage.ArticleUpdate{
		Title:    in.Title,
		Excerpt:  in.Excerpt,
		Content:  in.Content,
		Author:   in.Author,
		Category: in.Category,
		Image:    in.Image,
		Media:    in.Media,
		IsLive:   in.IsLive,
	})
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "UpdateArticle", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return article, nil
}

// DeleteArticle — явное удаление админом: запись, ссылки в закладках всех
// пользователей и медиаобъекты (best-effort).
func (s *Service) DeleteArticle(ctx context.Context, articleID string) error {
	const op = "service/articles/DeleteArticle"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID)

	if articleID == "" {
		lg.Warn("invalid argument: empty id")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	article, err := s.storage.DeleteArticle(ctx, articleID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "DeleteArticle", err, mapped)
		return fmt.Errorf("%s: %w", op, mapped)
	}

	if err := s.storage.PullBookmarkRefs(ctx, articleID); err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "PullBookmarkRefs", err, mapped)
		return fmt.Errorf("%s: %w", op, mapped)
	}

	s.removeArticleMedia(ctx, article)

	return nil
}

// removeArticleMedia удаляет медиаобъекты статьи из бакета.
// Ошибки отдельных объектов логируются и не прерывают операцию.
func (s *Service) removeArticleMedia(ctx context.Context, article *models.Article) {
	if s.media == nil {
		return
	}

	lg := log.From(ctx)

	for _, mi := range article.Media {
		if mi.StorageKey == "" {
			continue
		}

		if err := s.media.RemoveMedia(ctx, mi.StorageKey); err != nil {
			sweepMediaFailures.Inc()
			lg.Warn("media cleanup failed",
				"article_id", article.ID,
				"storage_key", mi.StorageKey,
				"err", err,
			)
		}
	}
}

// LiveUpdates — заголовки последних is_live статей для тикера.
// Пустая лента отдаётся как есть: плейсхолдеры — дело фронта.
func (s *Service) LiveUpdates(ctx context.Context) ([]string, error) {
	const op = "service/articles/LiveUpdates"

	lg := log.From(ctx).With("op", op)

	items, err := s.storage.LiveArticles(ctx, 5)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "LiveArticles", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	titles := make([]string, 0, len(items))
	for _, a := range items {
		titles = append(titles, a.Title)
	}

	return titles, nil
}

// Stats — сводка для админ-панели.
func (s *Service) Stats(ctx context.Context) (*models.AdminStats, error) {
	const op = "service/articles/Stats"

	lg := log.From(ctx).With("op", op)

	stats, err := s.storage.Stats(ctx)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "Stats", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return stats, nil
}
