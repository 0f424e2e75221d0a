package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/pkg/log"
)

// ReactionResult — итог toggle-операции like/dislike.
type ReactionResult struct {
	Likes      int64
	Dislikes   int64
	IsLiked    bool
	IsDisliked bool
}

// ShareResult — итог операции share. IsShared всегда true:
// «поделился» не отзывается.
type ShareResult struct {
	Shares   int64
	IsShared bool
}

// BookmarkResult — итог toggle-операции bookmark.
type BookmarkResult struct {
	IsBookmarked   bool
	BookmarksCount int64
}

// Like — переключение лайка статьи.
//
// Семантика:
//   - повторный вызов того же актёра снимает его же лайк;
//   - установка лайка снимает дизлайк, если он стоял (взаимное исключение);
//   - IsDisliked в результате всегда false.
//
// Поведение/ошибки:
//   - ErrUnauthenticated — нет разрешённой личности;
//   - ErrNotFound — статьи нет;
//   - ErrTimeout/ErrConflict/ErrInternal — по mapStorageErr.
func (s *Service) Like(ctx context.Context, articleID string, actor models.Actor) (*ReactionResult, error) {
	const op = "service/engagement/Like"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID, "user_id", actor.UserID.String())

	if err := requireActor(articleID, actor); err != nil {
		lg.Warn("rejected", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st, err := s.storage.ToggleLike(ctx, articleID, actor.UserID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ToggleLike", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	engagementOps.WithLabelValues("like").Inc()

	return &ReactionResult{
		Likes:      st.Likes,
		Dislikes:   st.Dislikes,
		IsLiked:    st.Liked,
		IsDisliked: st.Disliked,
	}, nil
}

// Dislike — симметрично Like; IsLiked в результате всегда false.
func (s *Service) Dislike(ctx context.Context, articleID string, actor models.Actor) (*ReactionResult, error) {
	const op = "service/engagement/Dislike"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID, "user_id", actor.UserID.String())

	if err := requireActor(articleID, actor); err != nil {
		lg.Warn("rejected", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st, err := s.storage.ToggleDislike(ctx, articleID, actor.UserID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ToggleDislike", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	engagementOps.WithLabelValues("dislike").Inc()

	return &ReactionResult{
		Likes:      st.Likes,
		Dislikes:   st.Dislikes,
		IsLiked:    st.Liked,
		IsDisliked: st.Disliked,
	}, nil
}

// Share — идемпотентное «поделился»: повторные вызовы того же актёра
// счётчик не меняют.
func (s *Service) Share(ctx context.Context, articleID string, actor models.Actor) (*ShareResult, error) {
	const op = "service/engagement/Share"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID, "user_id", actor.UserID.String())

	if err := requireActor(articleID, actor); err != nil {
		lg.Warn("rejected", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	shares, err := s.storage.AddShare(ctx, articleID, actor.UserID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "AddShare", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	engagementOps.WithLabelValues("share").Inc()

	return &ShareResult{Shares: shares, IsShared: true}, nil
}

// Bookmark — переключение закладки.
//
// Двусторонняя связь user.bookmarks <-> article.bookmarked_by приводится
// к целевому состоянию (не «слепой toggle»): текущее членство читается,
// затем обе стороны доводятся до want. После мутации выполняется явный
// пересчёт защиты — отдельным шагом, чтобы он тестировался независимо.
func (s *Service) Bookmark(ctx context.Context, articleID string, actor models.Actor) (*BookmarkResult, error) {
	const op = "service/engagement/Bookmark"

	articleID = strings.TrimSpace(articleID)
	lg := log.From(ctx).With("op", op, "article_id", articleID, "user_id", actor.UserID.String())

	if err := requireActor(articleID, actor); err != nil {
		lg.Warn("rejected", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	article, err := s.storage.ArticleByID(ctx, articleID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "ArticleByID", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	want := !article.StatusFor(actor.UserID).IsBookmarked

	count, err := s.storage.SetBookmark(ctx, articleID, actor.UserID, want)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "SetBookmark", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	if _, err := s.storage.UpdateProtection(ctx, articleID); err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "UpdateProtection", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	engagementOps.WithLabelValues("bookmark").Inc()

	return &BookmarkResult{IsBookmarked: want, BookmarksCount: count}, nil
}

// ListBookmarks возвращает все статьи из закладок актёра.
func (s *Service) ListBookmarks(ctx context.Context, actor models.Actor) ([]models.Article, error) {
	const op = "service/engagement/ListBookmarks"

	lg := log.From(ctx).With("op", op, "user_id", actor.UserID.String())

	if !actor.Authenticated() {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	items, err := s.storage.BookmarkedArticles(ctx, actor.UserID)
	if err != nil {
		mapped := mapStorageErr(err)
		logStorageErr(lg, "BookmarkedArticles", err, mapped)
		return nil, fmt.Errorf("%s: %w", op, mapped)
	}

	return items, nil
}

// requireActor — общая проверка входа операций вовлечённости.
func requireActor(articleID string, actor models.Actor) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}

	if articleID == "" {
		return ErrInvalidArgument
	}

	return nil
}

// logStorageErr пишет ошибку стораджа с уровнем по её серьёзности:
// ожидаемые отказы — warn, всё остальное — error.
func logStorageErr(lg *slog.Logger, call string, err, mapped error) {
	switch mapped {
	case ErrNotFound, ErrInvalidArgument, ErrConflict:
		lg.Warn("storage rejected "+call, "err", err)
	default:
		lg.Error("storage error on "+call, "err", err)
	}
}
