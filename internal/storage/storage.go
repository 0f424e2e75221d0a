package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ashlinpj/xplore/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — нарушены ограничения запроса (формат id, тип/размер медиа).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConflict — запрошенное изменение несовместимо с текущим состоянием.
	ErrConflict = errors.New("conflict")
)

// ReactionState — результат toggle-операции like/dislike.
// Счётчики всегда равны размерам соответствующих множеств: хранилище меняет
// счётчик и множество одним атомарным апдейтом документа.
type ReactionState struct {
	Likes    int64
	Dislikes int64
	Liked    bool
	Disliked bool
}

// ArticleUpdate — частичное обновление редакторских полей статьи.
// nil-поле означает «не менять».
type ArticleUpdate struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Author   *string
	Category *models.Category
	Image    *string
	Media    *[]models.MediaItem
	IsLive   *bool
}

// Storage описывает операции над статьями и закладками пользователей.
//
// Контракт конкурентности: все мутации вовлечённости применяются как
// условные атомарные апдейты одного документа (фильтр по членству во
// множестве + $addToSet/$pull/$inc), поэтому два конкурирующих вызова
// одного актёра сходятся к одному toggle, а потерянные инкременты исключены.
type Storage interface {
	// CreateArticle сохраняет новую статью. Хранилище проставляет
	// ID/CreatedAt/UpdatedAt; ExpiresAt задаёт вызывающая сторона.
	CreateArticle(ctx context.Context, article models.Article) (*models.Article, error)

	// ArticleByID возвращает статью по hex-идентификатору.
	// Некорректный формат id трактуется как ErrNotFound.
	ArticleByID(ctx context.Context, id string) (*models.Article, error)

	// ListArticles возвращает страницу статей: фильтр по рубрике/дате/поиску,
	// сортировка created_at DESC, limit/page-пагинация.
	ListArticles(ctx context.Context, p models.ListParams) (*models.ArticlePage, error)

	// UpdateArticle применяет частичное обновление редакторских полей.
	// Если запись не найдена — ErrNotFound.
	UpdateArticle(ctx context.Context, id string, upd ArticleUpdate) (*models.Article, error)

	// DeleteArticle удаляет запись и возвращает её прежнее состояние
	// (медиавложения нужны вызывающему для чистки объектного хранилища).
	// Повторное удаление — ErrNotFound.
	DeleteArticle(ctx context.Context, id string) (*models.Article, error)

	// PullBookmarkRefs убирает статью из множеств закладок всех пользователей
	// (каскад при удалении статьи). Идемпотентно.
	PullBookmarkRefs(ctx context.Context, articleID string) error

	// ToggleLike — переключение лайка с взаимным исключением дизлайка.
	// Возвращает итоговое состояние реакций.
	ToggleLike(ctx context.Context, articleID string, userID uuid.UUID) (*ReactionState, error)

	// ToggleDislike — симметрично ToggleLike.
	ToggleDislike(ctx context.Context, articleID string, userID uuid.UUID) (*ReactionState, error)

	// AddShare — идемпотентное добавление «поделился»; повторные вызовы
	// одного актёра счётчик не меняют. Возвращает итоговый счётчик.
	AddShare(ctx context.Context, articleID string, userID uuid.UUID) (int64, error)

	// SetBookmark приводит двустороннюю связь user.bookmarks <-> article.bookmarked_by
	// к целевому состоянию want (идемпотентно, а не «слепой toggle»: повтор после
	// частичного сбоя безопасен). Порядок детерминирован: сначала пользователь,
	// затем статья. Возвращает итоговый размер bookmarked_by.
	SetBookmark(ctx context.Context, articleID string, userID uuid.UUID, want bool) (int64, error)

	// UpdateProtection пересчитывает is_protected = (len(bookmarked_by) > 0).
	// Пишет только при фактическом изменении значения; возвращает итог.
	UpdateProtection(ctx context.Context, articleID string) (bool, error)

	// RegisterView применяет дедупликацию просмотров для одного запроса статьи:
	// аутентифицированный id — по viewed_by; visitor-токен — по anonymous_views;
	// без того и другого — инкремент всегда (осознанный деградированный режим).
	// Запись происходит только когда просмотр действительно засчитан.
	RegisterView(ctx context.Context, articleID string, actor models.Actor) (bool, error)

	// UserByID возвращает проекцию пользователя (множество закладок).
	// Если записи нет — ErrNotFound.
	UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)

	// BookmarkedArticles возвращает все статьи из закладок пользователя.
	// Неизвестный пользователь эквивалентен пустому множеству.
	BookmarkedArticles(ctx context.Context, userID uuid.UUID) ([]models.Article, error)

	// ExpiredUnprotected возвращает статьи с expires_at < now и is_protected=false.
	ExpiredUnprotected(ctx context.Context, now time.Time) ([]models.Article, error)

	// ExpiringSoon возвращает незащищённые статьи с expires_at в [now, now+window).
	ExpiringSoon(ctx context.Context, now time.Time, window time.Duration) ([]models.Article, error)

	// ExtendExpiry выставляет expires_at = until. Если записи нет — ErrNotFound.
	ExtendExpiry(ctx context.Context, articleID string, until time.Time) (*models.Article, error)

	// LiveArticles возвращает последние статьи с is_live=true (для тикера).
	LiveArticles(ctx context.Context, limit int64) ([]models.Article, error)

	// Stats собирает сводку для админ-панели.
	Stats(ctx context.Context) (*models.AdminStats, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
