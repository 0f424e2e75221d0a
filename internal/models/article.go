// Package models содержит доменные сущности xplore-server.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category — закрытый перечень рубрик статей.
type Category string

const (
	CategoryHardware   Category = "Hardware"
	CategoryWearables  Category = "Wearables"
	CategoryFutureTech Category = "Future Tech"
	CategorySpace      Category = "Space"
	CategoryAI         Category = "AI"
	CategoryMobile     Category = "Mobile"
	CategoryGaming     Category = "Gaming"
	CategoryScience    Category = "Science"
)

// Categories — список допустимых рубрик (для валидации на создании/обновлении).
var Categories = []Category{
	CategoryHardware, CategoryWearables, CategoryFutureTech, CategorySpace,
	CategoryAI, CategoryMobile, CategoryGaming, CategoryScience,
}

// Valid сообщает, входит ли рубрика в закрытый перечень.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}

	return false
}

// MediaKind — тип медиавложения статьи.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

// MediaItem — одно медиавложение статьи.
//   - Kind: image|video;
//   - URL: публичный адрес;
//   - StorageKey: ключ объекта в бакете (нужен для удаления при чистке; опционален);
//   - Thumbnail: превью для видео (опционально).
type MediaItem struct {
	Kind       MediaKind `bson:"kind" json:"kind"`
	URL        string    `bson:"url" json:"url"`
	StorageKey string    `bson:"storage_key,omitempty" json:"storageKey,omitempty"`
	Thumbnail  string    `bson:"thumbnail,omitempty" json:"thumbnail,omitempty"`
}

// AnonymousView — отметка о просмотре анонимным посетителем.
// VisitorID — непрозрачный клиентский токен; он дедуплицирует просмотры,
// но никогда не участвует в авторизации.
type AnonymousView struct {
	VisitorID string    `bson:"visitor_id" json:"visitorId"`
	ViewedAt  time.Time `bson:"viewed_at" json:"viewedAt"`
}

// Article — внутренняя доменная модель статьи (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB, наружу конвертируется в hex-string;
//   - счётчики Likes/Dislikes/Shares кэшируют размеры соответствующих множеств
//     и меняются только одним атомарным апдейтом вместе с множеством;
//   - LikedBy/DislikedBy взаимоисключающие для одного пользователя;
//   - IsProtected == (len(BookmarkedBy)>0) — защита от авточистки;
//   - ExpiresAt = CreatedAt + TTL (по умолчанию 3 дня);
//   - Viewers растёт не более одного раза на пользователя (ViewedBy)
//     и не более одного раза на анонимный visitor-токен (AnonymousViews).
type Article struct {
	ID       string      `bson:"-" json:"id"`
	Title    string      `bson:"title" json:"title"`
	Excerpt  string      `bson:"excerpt" json:"excerpt"`
	Content  string      `bson:"content" json:"content"`
	Author   string      `bson:"author" json:"author"`
	Category Category    `bson:"category" json:"category"`
	Image    string      `bson:"image,omitempty" json:"image,omitempty"`
	Media    []MediaItem `bson:"media,omitempty" json:"media,omitempty"`

	Viewers  int64 `bson:"viewers" json:"viewers"`
	Likes    int64 `bson:"likes" json:"likes"`
	Dislikes int64 `bson:"dislikes" json:"dislikes"`
	Shares   int64 `bson:"shares" json:"shares"`

	// IsLive — редакторский флаг «прямой эфир»; к жизненному циклу отношения не имеет.
	IsLive bool `bson:"is_live" json:"isLive"`

	LikedBy      []uuid.UUID `bson:"liked_by,omitempty" json:"-"`
	DislikedBy   []uuid.UUID `bson:"disliked_by,omitempty" json:"-"`
	SharedBy     []uuid.UUID `bson:"shared_by,omitempty" json:"-"`
	BookmarkedBy []uuid.UUID `bson:"bookmarked_by,omitempty" json:"-"`

	ViewedBy       []uuid.UUID     `bson:"viewed_by,omitempty" json:"-"`
	AnonymousViews []AnonymousView `bson:"anonymous_views,omitempty" json:"-"`

	CreatedBy uuid.UUID `bson:"created_by,omitempty" json:"createdBy,omitempty"`

	ExpiresAt   time.Time `bson:"expires_at" json:"expiresAt"`
	IsProtected bool      `bson:"is_protected" json:"isProtected"`
	CreatedAt   time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updatedAt"`
}

// InteractionStatus — состояние вовлечённости конкретного пользователя.
// Заполняется только для аутентифицированных запросов.
type InteractionStatus struct {
	IsLiked      bool `json:"isLiked"`
	IsDisliked   bool `json:"isDisliked"`
	IsBookmarked bool `json:"isBookmarked"`
	IsShared     bool `json:"isShared"`
}

// StatusFor вычисляет вовлечённость пользователя по множествам статьи.
func (a *Article) StatusFor(userID uuid.UUID) InteractionStatus {
	return InteractionStatus{
		IsLiked:      containsUUID(a.LikedBy, userID),
		IsDisliked:   containsUUID(a.DislikedBy, userID),
		IsBookmarked: containsUUID(a.BookmarkedBy, userID),
		IsShared:     containsUUID(a.SharedBy, userID),
	}
}

func containsUUID(set []uuid.UUID, id uuid.UUID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}

	return false
}

// ListParams — параметры постраничной выдачи списка статей.
type ListParams struct {
	Category Category
	Since    time.Time
	Search   string
	Limit    int32
	Page     int32
}

// ArticlePage — результат постраничной выдачи.
type ArticlePage struct {
	Items []Article
	Total int64
	Page  int32
	Pages int32
}
