package models

import (
	"time"

	"github.com/google/uuid"
)

// Роли пользователей, различимые сервисом.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User — проекция пользователя, которой владеет этот сервис.
// Identity выпускает внешний auth-сервис; здесь хранится только
// множество закладок, зеркальное article.BookmarkedBy.
// Обе стороны связи поддерживаются одной логической операцией.
type User struct {
	ID        uuid.UUID `bson:"_id" json:"id"`
	Bookmarks []string  `bson:"bookmarks,omitempty" json:"bookmarks"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasBookmark сообщает, есть ли статья в закладках пользователя.
func (u *User) HasBookmark(articleID string) bool {
	for _, id := range u.Bookmarks {
		if id == articleID {
			return true
		}
	}

	return false
}

// Actor — разрешённая личность, выполняющая действие.
// Нулевой UserID означает анонимный запрос.
type Actor struct {
	UserID uuid.UUID
	Role   string
	// VisitorID — непрозрачный клиентский токен анонимного посетителя;
	// используется только для дедупликации просмотров.
	VisitorID string
}

// Authenticated сообщает, разрешена ли личность.
func (a Actor) Authenticated() bool {
	return a.UserID != uuid.Nil
}

// Admin сообщает, админская ли роль.
func (a Actor) Admin() bool {
	return a.Authenticated() && a.Role == RoleAdmin
}
