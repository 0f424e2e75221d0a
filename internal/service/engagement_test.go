package service

// Тесты операций вовлечённости (internal/service/engagement.go).
//
//  Проверяем:
//  - требование аутентификации (Like/Dislike/Share/Bookmark/ListBookmarks);
//  - валидацию articleID;
//  - маппинг ошибок storage -> service (NotFound / Conflict / DeadlineExceeded / Internal);
//  - happy-path каждой операции и форму результата;
//  - для Bookmark — чтение текущего состояния, целевой want и явный пересчёт защиты.
//
// Подготовка окружения:
//   # 1) Сгенерировать моки интерфейсов хранилища:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//
//   # 2) Запустить тесты:
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/storage"
	"github.com/ashlinpj/xplore/mocks"
)

// newServiceWithMocks поднимает сервис с моками стораджа.
func newServiceWithMocks(t *testing.T) (*Service, *mocks.MockStorage, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)
	s := &Service{storage: ms, cfg: config.Config{}}
	return s, ms, ctrl
}

// authActor — аутентифицированный актёр для тестов.
func authActor() models.Actor {
	return models.Actor{UserID: uuid.New(), Role: models.RoleUser}
}

const testArticleID = "64f0c0ffee0c0ffee0c0ffee"

func TestLike_Unauthenticated(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.Like(context.Background(), testArticleID, models.Actor{VisitorID: "v-1"})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestLike_EmptyID(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.Like(context.Background(), "   ", authActor())
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestLike_HappyPath(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()
	ms.EXPECT().
		ToggleLike(gomock.Any(), testArticleID, actor.UserID).
		Return(&storage.ReactionState{Likes: 3, Dislikes: 1, Liked: true}, nil)

	res, err := s.Like(context.Background(), testArticleID, actor)
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Likes)
	require.Equal(t, int64(1), res.Dislikes)
	require.True(t, res.IsLiked)
	require.False(t, res.IsDisliked)
}

func TestLike_NotFound(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().
		ToggleLike(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrNotFound)

	_, err := s.Like(context.Background(), testArticleID, authActor())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLike_Conflict(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().
		ToggleLike(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, storage.ErrConflict)

	_, err := s.Like(context.Background(), testArticleID, authActor())
	require.ErrorIs(t, err, ErrConflict)
}

func TestLike_DeadlineExceeded(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().
		ToggleLike(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, context.DeadlineExceeded)

	_, err := s.Like(context.Background(), testArticleID, authActor())
	require.ErrorIs(t, err, ErrTimeout)
}

func TestDislike_HappyPath(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()
	ms.EXPECT().
		ToggleDislike(gomock.Any(), testArticleID, actor.UserID).
		Return(&storage.ReactionState{Likes: 0, Dislikes: 2, Disliked: true}, nil)

	res, err := s.Dislike(context.Background(), testArticleID, actor)
	require.NoError(t, err)
	require.Equal(t, int64(2), res.Dislikes)
	require.True(t, res.IsDisliked)
	require.False(t, res.IsLiked)
}

func TestShare_HappyPath_AlwaysShared(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()
	ms.EXPECT().
		AddShare(gomock.Any(), testArticleID, actor.UserID).
		Return(int64(7), nil)

	res, err := s.Share(context.Background(), testArticleID, actor)
	require.NoError(t, err)
	require.Equal(t, int64(7), res.Shares)
	require.True(t, res.IsShared)
}

func TestShare_Unauthenticated(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.Share(context.Background(), testArticleID, models.Actor{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestBookmark_SetWhenAbsent(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()

	// В bookmarked_by актёра нет: целевое состояние — добавить.
	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(&models.Article{ID: testArticleID}, nil)
	ms.EXPECT().
		SetBookmark(gomock.Any(), testArticleID, actor.UserID, true).
		Return(int64(1), nil)
	ms.EXPECT().
		UpdateProtection(gomock.Any(), testArticleID).
		Return(true, nil)

	res, err := s.Bookmark(context.Background(), testArticleID, actor)
	require.NoError(t, err)
	require.True(t, res.IsBookmarked)
	require.Equal(t, int64(1), res.BookmarksCount)
}

func TestBookmark_UnsetWhenPresent(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()

	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(&models.Article{
			ID:           testArticleID,
			BookmarkedBy: []uuid.UUID{actor.UserID},
			IsProtected:  true,
		}, nil)
	ms.EXPECT().
		SetBookmark(gomock.Any(), testArticleID, actor.UserID, false).
		Return(int64(0), nil)
	ms.EXPECT().
		UpdateProtection(gomock.Any(), testArticleID).
		Return(false, nil)

	res, err := s.Bookmark(context.Background(), testArticleID, actor)
	require.NoError(t, err)
	require.False(t, res.IsBookmarked)
	require.Equal(t, int64(0), res.BookmarksCount)
}

func TestBookmark_ArticleMissing(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(nil, storage.ErrNotFound)

	_, err := s.Bookmark(context.Background(), testArticleID, authActor())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestBookmark_ProtectionFailureSurfaces(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()

	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(&models.Article{ID: testArticleID}, nil)
	ms.EXPECT().
		SetBookmark(gomock.Any(), testArticleID, actor.UserID, true).
		Return(int64(1), nil)
	ms.EXPECT().
		UpdateProtection(gomock.Any(), testArticleID).
		Return(false, errors.New("boom"))

	_, err := s.Bookmark(context.Background(), testArticleID, actor)
	require.ErrorIs(t, err, ErrInternal)
}

func TestListBookmarks_HappyPath(t *testing.T) {
	s, ms, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	actor := authActor()
	ms.EXPECT().
		BookmarkedArticles(gomock.Any(), actor.UserID).
		Return([]models.Article{{ID: testArticleID, Title: "t"}}, nil)

	items, err := s.ListBookmarks(context.Background(), actor)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, testArticleID, items[0].ID)
}

func TestListBookmarks_Unauthenticated(t *testing.T) {
	s, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.ListBookmarks(context.Background(), models.Actor{})
	require.ErrorIs(t, err, ErrUnauthenticated)
}
