package http

// Тесты REST-поверхности через httptest поверх собранного роутера:
// проверяем маршрутизацию, авторизацию (Bearer/роль/cron-секрет) и форму
// JSON-ответов. Хранилище подменяется gomock-моком, сгенерированным в mocks/.

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/service"
	"github.com/ashlinpj/xplore/internal/storage"
	"github.com/ashlinpj/xplore/mocks"
)

const (
	testJWTSecret  = "test-secret"
	testCronSecret = "cron-secret"
	testArticleID  = "64f0c0ffee0c0ffee0c0ffee"
)

// newTestRouter собирает роутер с мок-хранилищем и тихим логгером.
func newTestRouter(t *testing.T, opts Options) (http.Handler, *mocks.MockStorage) {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	ms := mocks.NewMockStorage(ctrl)
	svc := service.New(ms, nil, nil, config.Config{})

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.JWTSecret == "" {
		opts.JWTSecret = testJWTSecret
	}

	return NewRouter(svc, opts), ms
}

// signToken выпускает HS256-токен с клеймами uid/role, как auth-сервис.
func signToken(t *testing.T, uid uuid.UUID, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uid.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	return signed
}

func doRequest(h http.Handler, method, target, bearer string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		buf = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, target, buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	return got
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, rec)
	inner, ok := body["error"].(map[string]any)
	require.True(t, ok, "expected error envelope, got %s", rec.Body.String())

	code, _ := inner["code"].(string)
	return code
}

func TestLike_HappyPath(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	ms.EXPECT().
		ToggleLike(gomock.Any(), testArticleID, userID).
		Return(&storage.ReactionState{Likes: 3, Dislikes: 1, Liked: true}, nil)

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/like",
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(3), body["likes"])
	require.Equal(t, float64(1), body["dislikes"])
	require.Equal(t, true, body["isLiked"])
	require.Equal(t, false, body["isDisliked"])
}

func TestLike_Unauthenticated(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/like", "", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthenticated", errorCode(t, rec))
}

// Битый токен не отклоняется на мидлваре, а деградирует до анонима:
// 401 возвращает уже операция, требующая личность.
func TestLike_MalformedTokenActsAnonymous(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/like",
		"not-a-jwt", nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "unauthenticated", errorCode(t, rec))
}

func TestLike_ArticleNotFound(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	ms.EXPECT().
		ToggleLike(gomock.Any(), testArticleID, userID).
		Return(nil, storage.ErrNotFound)

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/like",
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "not_found", errorCode(t, rec))
}

func TestShare_HappyPath(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	ms.EXPECT().
		AddShare(gomock.Any(), testArticleID, userID).
		Return(int64(5), nil)

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/share",
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(5), body["shares"])
	require.Equal(t, true, body["isShared"])
}

func TestBookmark_Toggle(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	gomock.InOrder(
		ms.EXPECT().
			ArticleByID(gomock.Any(), testArticleID).
			Return(&models.Article{ID: testArticleID}, nil),
		ms.EXPECT().
			SetBookmark(gomock.Any(), testArticleID, userID, true).
			Return(int64(1), nil),
		ms.EXPECT().
			UpdateProtection(gomock.Any(), testArticleID).
			Return(true, nil),
	)

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/bookmark",
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["isBookmarked"])
	require.Equal(t, float64(1), body["bookmarksCount"])
}

// Анонимный просмотр: X-Visitor-Id доезжает до хранилища, статус
// вовлечённости в ответе отсутствует.
func TestGetArticle_AnonymousVisitor(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	ms.EXPECT().
		RegisterView(gomock.Any(), testArticleID, gomock.Any()).
		DoAndReturn(func(_ any, _ string, actor models.Actor) (bool, error) {
			require.Equal(t, "visitor-7", actor.VisitorID)
			require.False(t, actor.Authenticated())
			return true, nil
		})
	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(&models.Article{ID: testArticleID, Title: "t"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/articles/"+testArticleID, nil)
	req.Header.Set("X-Visitor-Id", "visitor-7")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, testArticleID, body["id"])
	require.NotContains(t, body, "isLiked")
}

func TestGetArticle_AuthenticatedStatus(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	article := &models.Article{
		ID:      testArticleID,
		LikedBy: []uuid.UUID{userID},
	}

	ms.EXPECT().
		RegisterView(gomock.Any(), testArticleID, gomock.Any()).
		Return(false, nil)
	ms.EXPECT().
		ArticleByID(gomock.Any(), testArticleID).
		Return(article, nil)
	ms.EXPECT().
		UserByID(gomock.Any(), userID).
		Return(&models.User{ID: userID, Bookmarks: []string{testArticleID}}, nil)

	rec := doRequest(h, http.MethodGet, "/articles/"+testArticleID,
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, true, body["isLiked"])
	require.Equal(t, true, body["isBookmarked"])
}

func TestCreateArticle_RoleForbidden(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/articles",
		signToken(t, uuid.New(), models.RoleUser),
		map[string]any{"title": "t"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "forbidden", errorCode(t, rec))
}

func TestCreateArticle_Admin(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	adminID := uuid.New()

	ms.EXPECT().
		CreateArticle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, a models.Article) (*models.Article, error) {
			require.Equal(t, adminID, a.CreatedBy)
			a.ID = testArticleID
			return &a, nil
		})

	rec := doRequest(h, http.MethodPost, "/articles",
		signToken(t, adminID, models.RoleAdmin),
		map[string]any{
			"title":    "Запуск",
			"excerpt":  "Кратко",
			"content":  "Полный текст",
			"author":   "Редакция",
			"category": string(models.CategorySpace),
		})

	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, testArticleID, body["id"])
}

func TestCreateArticle_UnknownFieldRejected(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/articles",
		signToken(t, uuid.New(), models.RoleAdmin),
		map[string]any{"title": "t", "bogus": 1})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_argument", errorCode(t, rec))
}

func TestListArticles_QueryMapping(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	ms.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, p models.ListParams) (*models.ArticlePage, error) {
			require.Equal(t, models.CategoryAI, p.Category)
			require.Equal(t, "gpt", p.Search)
			require.Equal(t, int32(5), p.Limit)
			require.Equal(t, int32(2), p.Page)
			return &models.ArticlePage{Items: []models.Article{}, Page: 2, Pages: 3}, nil
		})

	rec := doRequest(h, http.MethodGet,
		"/articles?category="+string(models.CategoryAI)+"&search=gpt&limit=5&page=2", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	require.Equal(t, float64(2), body["page"])
	require.Equal(t, float64(3), body["pages"])
}

func TestListArticles_UnknownCategory(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodGet, "/articles?category=astrology", "", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_argument", errorCode(t, rec))
}

func TestSweepCron_KeyChecks(t *testing.T) {
	h, ms := newTestRouter(t, Options{CronSecret: testCronSecret})

	rec := doRequest(h, http.MethodGet, "/cleanup/cron?key=wrong", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	ms.EXPECT().ExpiredUnprotected(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec = doRequest(h, http.MethodGet, "/cleanup/cron?key="+testCronSecret, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, float64(0), decodeBody(t, rec)["deleted"])
}

func TestSweepCron_DisabledWithoutSecret(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodGet, "/cleanup/cron?key=anything", "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSweepArticles_AdminOnly(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/cleanup/articles",
		signToken(t, uuid.New(), models.RoleUser), nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	ms.EXPECT().ExpiredUnprotected(gomock.Any(), gomock.Any()).Return(nil, nil)

	rec = doRequest(h, http.MethodPost, "/cleanup/articles",
		signToken(t, uuid.New(), models.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestID_Echoed(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	ms.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		Return(&models.ArticlePage{Page: 1, Pages: 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("X-Request-Id", "req-123")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))
}

func TestRequestID_GeneratedWhenMissing(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	ms.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		Return(&models.ArticlePage{Page: 1, Pages: 1}, nil)

	rec := doRequest(h, http.MethodGet, "/articles", "", nil)

	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestBasePath_Mount(t *testing.T) {
	h, ms := newTestRouter(t, Options{BasePath: "/api"})

	ms.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		Return(&models.ArticlePage{Page: 1, Pages: 1}, nil)

	rec := doRequest(h, http.MethodGet, "/api/articles", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(h, http.MethodGet, "/articles", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaPresign_DisabledStorage(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	rec := doRequest(h, http.MethodPost, "/media/presign",
		signToken(t, uuid.New(), models.RoleAdmin),
		map[string]any{"kind": "image", "contentType": "image/png", "contentLength": 1024})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_argument", errorCode(t, rec))
}

// Паника в хендлере не роняет процесс и превращается в 500.
func TestRecover_PanicToInternal(t *testing.T) {
	h, ms := newTestRouter(t, Options{})

	ms.EXPECT().
		ListArticles(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ models.ListParams) (*models.ArticlePage, error) {
			panic("boom")
		})

	rec := doRequest(h, http.MethodGet, "/articles", "", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "internal", errorCode(t, rec))
}

func TestExpiredToken_ActsAnonymous(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uuid.New().String(),
		"role": models.RoleUser,
		"exp":  time.Now().Add(-time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	rec := doRequest(h, http.MethodPost, "/articles/"+testArticleID+"/like", signed, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWrongSignature_ActsAnonymous(t *testing.T) {
	h, _ := newTestRouter(t, Options{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  uuid.New().String(),
		"role": models.RoleAdmin,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	// Чужая подпись не даёт админских прав.
	rec := doRequest(h, http.MethodPost, "/cleanup/articles", signed, nil)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListBookmarks_EmptyIsArray(t *testing.T) {
	h, ms := newTestRouter(t, Options{})
	userID := uuid.New()

	ms.EXPECT().
		BookmarkedArticles(gomock.Any(), userID).
		Return(nil, nil)

	rec := doRequest(h, http.MethodGet, "/articles/bookmarks",
		signToken(t, userID, models.RoleUser), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), `"items":[]`),
		"want empty array, got %s", rec.Body.String())
}
