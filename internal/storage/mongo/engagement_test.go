package mongo

// Интеграционные тесты мутаций вовлечённости (internal/storage/mongo/engagement.go).
//
//  Проверяем инварианты:
//  - toggle: повтор того же актёра возвращает состояние к исходному;
//  - взаимное исключение like/dislike, перенос одним апдейтом;
//  - счётчики всегда равны размерам множеств;
//  - share идемпотентен, «поделился» не отзывается;
//  - двусторонняя закладка и пересчёт защиты;
//  - дедупликация просмотров по личности и по visitor-токену,
//    деградированный режим без того и другого;
//  - конкурирующие вызовы одного актёра дают ровно один toggle.

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/storage"
)

// reactionSizes читает документ и возвращает счётчики и размеры множеств.
func reactionSizes(t *testing.T, m *Mongo, id string) (likes, dislikes int64, likedSet, dislikedSet int) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a, err := m.ArticleByID(ctx, id)
	if err != nil {
		t.Fatalf("ArticleByID error: %v", err)
	}

	return a.Likes, a.Dislikes, len(a.LikedBy), len(a.DislikedBy)
}

// TestToggleLike_SetAndUnset — установка и снятие лайка тем же актёром.
func TestToggleLike_SetAndUnset(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	st, err := m.ToggleLike(ctx, a.ID, userID)
	if err != nil {
		t.Fatalf("ToggleLike(set) error: %v", err)
	}
	if !st.Liked || st.Likes != 1 {
		t.Fatalf("after set: %+v", st)
	}

	st, err = m.ToggleLike(ctx, a.ID, userID)
	if err != nil {
		t.Fatalf("ToggleLike(unset) error: %v", err)
	}
	if st.Liked || st.Likes != 0 {
		t.Fatalf("after unset: %+v", st)
	}

	likes, _, likedSet, _ := reactionSizes(t, m, a.ID)
	if likes != 0 || likedSet != 0 {
		t.Fatalf("counter/set mismatch: likes=%d set=%d", likes, likedSet)
	}
}

// TestToggle_MutualExclusion — дизлайк поверх лайка переносит реакцию
// одним апдейтом: счётчики и множества согласованы в каждой точке.
func TestToggle_MutualExclusion(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	if _, err := m.ToggleLike(ctx, a.ID, userID); err != nil {
		t.Fatalf("ToggleLike error: %v", err)
	}

	st, err := m.ToggleDislike(ctx, a.ID, userID)
	if err != nil {
		t.Fatalf("ToggleDislike error: %v", err)
	}
	if st.Liked || !st.Disliked || st.Likes != 0 || st.Dislikes != 1 {
		t.Fatalf("after switch: %+v", st)
	}

	likes, dislikes, likedSet, dislikedSet := reactionSizes(t, m, a.ID)
	if likes != int64(likedSet) || dislikes != int64(dislikedSet) {
		t.Fatalf("counters diverge from sets: likes=%d/%d dislikes=%d/%d",
			likes, likedSet, dislikes, dislikedSet)
	}
	if likedSet != 0 || dislikedSet != 1 {
		t.Fatalf("membership mismatch: liked=%d disliked=%d", likedSet, dislikedSet)
	}

	// Обратный перенос.
	st, err = m.ToggleLike(ctx, a.ID, userID)
	if err != nil {
		t.Fatalf("ToggleLike(back) error: %v", err)
	}
	if !st.Liked || st.Disliked || st.Likes != 1 || st.Dislikes != 0 {
		t.Fatalf("after switch back: %+v", st)
	}
}

// TestToggleLike_ConcurrentSameActor — два конкурирующих лайка одного актёра
// схлопываются в один toggle: проигравший вызов видит уже применённое
// членство, ничего не мутирует и отдаёт текущее состояние. Итог — ровно +1.
func TestToggleLike_ConcurrentSameActor(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	start := make(chan struct{})
	results := make([]*storage.ReactionState, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
			defer cancel()
			results[i], errs[i] = m.ToggleLike(ctx, a.ID, userID)
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < 2; i++ {
		if errs[i] != nil {
			t.Fatalf("call %d: %v", i, errs[i])
		}
		if !results[i].Liked || results[i].Likes != 1 {
			t.Fatalf("call %d saw %+v, want liked with likes=1", i, results[i])
		}
	}

	likes, _, likedSet, _ := reactionSizes(t, m, a.ID)
	if likes != 1 || likedSet != 1 {
		t.Fatalf("net change: likes=%d set=%d, want exactly +1", likes, likedSet)
	}
}

// TestAddShare_Idempotent — повторные share того же актёра не растят счётчик.
func TestAddShare_Idempotent(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		shares, err := m.AddShare(ctx, a.ID, userID)
		if err != nil {
			t.Fatalf("AddShare #%d error: %v", i, err)
		}
		if shares != 1 {
			t.Fatalf("AddShare #%d: shares=%d, want 1", i, shares)
		}
	}

	other := uuid.New()
	shares, err := m.AddShare(ctx, a.ID, other)
	if err != nil {
		t.Fatalf("AddShare(other) error: %v", err)
	}
	if shares != 2 {
		t.Fatalf("second actor: shares=%d, want 2", shares)
	}
}

// TestSetBookmark_BothSidesAndProtection — двусторонняя связь и защита.
func TestSetBookmark_BothSidesAndProtection(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	count, err := m.SetBookmark(ctx, a.ID, userID, true)
	if err != nil {
		t.Fatalf("SetBookmark(true) error: %v", err)
	}
	if count != 1 {
		t.Fatalf("bookmark count = %d, want 1", count)
	}

	protected, err := m.UpdateProtection(ctx, a.ID)
	if err != nil {
		t.Fatalf("UpdateProtection error: %v", err)
	}
	if !protected {
		t.Fatalf("expected protection on")
	}

	u, err := m.UserByID(ctx, userID)
	if err != nil {
		t.Fatalf("UserByID error: %v", err)
	}
	if !u.HasBookmark(a.ID) {
		t.Fatalf("user side missing bookmark")
	}

	// Снятие закладки возвращает обе стороны и защиту в исходное состояние.
	count, err = m.SetBookmark(ctx, a.ID, userID, false)
	if err != nil {
		t.Fatalf("SetBookmark(false) error: %v", err)
	}
	if count != 0 {
		t.Fatalf("bookmark count after unset = %d, want 0", count)
	}

	protected, err = m.UpdateProtection(ctx, a.ID)
	if err != nil {
		t.Fatalf("UpdateProtection(off) error: %v", err)
	}
	if protected {
		t.Fatalf("expected protection off")
	}
}

// TestSetBookmark_IdempotentTargetState — повтор того же want ничего не ломает.
func TestSetBookmark_IdempotentTargetState(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	for i := 0; i < 2; i++ {
		count, err := m.SetBookmark(ctx, a.ID, userID, true)
		if err != nil {
			t.Fatalf("SetBookmark #%d error: %v", i, err)
		}
		if count != 1 {
			t.Fatalf("SetBookmark #%d: count=%d, want 1", i, count)
		}
	}
}

// TestPullBookmarkRefs_Cascade — удаление статьи вычищает ссылки у пользователей.
func TestPullBookmarkRefs_Cascade(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	userA, userB := uuid.New(), uuid.New()

	if _, err := m.SetBookmark(ctx, a.ID, userA, true); err != nil {
		t.Fatalf("SetBookmark(userA) error: %v", err)
	}
	if _, err := m.SetBookmark(ctx, a.ID, userB, true); err != nil {
		t.Fatalf("SetBookmark(userB) error: %v", err)
	}

	if _, err := m.DeleteArticle(ctx, a.ID); err != nil {
		t.Fatalf("DeleteArticle error: %v", err)
	}
	if err := m.PullBookmarkRefs(ctx, a.ID); err != nil {
		t.Fatalf("PullBookmarkRefs error: %v", err)
	}

	for _, id := range []uuid.UUID{userA, userB} {
		u, err := m.UserByID(ctx, id)
		if err != nil {
			t.Fatalf("UserByID error: %v", err)
		}
		if u.HasBookmark(a.ID) {
			t.Fatalf("stale bookmark ref for %s", id)
		}
	}
}

// TestBookmarkedArticles — выдача закладок пользователя.
func TestBookmarkedArticles(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	b := mustCreateArticle(t, m, nil)
	userID := uuid.New()

	if _, err := m.SetBookmark(ctx, a.ID, userID, true); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}
	if _, err := m.SetBookmark(ctx, b.ID, userID, true); err != nil {
		t.Fatalf("SetBookmark error: %v", err)
	}

	items, err := m.BookmarkedArticles(ctx, userID)
	if err != nil {
		t.Fatalf("BookmarkedArticles error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("want 2 bookmarks, got %d", len(items))
	}

	// Неизвестный пользователь — пустое множество, не ошибка.
	items, err = m.BookmarkedArticles(ctx, uuid.New())
	if err != nil {
		t.Fatalf("BookmarkedArticles(unknown) error: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("unknown user: want empty, got %d", len(items))
	}
}

// TestRegisterView_DedupByUser — аутентифицированный просмотр один на личность.
func TestRegisterView_DedupByUser(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	actor := models.Actor{UserID: uuid.New()}

	counted, err := m.RegisterView(ctx, a.ID, actor)
	if err != nil {
		t.Fatalf("RegisterView #1 error: %v", err)
	}
	if !counted {
		t.Fatalf("first view not counted")
	}

	counted, err = m.RegisterView(ctx, a.ID, actor)
	if err != nil {
		t.Fatalf("RegisterView #2 error: %v", err)
	}
	if counted {
		t.Fatalf("repeat view counted")
	}

	got, err := m.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID error: %v", err)
	}
	if got.Viewers != 1 || len(got.ViewedBy) != 1 {
		t.Fatalf("viewers=%d viewed_by=%d, want 1/1", got.Viewers, len(got.ViewedBy))
	}
}

// TestRegisterView_DedupByVisitorToken — анонимный просмотр один на токен.
func TestRegisterView_DedupByVisitorToken(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)
	actor := models.Actor{VisitorID: "visitor-42"}

	for i, want := range []bool{true, false} {
		counted, err := m.RegisterView(ctx, a.ID, actor)
		if err != nil {
			t.Fatalf("RegisterView #%d error: %v", i, err)
		}
		if counted != want {
			t.Fatalf("RegisterView #%d: counted=%v, want %v", i, counted, want)
		}
	}

	// Другой токен считается отдельно.
	counted, err := m.RegisterView(ctx, a.ID, models.Actor{VisitorID: "visitor-43"})
	if err != nil {
		t.Fatalf("RegisterView(other token) error: %v", err)
	}
	if !counted {
		t.Fatalf("other token not counted")
	}

	got, err := m.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID error: %v", err)
	}
	if got.Viewers != 2 {
		t.Fatalf("viewers=%d, want 2", got.Viewers)
	}
}

// TestRegisterView_DegradedAlwaysCounts — без личности и токена инкремент всегда
// (сохранённый деградированный режим для устаревших клиентов).
func TestRegisterView_DegradedAlwaysCounts(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	a := mustCreateArticle(t, m, nil)

	for i := 0; i < 2; i++ {
		counted, err := m.RegisterView(ctx, a.ID, models.Actor{})
		if err != nil {
			t.Fatalf("RegisterView #%d error: %v", i, err)
		}
		if !counted {
			t.Fatalf("degraded view #%d not counted", i)
		}
	}

	got, err := m.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID error: %v", err)
	}
	if got.Viewers != 2 {
		t.Fatalf("viewers=%d, want 2", got.Viewers)
	}
}

// TestRegisterView_ExpiresAtPolicy — просмотр не трогает срок жизни статьи.
func TestRegisterView_ExpiresAtPolicy(t *testing.T) {
	skipUnlessIntegration(t)
	m := mustNewMongo(t, newTestConfig(t))

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	expires := time.Now().UTC().Add(72 * time.Hour)
	a := mustCreateArticle(t, m, func(a *models.Article) { a.ExpiresAt = expires })

	if _, err := m.RegisterView(ctx, a.ID, models.Actor{UserID: uuid.New()}); err != nil {
		t.Fatalf("RegisterView error: %v", err)
	}

	got, err := m.ArticleByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("ArticleByID error: %v", err)
	}
	if got.ExpiresAt.Sub(expires).Abs() > time.Second {
		t.Fatalf("expires_at drifted: %v vs %v", got.ExpiresAt, expires)
	}
}
