package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/storage"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// reactionFields описывает пару множеств/счётчиков для ToggleLike/ToggleDislike:
// primary — множество самой реакции, opposite — взаимоисключающее.
type reactionFields struct {
	primarySet     string
	primaryCounter string
	oppositeSet    string
	oppositeCount  string
}

var (
	likeFields    = reactionFields{"liked_by", "likes", "disliked_by", "dislikes"}
	dislikeFields = reactionFields{"disliked_by", "dislikes", "liked_by", "likes"}
)

// ToggleLike — переключение лайка. Каждая ветка — один атомарный апдейт
// документа с фильтром по членству, поэтому счётчик и множество меняются
// строго вместе, а два конкурирующих вызова одного актёра дают ровно один toggle.
func (m *Mongo) ToggleLike(ctx context.Context, articleID string, userID uuid.UUID) (*storage.ReactionState, error) {
	const op = "storage/mongo/ToggleLike"

	st, err := m.toggleReaction(ctx, articleID, userID, likeFields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

// ToggleDislike — симметрично ToggleLike (поля меняются местами).
func (m *Mongo) ToggleDislike(ctx context.Context, articleID string, userID uuid.UUID) (*storage.ReactionState, error) {
	const op = "storage/mongo/ToggleDislike"

	st, err := m.toggleReaction(ctx, articleID, userID, dislikeFields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// toggleReaction отвечает в терминах primary/opposite: для дизлайка
	// разворачиваем в likes/dislikes.
	st.Likes, st.Dislikes = st.Dislikes, st.Likes
	st.Liked, st.Disliked = st.Disliked, st.Liked

	return st, nil
}

// toggleReaction реализует toggle с взаимным исключением.
// Возвращаемое состояние — в терминах primary-реакции:
// Likes/Liked относятся к primary, Dislikes/Disliked — к opposite.
func (m *Mongo) toggleReaction(ctx context.Context, articleID string, userID uuid.UUID, f reactionFields) (*storage.ReactionState, error) {
	oid, err := parseOID(articleID)
	if err != nil {
		return nil, err
	}

	after := options.After
	findOpts := &options.FindOneAndUpdateOptions{ReturnDocument: &after}
	now := toMS(time.Now())

	// 1) Актёр уже реагировал: снимаем реакцию (un-like / un-dislike).
	var doc articleDoc
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: f.primarySet, Value: userID},
		},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: f.primarySet, Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: f.primaryCounter, Value: -1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		},
		findOpts,
	).Decode(&doc)
	if err == nil {
		return reactionStateOf(&doc, f, false, false), nil
	}
	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, err
	}

	// 2) Противоположная реакция стояла: переносим её в primary одним апдейтом.
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: f.primarySet, Value: bson.D{{Key: "$ne", Value: userID}}},
			{Key: f.oppositeSet, Value: userID},
		},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: f.primarySet, Value: userID}}},
			{Key: "$pull", Value: bson.D{{Key: f.oppositeSet, Value: userID}}},
			{Key: "$inc", Value: bson.D{
				{Key: f.primaryCounter, Value: 1},
				{Key: f.oppositeCount, Value: -1},
			}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		},
		findOpts,
	).Decode(&doc)
	if err == nil {
		return reactionStateOf(&doc, f, true, false), nil
	}
	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, err
	}

	// 3) Реакций не было: просто ставим primary.
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: f.primarySet, Value: bson.D{{Key: "$ne", Value: userID}}},
			{Key: f.oppositeSet, Value: bson.D{{Key: "$ne", Value: userID}}},
		},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: f.primarySet, Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: f.primaryCounter, Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		},
		findOpts,
	).Decode(&doc)
	if err == nil {
		return reactionStateOf(&doc, f, true, false), nil
	}
	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return nil, err
	}

	// Ни одна ветка не совпала: между шагами членство сменил конкурирующий
	// дубль того же актёра — его toggle уже применён. Повторная мутация
	// развернула бы результат обратно, поэтому отдаём текущее состояние как есть.
	err = m.articles.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	st := doc.StatusFor(userID)
	if f.primarySet == "liked_by" {
		return reactionStateOf(&doc, f, st.IsLiked, st.IsDisliked), nil
	}

	return reactionStateOf(&doc, f, st.IsDisliked, st.IsLiked), nil
}

// reactionStateOf собирает состояние из документа после апдейта.
func reactionStateOf(doc *articleDoc, f reactionFields, primaryOn, oppositeOn bool) *storage.ReactionState {
	st := &storage.ReactionState{
		Liked:    primaryOn,
		Disliked: oppositeOn,
	}

	if f.primaryCounter == "likes" {
		st.Likes, st.Dislikes = doc.Likes, doc.Dislikes
	} else {
		st.Likes, st.Dislikes = doc.Dislikes, doc.Likes
	}

	return st
}

// articleExists — лёгкая проверка наличия документа.
func (m *Mongo) articleExists(ctx context.Context, oid primitive.ObjectID) (bool, error) {
	err := m.articles.FindOne(ctx,
		bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}}),
	).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongodriver.ErrNoDocuments) {
		return false, nil
	}

	return false, err
}

// AddShare — идемпотентное добавление «поделился».
// Повтор того же актёра счётчик не меняет и запись не трогает.
func (m *Mongo) AddShare(ctx context.Context, articleID string, userID uuid.UUID) (int64, error) {
	const op = "storage/mongo/AddShare"

	oid, err := parseOID(articleID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	after := options.After
	var doc articleDoc
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "shared_by", Value: bson.D{{Key: "$ne", Value: userID}}},
		},
		bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: "shared_by", Value: userID}}},
			{Key: "$inc", Value: bson.D{{Key: "shares", Value: 1}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: toMS(time.Now())}}},
		},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err == nil {
		return doc.Shares, nil
	}
	if !errors.Is(err, mongodriver.ErrNoDocuments) {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Актёр уже делился: возвращаем текущий счётчик без записи.
	a, err := m.ArticleByID(ctx, articleID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return a.Shares, nil
}

// SetBookmark приводит двустороннюю связь к целевому состоянию want.
// Порядок детерминирован: сначала пользователь (upsert), затем статья.
// Обе записи идемпотентны ($addToSet/$pull), поэтому повтор после
// частичного сбоя доводит связь до согласованного состояния.
func (m *Mongo) SetBookmark(ctx context.Context, articleID string, userID uuid.UUID, want bool) (int64, error) {
	const op = "storage/mongo/SetBookmark"

	oid, err := parseOID(articleID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	// Не заводим пользователя и не трогаем его множество ради несуществующей статьи.
	exists, err := m.articleExists(ctx, oid)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	now := toMS(time.Now())
	id := strings.TrimSpace(articleID)

	if want {
		_, err = m.users.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: userID}},
			bson.D{
				{Key: "$addToSet", Value: bson.D{{Key: "bookmarks", Value: id}}},
				{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
				{Key: "$setOnInsert", Value: bson.D{{Key: "created_at", Value: now}}},
			},
			options.Update().SetUpsert(true),
		)
	} else {
		_, err = m.users.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: userID}},
			bson.D{
				{Key: "$pull", Value: bson.D{{Key: "bookmarks", Value: id}}},
				{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
			},
		)
	}
	if err != nil {
		return 0, fmt.Errorf("%s: user side: %w", op, err)
	}

	var update bson.D
	if want {
		update = bson.D{
			{Key: "$addToSet", Value: bson.D{{Key: "bookmarked_by", Value: userID}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		}
	} else {
		update = bson.D{
			{Key: "$pull", Value: bson.D{{Key: "bookmarked_by", Value: userID}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: now}}},
		}
	}

	after := options.After
	var doc articleDoc
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		update,
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return 0, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return 0, fmt.Errorf("%s: article side: %w", op, err)
	}

	return int64(len(doc.BookmarkedBy)), nil
}

// UpdateProtection пересчитывает is_protected = (len(bookmarked_by) > 0).
// Каждая ветка — условный апдейт, так что запись происходит только при
// фактической смене значения.
func (m *Mongo) UpdateProtection(ctx context.Context, articleID string) (bool, error) {
	const op = "storage/mongo/UpdateProtection"

	oid, err := parseOID(articleID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	now := toMS(time.Now())

	// Включение защиты: закладки есть, флаг ещё не стоит.
	res, err := m.articles.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "is_protected", Value: false},
			{Key: "bookmarked_by.0", Value: bson.D{{Key: "$exists", Value: true}}},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_protected", Value: true},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	// Снятие защиты: закладок не осталось, флаг ещё стоит.
	res, err = m.articles.UpdateOne(ctx,
		bson.D{
			{Key: "_id", Value: oid},
			{Key: "is_protected", Value: true},
			{Key: "bookmarked_by.0", Value: bson.D{{Key: "$exists", Value: false}}},
		},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_protected", Value: false},
			{Key: "updated_at", Value: now},
		}}},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if res.ModifiedCount == 1 {
		return false, nil
	}

	// Значение не менялось: отдаём текущее.
	a, err := m.ArticleByID(ctx, articleID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return a.IsProtected, nil
}

// RegisterView применяет дедупликацию просмотров для одного запроса статьи.
//
// Ветки:
//  1. аутентифицированный пользователь — инкремент, если его нет в viewed_by;
//  2. анонимный visitor-токен — инкремент, если токена нет в anonymous_views;
//  3. ни личности, ни токена — инкремент всегда: осознанный деградированный
//     режим для устаревших клиентов, известный источник завышения счётчика.
//
// Запись происходит только когда просмотр действительно засчитан.
func (m *Mongo) RegisterView(ctx context.Context, articleID string, actor models.Actor) (bool, error) {
	const op = "storage/mongo/RegisterView"

	oid, err := parseOID(articleID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	now := toMS(time.Now())

	switch {
	case actor.Authenticated():
		res, err := m.articles.UpdateOne(ctx,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "viewed_by", Value: bson.D{{Key: "$ne", Value: actor.UserID}}},
			},
			bson.D{
				{Key: "$addToSet", Value: bson.D{{Key: "viewed_by", Value: actor.UserID}}},
				{Key: "$inc", Value: bson.D{{Key: "viewers", Value: 1}}},
			},
		)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

	case strings.TrimSpace(actor.VisitorID) != "":
		token := strings.TrimSpace(actor.VisitorID)
		res, err := m.articles.UpdateOne(ctx,
			bson.D{
				{Key: "_id", Value: oid},
				{Key: "anonymous_views.visitor_id", Value: bson.D{{Key: "$ne", Value: token}}},
			},
			bson.D{
				{Key: "$push", Value: bson.D{{Key: "anonymous_views", Value: models.AnonymousView{
					VisitorID: token,
					ViewedAt:  now,
				}}}},
				{Key: "$inc", Value: bson.D{{Key: "viewers", Value: 1}}},
			},
		)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if res.MatchedCount == 1 {
			return true, nil
		}

	default:
		res, err := m.articles.UpdateOne(ctx,
			bson.D{{Key: "_id", Value: oid}},
			bson.D{{Key: "$inc", Value: bson.D{{Key: "viewers", Value: 1}}}},
		)
		if err != nil {
			return false, fmt.Errorf("%s: %w", op, err)
		}
		if res.MatchedCount == 0 {
			return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return true, nil
	}

	// Фильтр не совпал: просмотр уже учтён либо статьи нет.
	exists, err := m.articleExists(ctx, oid)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return false, nil
}
