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

// parseOID переводит hex-идентификатор в ObjectID.
// Некорректный формат трактуется как «нет такой записи».
func parseOID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, storage.ErrNotFound
	}

	return oid, nil
}

// limitOrDefault приводит запрошенный размер страницы к [Default, Max].
func (m *Mongo) limitOrDefault(limit int32) int64 {
	l := limit
	if l <= 0 {
		l = m.cfg.Limits.Default
	}

	if l > m.cfg.Limits.Max {
		l = m.cfg.Limits.Max
	}

	return int64(l)
}

// CreateArticle сохраняет статью. ID проставляет хранилище; CreatedAt и
// ExpiresAt приходят от вызывающей стороны одним отсчётом часов (политика
// срока жизни — в сервисе), пустой CreatedAt заполняется на месте.
func (m *Mongo) CreateArticle(ctx context.Context, article models.Article) (*models.Article, error) {
	const op = "storage/mongo/CreateArticle"

	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}
	article.CreatedAt = toMS(article.CreatedAt)
	article.UpdatedAt = article.CreatedAt
	article.ExpiresAt = toMS(article.ExpiresAt)

	doc := articleDoc{Article: article}

	res, err := m.articles.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	article.ID = oid.Hex()
	return &article, nil
}

// ArticleByID возвращает статью по идентификатору.
// Если запись не найдена — storage.ErrNotFound.
func (m *Mongo) ArticleByID(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage/mongo/ArticleByID"

	oid, err := parseOID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc articleDoc
	if err := m.articles.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// ListArticles возвращает страницу статей: рубрика/дата/поиск, created_at DESC.
func (m *Mongo) ListArticles(ctx context.Context, p models.ListParams) (*models.ArticlePage, error) {
	const op = "storage/mongo/ListArticles"

	filter := bson.D{}

	if p.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: p.Category})
	}

	if !p.Since.IsZero() {
		filter = append(filter, bson.E{Key: "created_at", Value: bson.D{{Key: "$gt", Value: toMS(p.Since)}}})
	}

	if s := strings.TrimSpace(p.Search); s != "" {
		// Регистронезависимый поиск по заголовку/анонсу/тексту.
		re := primitive.Regex{Pattern: regexEscape(s), Options: "i"}
		filter = append(filter, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "excerpt", Value: re}},
			bson.D{{Key: "content", Value: re}},
		}})
	}

	limit := m.limitOrDefault(p.Limit)

	page := p.Page
	if page <= 0 {
		page = 1
	}

	total, err := m.articles.CountDocuments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: count: %w", op, err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit).
		SetSkip(int64(page-1) * limit)

	cur, err := m.articles.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Article
	for cur.Next(ctx) {
		var doc articleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, *doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	pages := int32((total + limit - 1) / limit)

	return &models.ArticlePage{
		Items: items,
		Total: total,
		Page:  page,
		Pages: pages,
	}, nil
}

// regexEscape экранирует спецсимволы поискового запроса.
func regexEscape(s string) string {
	const special = `\.+*?()|[]{}^$`

	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}

	return b.String()
}

// UpdateArticle применяет частичное обновление редакторских полей.
func (m *Mongo) UpdateArticle(ctx context.Context, id string, upd storage.ArticleUpdate) (*models.Article, error) {
	const op = "storage/mongo/UpdateArticle"

	oid, err := parseOID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	set := bson.D{{Key: "updated_at", Value: toMS(time.Now())}}

	if upd.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *upd.Title})
	}
	if upd.Excerpt != nil {
		set = append(set, bson.E{Key: "excerpt", Value: *upd.Excerpt})
	}
	if upd.Content != nil {
		set = append(set, bson.E{Key: "content", Value: *upd.Content})
	}
	if upd.Author != nil {
		set = append(set, bson.E{Key: "author", Value: *upd.Author})
	}
	if upd.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *upd.Category})
	}
	if upd.Image != nil {
		set = append(set, bson.E{Key: "image", Value: *upd.Image})
	}
	if upd.Media != nil {
		set = append(set, bson.E{Key: "media", Value: *upd.Media})
	}
	if upd.IsLive != nil {
		set = append(set, bson.E{Key: "is_live", Value: *upd.IsLive})
	}

	after := options.After
	var doc articleDoc
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// DeleteArticle удаляет запись и возвращает её прежнее состояние.
// Параллельное повторное удаление находит пустоту и получает ErrNotFound —
// чистка остаётся идемпотентной.
func (m *Mongo) DeleteArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage/mongo/DeleteArticle"

	oid, err := parseOID(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var doc articleDoc
	if err := m.articles.FindOneAndDelete(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// PullBookmarkRefs убирает статью из закладок всех пользователей.
func (m *Mongo) PullBookmarkRefs(ctx context.Context, articleID string) error {
	const op = "storage/mongo/PullBookmarkRefs"

	id := strings.TrimSpace(articleID)

	_, err := m.users.UpdateMany(ctx,
		bson.D{{Key: "bookmarks", Value: id}},
		bson.D{
			{Key: "$pull", Value: bson.D{{Key: "bookmarks", Value: id}}},
			{Key: "$set", Value: bson.D{{Key: "updated_at", Value: toMS(time.Now())}}},
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// UserByID возвращает проекцию пользователя.
func (m *Mongo) UserByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	const op = "storage/mongo/UserByID"

	var u models.User
	if err := m.users.FindOne(ctx, bson.D{{Key: "_id", Value: userID}}).Decode(&u); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()

	return &u, nil
}

// BookmarkedArticles возвращает все статьи из закладок пользователя.
// Пользователь без записи эквивалентен пустому множеству закладок.
func (m *Mongo) BookmarkedArticles(ctx context.Context, userID uuid.UUID) ([]models.Article, error) {
	const op = "storage/mongo/BookmarkedArticles"

	u, err := m.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(u.Bookmarks) == 0 {
		return nil, nil
	}

	oids := make([]primitive.ObjectID, 0, len(u.Bookmarks))
	for _, id := range u.Bookmarks {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			// Битые ссылки пропускаем: закладка могла пережить формат id.
			continue
		}
		oids = append(oids, oid)
	}

	cur, err := m.articles.Find(ctx,
		bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: oids}}}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Article
	for cur.Next(ctx) {
		var doc articleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		items = append(items, *doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// expiredFilter — кандидаты чистки: истёкшие и незащищённые.
// Пустота bookmarked_by проверяется дополнительно к is_protected
// (защита от рассинхрона флага).
func expiredFilter(now time.Time) bson.D {
	return bson.D{
		{Key: "expires_at", Value: bson.D{{Key: "$lt", Value: toMS(now)}}},
		{Key: "is_protected", Value: false},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "bookmarked_by", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "bookmarked_by", Value: bson.D{{Key: "$size", Value: 0}}}},
		}},
	}
}

// ExpiredUnprotected возвращает статьи с expires_at < now и is_protected=false.
func (m *Mongo) ExpiredUnprotected(ctx context.Context, now time.Time) ([]models.Article, error) {
	const op = "storage/mongo/ExpiredUnprotected"

	return m.findArticles(ctx, op, expiredFilter(now), nil)
}

// ExpiringSoon возвращает незащищённые статьи с expires_at в [now, now+window).
func (m *Mongo) ExpiringSoon(ctx context.Context, now time.Time, window time.Duration) ([]models.Article, error) {
	const op = "storage/mongo/ExpiringSoon"

	filter := bson.D{
		{Key: "expires_at", Value: bson.D{
			{Key: "$gte", Value: toMS(now)},
			{Key: "$lt", Value: toMS(now.Add(window))},
		}},
		{Key: "is_protected", Value: false},
		{Key: "$or", Value: bson.A{
			bson.D{{Key: "bookmarked_by", Value: bson.D{{Key: "$exists", Value: false}}}},
			bson.D{{Key: "bookmarked_by", Value: bson.D{{Key: "$size", Value: 0}}}},
		}},
	}

	opts := options.Find().SetSort(bson.D{{Key: "expires_at", Value: 1}})

	return m.findArticles(ctx, op, filter, opts)
}

// ExtendExpiry выставляет expires_at = until.
func (m *Mongo) ExtendExpiry(ctx context.Context, articleID string, until time.Time) (*models.Article, error) {
	const op = "storage/mongo/ExtendExpiry"

	oid, err := parseOID(articleID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	after := options.After
	var doc articleDoc
	err = m.articles.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "expires_at", Value: toMS(until)},
			{Key: "updated_at", Value: toMS(time.Now())},
		}}},
		&options.FindOneAndUpdateOptions{ReturnDocument: &after},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return doc.toModel(), nil
}

// LiveArticles возвращает последние is_live статьи для тикера.
func (m *Mongo) LiveArticles(ctx context.Context, limit int64) ([]models.Article, error) {
	const op = "storage/mongo/LiveArticles"

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	return m.findArticles(ctx, op, bson.D{{Key: "is_live", Value: true}}, opts)
}

// Stats собирает сводку для админ-панели.
func (m *Mongo) Stats(ctx context.Context) (*models.AdminStats, error) {
	const op = "storage/mongo/Stats"

	out := &models.AdminStats{}

	var err error
	if out.TotalArticles, err = m.articles.CountDocuments(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("%s: count articles: %w", op, err)
	}

	if out.TotalUsers, err = m.users.CountDocuments(ctx, bson.D{}); err != nil {
		return nil, fmt.Errorf("%s: count users: %w", op, err)
	}

	if out.TotalViews, err = m.sumField(ctx, "viewers"); err != nil {
		return nil, fmt.Errorf("%s: sum viewers: %w", op, err)
	}

	if out.TotalLikes, err = m.sumField(ctx, "likes"); err != nil {
		return nil, fmt.Errorf("%s: sum likes: %w", op, err)
	}

	recentOpts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(5)
	if out.RecentArticles, err = m.findArticles(ctx, op, bson.D{}, recentOpts); err != nil {
		return nil, err
	}

	cur, err := m.articles.Aggregate(ctx, mongodriver.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: category aggregate: %w", op, err)
	}
	defer cur.Close(ctx)

	if err := cur.All(ctx, &out.CategoryStats); err != nil {
		return nil, fmt.Errorf("%s: category decode: %w", op, err)
	}

	return out, nil
}

// sumField суммирует числовое поле по всей коллекции статей.
func (m *Mongo) sumField(ctx context.Context, field string) (int64, error) {
	cur, err := m.articles.Aggregate(ctx, mongodriver.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var res []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &res); err != nil {
		return 0, err
	}

	if len(res) == 0 {
		return 0, nil
	}

	return res[0].Total, nil
}

// findArticles — общий проход курсором с нормализацией документов.
func (m *Mongo) findArticles(ctx context.Context, op string, filter bson.D, opts *options.FindOptions) ([]models.Article, error) {
	var cur *mongodriver.Cursor
	var err error

	if opts != nil {
		cur, err = m.articles.Find(ctx, filter, opts)
	} else {
		cur, err = m.articles.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Article
	for cur.Next(ctx) {
		var doc articleDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		items = append(items, *doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
