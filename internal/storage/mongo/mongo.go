// mongo предоставляет реализацию storage.Storage на базе MongoDB.
// mongo.go — подключение, коллекции и индексы.
// articles.go — CRUD статей, списки, жизненный цикл и админ-сводка.
// engagement.go — атомарные мутации вовлечённости и дедупликация просмотров.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ashlinpj/xplore/internal/config"
	"github.com/ashlinpj/xplore/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	articlesCollection = "articles"
	usersCollection    = "users"
	defaultDBName      = "xplore"
)

// Mongo — тонкий адаптер для подключения и коллекций MongoDB.
type Mongo struct {
	cfg      *config.Config
	client   *mongodriver.Client
	db       *mongodriver.Database
	articles *mongodriver.Collection
	users    *mongodriver.Collection
}

// New подключается к MongoDB, проверяет подключение, подготавливает коллекции
// и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	dbName := databaseFromURI(cfg.DB.URL)
	db := cli.Database(dbName)

	m := &Mongo{
		cfg:      cfg,
		client:   cli,
		db:       db,
		articles: db.Collection(articlesCollection),
		users:    db.Collection(usersCollection),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(ctx)
		return nil, err
	}

	return m, nil
}

// Close закрывает соединение с MongoDB.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы, необходимые сервису статей:
//   - expires_at + is_protected — выборка кандидатов фоновой чистки;
//   - category + created_at(desc) — листинг по рубрике;
//   - created_at(desc) — общий листинг/«недавние»;
//   - is_live + created_at(desc) — тикер прямого эфира;
//   - users.bookmarks — каскадное удаление ссылок на статью.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	articleModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}, {Key: "is_protected", Value: 1}},
			Options: options.Index().SetName("expiry_sweep"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("category_created_desc"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("created_desc"),
		},
		{
			Keys:    bson.D{{Key: "is_live", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("live_created_desc"),
		},
	}

	if _, err := m.articles.Indexes().CreateMany(ctx, articleModels); err != nil {
		return fmt.Errorf("mongo ensure article indexes: %w", err)
	}

	userModels := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "bookmarks", Value: 1}},
			Options: options.Index().SetName("bookmarks"),
		},
	}

	if _, err := m.users.Indexes().CreateMany(ctx, userModels); err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддаётся расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}
	return defaultDBName
}

// articleDoc — представление статьи в коллекции: ObjectID + доменные поля.
type articleDoc struct {
	OID            primitive.ObjectID `bson:"_id,omitempty"`
	models.Article `bson:",inline"`
}

// toModel конвертирует документ в доменную модель: hex-идентификатор
// и нормализованные к UTC временные поля.
func (d *articleDoc) toModel() *models.Article {
	out := d.Article
	out.ID = d.OID.Hex()
	out.CreatedAt = out.CreatedAt.UTC()
	out.UpdatedAt = out.UpdatedAt.UTC()
	out.ExpiresAt = out.ExpiresAt.UTC()

	return &out
}

// toMS усечение до миллисекунд: MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }
