// http собирает REST-поверхность xplore-server поверх chi.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashlinpj/xplore/internal/service"
	"github.com/ashlinpj/xplore/internal/transport/http/handlers"
	"github.com/ashlinpj/xplore/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger    *slog.Logger
	Timeout   time.Duration
	BasePath  string // например, "/api"; если пустой — роуты регистрируются на корне.
	JWTSecret string
	// CronSecret — общий секрет GET /cleanup/cron; пустой — роут отключён.
	CronSecret string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Auth(opts.JWTSecret), // разбираем Bearer/X-Visitor-Id в Actor
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc, opts.CronSecret)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Статические пути под /articles регистрируются раньше /articles/{id}:
// chi отдаёт им приоритет, но явный порядок читабельнее.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// articles
	r.Get("/articles", h.ListArticles)
	r.Post("/articles", h.CreateArticle)
	r.Get("/articles/live-updates", h.LiveUpdates)
	r.Get("/articles/stats", h.Stats)
	r.Get("/articles/bookmarks", h.ListBookmarks)
	r.Get("/articles/{id}", h.GetArticle)
	r.Put("/articles/{id}", h.UpdateArticle)
	r.Delete("/articles/{id}", h.DeleteArticle)

	// engagement
	r.Post("/articles/{id}/like", h.Like)
	r.Post("/articles/{id}/dislike", h.Dislike)
	r.Post("/articles/{id}/share", h.Share)
	r.Post("/articles/{id}/bookmark", h.Bookmark)

	// cleanup
	r.Post("/cleanup/articles", h.SweepArticles)
	r.Get("/cleanup/expiring", h.ListExpiring)
	r.Post("/cleanup/extend/{id}", h.ExtendExpiry)
	r.Get("/cleanup/cron", h.SweepCron)

	// media
	r.Post("/media/presign", h.MediaPresign)
	r.Post("/media/confirm", h.MediaConfirm)
}
