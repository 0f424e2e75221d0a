package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/service"
	apierrors "github.com/ashlinpj/xplore/internal/transport/http/errors"
	"github.com/ashlinpj/xplore/internal/transport/http/middleware"
)

// articleResponse — статья, при аутентифицированном запросе дополненная
// полями вовлечённости (isLiked/isDisliked/isBookmarked/isShared).
type articleResponse struct {
	*models.Article
	*models.InteractionStatus
}

// articleRequest — тело POST/PUT /articles.
type articleRequest struct {
	Title    string             `json:"title"`
	Excerpt  string             `json:"excerpt"`
	Content  string             `json:"content"`
	Author   string             `json:"author"`
	Category string             `json:"category"`
	Image    string             `json:"image"`
	Media    []models.MediaItem `json:"media"`
	IsLive   bool               `json:"isLive"`
}

// listResponse — страница статей.
type listResponse struct {
	Items []models.Article `json:"items"`
	Total int64            `json:"total"`
	Page  int32            `json:"page"`
	Pages int32            `json:"pages"`
}

// ListArticles — GET /articles?category=&since=&search=&limit=&page=.
func (h *Handlers) ListArticles(w http.ResponseWriter, r *http.Request) {
	var p models.ListParams

	q := r.URL.Query()
	p.Category = models.Category(q.Get("category"))
	p.Search = q.Get("search")

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		p.Since = t
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 0 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		p.Limit = int32(n)
	}

	if v := q.Get("page"); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil || n < 1 {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}

		p.Page = int32(n)
	}

	page, err := h.svc.ListArticles(r.Context(), p)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items: page.Items,
		Total: page.Total,
		Page:  page.Page,
		Pages: page.Pages,
	})
}

// GetArticle — GET /articles/{id}.
// Побочный эффект: дедуплицированный учёт просмотра (см. service.GetArticle).
func (h *Handlers) GetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	view, err := h.svc.GetArticle(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, articleResponse{
		Article:           view.Article,
		InteractionStatus: view.Status,
	})
}

// CreateArticle — POST /articles (только админ).
func (h *Handlers) CreateArticle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	var req articleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	article, err := h.svc.CreateArticle(r.Context(), service.CreateArticleInput{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		Author:   req.Author,
		Category: models.Category(req.Category),
		Image:    req.Image,
		Media:    req.Media,
		IsLive:   req.IsLive,
	}, actor)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, article)
}

// updateArticleRequest — тело PUT /articles/{id}; nil-поле не трогаем.
type updateArticleRequest struct {
	Title    *string             `json:"title"`
	Excerpt  *string             `json:"excerpt"`
	Content  *string             `json:"content"`
	Author   *string             `json:"author"`
	Category *string             `json:"category"`
	Image    *string             `json:"image"`
	Media    *[]models.MediaItem `json:"media"`
	IsLive   *bool               `json:"isLive"`
}

// UpdateArticle — PUT /articles/{id} (только админ).
func (h *Handlers) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	var req updateArticleRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	in := service.UpdateArticleInput{
		Title:   req.Title,
		Excerpt: req.Excerpt,
		Content: req.Content,
		Author:  req.Author,
		Image:   req.Image,
		Media:   req.Media,
		IsLive:  req.IsLive,
	}
	if req.Category != nil {
		c := models.Category(*req.Category)
		in.Category = &c
	}

	article, err := h.svc.UpdateArticle(r.Context(), id, in)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}

// DeleteArticle — DELETE /articles/{id} (только админ).
func (h *Handlers) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	if err := h.svc.DeleteArticle(r.Context(), id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// LiveUpdates — GET /articles/live-updates: заголовки последних live-статей.
func (h *Handlers) LiveUpdates(w http.ResponseWriter, r *http.Request) {
	titles, err := h.svc.LiveUpdates(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if titles == nil {
		titles = []string{}
	}

	writeJSON(w, http.StatusOK, map[string][]string{"updates": titles})
}

// Stats — GET /articles/stats (только админ).
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// requireAdmin пишет 401/403 и возвращает false, если актёр не админ.
func (h *Handlers) requireAdmin(w http.ResponseWriter, r *http.Request, actor models.Actor) bool {
	if !actor.Authenticated() {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return false
	}

	if !actor.Admin() {
		apierrors.WriteError(w, r, apierrors.ErrForbidden)
		return false
	}

	return true
}
