package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashlinpj/xplore/internal/models"
	"github.com/ashlinpj/xplore/internal/service"
	apierrors "github.com/ashlinpj/xplore/internal/transport/http/errors"
	"github.com/ashlinpj/xplore/internal/transport/http/middleware"
)

// reactionResponse — ответ POST /articles/{id}/like|dislike.
type reactionResponse struct {
	Likes      int64 `json:"likes"`
	Dislikes   int64 `json:"dislikes"`
	IsLiked    bool  `json:"isLiked"`
	IsDisliked bool  `json:"isDisliked"`
}

// shareResponse — ответ POST /articles/{id}/share.
type shareResponse struct {
	Shares   int64 `json:"shares"`
	IsShared bool  `json:"isShared"`
}

// bookmarkResponse — ответ POST /articles/{id}/bookmark.
type bookmarkResponse struct {
	IsBookmarked   bool  `json:"isBookmarked"`
	BookmarksCount int64 `json:"bookmarksCount"`
}

// Like — POST /articles/{id}/like (auth required).
func (h *Handlers) Like(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.svc.Like)
}

// Dislike — POST /articles/{id}/dislike (auth required).
func (h *Handlers) Dislike(w http.ResponseWriter, r *http.Request) {
	h.react(w, r, h.svc.Dislike)
}

// react — общий каркас toggle-реакций: обе отвечают одной формой.
func (h *Handlers) react(w http.ResponseWriter, r *http.Request,
	toggle func(context.Context, string, models.Actor) (*service.ReactionResult, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	res, err := toggle(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reactionResponse{
		Likes:      res.Likes,
		Dislikes:   res.Dislikes,
		IsLiked:    res.IsLiked,
		IsDisliked: res.IsDisliked,
	})
}

// Share — POST /articles/{id}/share (auth required).
func (h *Handlers) Share(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	res, err := h.svc.Share(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, shareResponse{
		Shares:   res.Shares,
		IsShared: res.IsShared,
	})
}

// Bookmark — POST /articles/{id}/bookmark (auth required).
func (h *Handlers) Bookmark(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	res, err := h.svc.Bookmark(r.Context(), id, middleware.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, bookmarkResponse{
		IsBookmarked:   res.IsBookmarked,
		BookmarksCount: res.BookmarksCount,
	})
}

// ListBookmarks — GET /articles/bookmarks (auth required).
func (h *Handlers) ListBookmarks(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListBookmarks(r.Context(), middleware.ActorFrom(r.Context()))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if items == nil {
		items = []models.Article{}
	}

	writeJSON(w, http.StatusOK, map[string][]models.Article{"items": items})
}
