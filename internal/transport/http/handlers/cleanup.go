package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ashlinpj/xplore/internal/service"
	apierrors "github.com/ashlinpj/xplore/internal/transport/http/errors"
	"github.com/ashlinpj/xplore/internal/transport/http/middleware"
)

// sweepResponse — ответ ручного и cron-запуска чистки.
type sweepResponse struct {
	Deleted int `json:"deleted"`
}

// SweepArticles — POST /cleanup/articles (только админ): синхронный прогон
// чистки устаревших статей.
func (h *Handlers) SweepArticles(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	deleted, err := h.svc.SweepExpired(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{Deleted: deleted})
}

// SweepCron — GET /cleanup/cron?key=...: запуск чистки внешним планировщиком.
// Авторизация — общий секрет в query-параметре; несконфигурированный секрет
// выключает роут целиком.
func (h *Handlers) SweepCron(w http.ResponseWriter, r *http.Request) {
	if h.cronSecret == "" {
		apierrors.WriteError(w, r, service.ErrNotFound)
		return
	}

	key := r.URL.Query().Get("key")
	if subtle.ConstantTimeCompare([]byte(key), []byte(h.cronSecret)) != 1 {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	deleted, err := h.svc.SweepExpired(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sweepResponse{Deleted: deleted})
}

// ListExpiring — GET /cleanup/expiring (только админ): статьи, срок которых
// истекает в ближайшее окно.
func (h *Handlers) ListExpiring(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	items, err := h.svc.ExpiringSoon(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Items: items,
		Total: int64(len(items)),
		Page:  1,
		Pages: 1,
	})
}

// extendRequest — тело POST /cleanup/extend/{id}; days <= 0 — ещё один TTL.
type extendRequest struct {
	Days int `json:"days"`
}

// ExtendExpiry — POST /cleanup/extend/{id} (только админ): продление срока
// жизни статьи до now + days (без тела — ещё один TTL от текущего момента).
func (h *Handlers) ExtendExpiry(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	var req extendRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := decodeStrict(r, &req); err != nil {
			apierrors.WriteError(w, r, errInvalidArgument())
			return
		}
	}

	article, err := h.svc.ExtendExpiry(r.Context(), id, req.Days)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, article)
}
