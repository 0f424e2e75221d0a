package handlers

import (
	"net/http"

	"github.com/ashlinpj/xplore/internal/models"
	apierrors "github.com/ashlinpj/xplore/internal/transport/http/errors"
	"github.com/ashlinpj/xplore/internal/transport/http/middleware"
)

// presignRequest — тело POST /media/presign.
type presignRequest struct {
	Kind          string `json:"kind"`
	ContentType   string `json:"contentType"`
	ContentLength int64  `json:"contentLength"`
}

// presignResponse повторяет storage.MediaUploadInfo во внешнем формате.
type presignResponse struct {
	UploadURL      string            `json:"uploadUrl"`
	StorageKey     string            `json:"storageKey"`
	ExpiresSeconds int64             `json:"expiresSeconds"`
	RequiredHeader map[string]string `json:"requiredHeader,omitempty"`
}

// confirmRequest — тело POST /media/confirm.
type confirmRequest struct {
	StorageKey string `json:"storageKey"`
}

// confirmResponse — подтверждённый медиаобъект.
type confirmResponse struct {
	StorageKey string `json:"storageKey"`
	URL        string `json:"url"`
}

// MediaPresign — POST /media/presign (только админ): presigned PUT для
// загрузки медиавложения.
func (h *Handlers) MediaPresign(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	var req presignRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	info, err := h.svc.MediaUploadURL(r.Context(), models.MediaKind(req.Kind), req.ContentType, req.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, presignResponse{
		UploadURL:      info.UploadURL,
		StorageKey:     info.StorageKey,
		ExpiresSeconds: int64(info.Expires.Seconds()),
		RequiredHeader: info.RequiredHeader,
	})
}

// MediaConfirm — POST /media/confirm (только админ): проверка, что объект
// действительно загружен, и выдача его публичного URL.
func (h *Handlers) MediaConfirm(w http.ResponseWriter, r *http.Request) {
	actor := middleware.ActorFrom(r.Context())
	if !h.requireAdmin(w, r, actor) {
		return
	}

	var req confirmRequest
	if err := decodeStrict(r, &req); err != nil {
		apierrors.WriteError(w, r, errInvalidArgument())
		return
	}

	url, err := h.svc.ConfirmMediaUpload(r.Context(), req.StorageKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, confirmResponse{
		StorageKey: req.StorageKey,
		URL:        url,
	})
}
