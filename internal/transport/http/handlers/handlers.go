package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ashlinpj/xplore/internal/service"
)

// Handlers агрегирует зависимости REST-слоя.
type Handlers struct {
	svc *service.Service
	// cronSecret — общий секрет GET /cleanup/cron; пустой — роут отключён.
	cronSecret string
}

func New(svc *service.Service, cronSecret string) *Handlers {
	return &Handlers{svc: svc, cronSecret: cronSecret}
}

// writeJSON — единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict — строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(value)
}

// errInvalidArgument — локальная ошибка парсинга -> сервисный InvalidArgument.
func errInvalidArgument() error {
	return fmt.Errorf("bad request: %w", service.ErrInvalidArgument)
}
