package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/service"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/transport/apierrors"
)

// Handlers агрегирует зависимости HTTP-хендлеров.
type Handlers struct {
	Service *service.Service
}

func New(s *service.Service) *Handlers {
	return &Handlers{Service: s}
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

// errInvalidArgument — локальная ошибка парсинга -> 400.
func errInvalidArgument() error {
	return fmt.Errorf("handlers: %w", service.ErrInvalidArgument)
}

// viewerID извлекает идентификатор зрителя из заголовка X-Viewer-Id.
// Идентичность даёт вышестоящий слой (gateway/auth); пустой или битый
// заголовок — 401.
func viewerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get("X-Viewer-Id")
	if raw == "" {
		return uuid.Nil, fmt.Errorf("handlers: missing X-Viewer-Id: %w", apierrors.ErrUnauthenticated)
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, fmt.Errorf("handlers: malformed X-Viewer-Id: %w", apierrors.ErrUnauthenticated)
	}

	return id, nil
}
