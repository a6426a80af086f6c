package storage

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
)

var (
	// ErrNotFound — сущность отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — конфликт уникальности.
	ErrConflict = errors.New("conflict")
)

// Storage описывает операции над записями ленты.
//
// Хранилище — пассивный коллаборатор: оно отдаёт и принимает целые записи,
// вся доменная логика (реакции, комментарии, видимость) живёт в сервисном
// слое. Сериализацию конкурентных мутаций одной записи тоже обеспечивает
// сервисный слой (per-post lock), поэтому UpdatePost — простая полная замена
// документа.
type Storage interface {
	// CreatePost сохраняет новую запись. Поля ID и CreatedAt выставляет
	// хранилище; остальные значения берутся как есть.
	CreatePost(ctx context.Context, post models.Post) (*models.Post, error)

	// PostByID возвращает запись по идентификатору.
	// Если запись не найдена (включая неверный формат id) — ErrNotFound.
	PostByID(ctx context.Context, id string) (*models.Post, error)

	// UpdatePost заменяет документ записи целиком (идентичность и автор
	// при этом неизменны). Если запись не найдена — ErrNotFound.
	UpdatePost(ctx context.Context, post models.Post) (*models.Post, error)

	// DeletePost удаляет запись. Если запись не найдена — ErrNotFound.
	DeletePost(ctx context.Context, id string) error

	// ListPosts возвращает полную текущую коллекцию записей для сборки
	// ленты. Порядок не гарантируется — сортирует сборщик.
	ListPosts(ctx context.Context) ([]models.Post, error)

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}

// FollowOracle отвечает на вопрос «подписан ли viewer на автора author».
// Предикат вычисляется заново на каждом чтении: граф подписок меняется
// между вызовами.
type FollowOracle interface {
	Follows(ctx context.Context, viewerID, authorID uuid.UUID) (bool, error)
}
