package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// CreatePostInput — создание записи ленты.
// Правила:
//   - AuthorID обязателен;
//   - Content после TrimSpace либо непуст, либо есть хотя бы одно медиа;
//   - пустые Type/Visibility получают значения по умолчанию
//     (general/public), непустые — валидируются по закрытым наборам.
type CreatePostInput struct {
	AuthorID   uuid.UUID
	Content    string
	Media      []models.MediaRef
	Type       models.PostType
	Tags       []string
	Visibility models.Visibility
}

// CreatePost — бизнес-операция создания записи.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — нет ни контента, ни медиа; неизвестный тип,
//     видимость или вид медиа;
//   - ErrInternal — ошибки стораджа.
func (s *Service) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	const op = "service/posts/CreatePost"

	lg := log.From(ctx).With("op", op, "author_id", in.AuthorID.String())

	if in.AuthorID == uuid.Nil {
		lg.Warn("invalid argument: empty author_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" && len(in.Media) == 0 {
		lg.Warn("invalid argument: empty post")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	for _, m := range in.Media {
		if !m.Kind.Valid() || strings.TrimSpace(m.Ref) == "" {
			lg.Warn("invalid argument: bad media ref")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
	}

	if in.Type == "" {
		in.Type = models.PostTypeGeneral
	}
	if !in.Type.Valid() {
		lg.Warn("invalid argument: unknown post type", "type", string(in.Type))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if !in.Visibility.Valid() {
		lg.Warn("invalid argument: unknown visibility", "visibility", string(in.Visibility))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	counts := make(map[models.ReactionKind]int64, len(models.ReactionKinds))
	for _, k := range models.ReactionKinds {
		counts[k] = 0
	}

	post := models.Post{
		AuthorID:          in.AuthorID,
		Content:           in.Content,
		Media:             in.Media,
		Type:              in.Type,
		Tags:              in.Tags,
		Visibility:        in.Visibility,
		ReactionCounts:    counts,
		ReactionsByViewer: map[string]models.ReactionKind{},
		Comments:          []models.Comment{},
		SavedBy:           []string{},
	}

	result, err := s.storage.CreatePost(ctx, post)
	if err != nil {
		lg.Error("storage error on CreatePost", "err", err)
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return result, nil
}

// PostByID — получить запись по идентификатору.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — пустой id;
//   - ErrNotFound — записи нет;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) PostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "service/posts/PostByID"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "post_id", id)

	if id == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	result, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on PostByID", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return result, nil
}

// DeletePost — удаление записи. Разрешено только автору.
//
// Поведение/ошибки:
//   - ErrNotFound — записи нет;
//   - ErrPermissionDenied — actor не автор;
//   - ErrInternal — иные ошибки стораджа.
func (s *Service) DeletePost(ctx context.Context, id string, actorID uuid.UUID) error {
	const op = "service/posts/DeletePost"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "post_id", id, "actor_id", actorID.String())

	if id == "" || actorID == uuid.Nil {
		lg.Warn("invalid argument")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	// Под per-post локом: проверка прав и удаление не должны гоняться
	// с конкурентными мутациями той же записи.
	s.locks.lock(id)
	defer s.locks.unlock(id)

	post, err := s.storage.PostByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not found")
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on PostByID", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	if post.AuthorID != actorID {
		lg.Warn("permission denied: not an author")
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}

	if err := s.storage.DeletePost(ctx, id); err != nil {
		lg.Error("storage error on DeletePost", "err", err)
		return fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	return nil
}

// ToggleSave — закладка: чистый переключатель членства в SavedBy.
// Уведомлений не порождает.
func (s *Service) ToggleSave(ctx context.Context, postID string, viewerID uuid.UUID) (*models.Post, error) {
	const op = "service/posts/ToggleSave"

	postID = strings.TrimSpace(postID)
	if postID == "" || viewerID == uuid.Nil {
		log.From(ctx).Warn("invalid argument", "op", op)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return s.mutatePost(ctx, op, postID, func(p *models.Post) ([]models.NotificationEvent, error) {
		id := viewerID.String()
		for i, v := range p.SavedBy {
			if v == id {
				p.SavedBy = append(p.SavedBy[:i], p.SavedBy[i+1:]...)
				return nil, nil
			}
		}

		p.SavedBy = append(p.SavedBy, id)
		return nil, nil
	})
}

// Share — репост: инкремент ShareCount (декремента не существует) и
// уведомление автору. Самоуведомление подавит диспетчер.
func (s *Service) Share(ctx context.Context, postID string, viewerID uuid.UUID) (*models.Post, error) {
	const op = "service/posts/Share"

	postID = strings.TrimSpace(postID)
	if postID == "" || viewerID == uuid.Nil {
		log.From(ctx).Warn("invalid argument", "op", op)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return s.mutatePost(ctx, op, postID, func(p *models.Post) ([]models.NotificationEvent, error) {
		p.ShareCount++

		return []models.NotificationEvent{{
			RecipientID: p.AuthorID,
			Kind:        models.NotificationShare,
			ActorID:     viewerID,
			PostID:      p.ID,
			Summary:     "shared your post",
			CreatedAt:   time.Now().UTC(),
		}}, nil
	})
}
