package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// visibleTo — предикат видимости записи для зрителя. Вычисляется заново на
// каждом чтении: изменение подписок действует немедленно, без инвалидации.
//
// Правила:
//   - public: виден всем;
//   - private: виден только автору;
//   - followers: виден автору и подписчикам автора;
//   - неизвестная видимость трактуется как закрытая (fail-closed).
func (s *Service) visibleTo(ctx context.Context, p *models.Post, viewerID uuid.UUID) (bool, error) {
	switch p.Visibility {
	case models.VisibilityPublic:
		return true, nil

	case models.VisibilityPrivate:
		return p.AuthorID == viewerID, nil

	case models.VisibilityFollowers:
		if p.AuthorID == viewerID {
			return true, nil
		}

		return s.follows.Follows(ctx, viewerID, p.AuthorID)

	default:
		return false, nil
	}
}

// PostForViewer — запись по идентификатору с учётом видимости для зрителя.
// Невидимая запись неотличима от отсутствующей: ErrNotFound, не
// ErrPermissionDenied — существование закрытых записей не раскрываем.
func (s *Service) PostForViewer(ctx context.Context, id string, viewerID uuid.UUID) (*models.Post, error) {
	const op = "service/visibility/PostForViewer"

	lg := log.From(ctx).With("op", op, "post_id", id, "viewer_id", viewerID.String())

	if viewerID == uuid.Nil {
		lg.Warn("invalid argument: empty viewer_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	post, err := s.PostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.visibleTo(ctx, post, viewerID)
	if err != nil {
		lg.Error("follow oracle error", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}
	if !ok {
		lg.Warn("post hidden from viewer")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return post, nil
}
