package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// ReactInput — установка/переключение/снятие реакции зрителя.
type ReactInput struct {
	PostID   string
	ViewerID uuid.UUID
	Kind     models.ReactionKind
}

// React — леджер реакций: у зрителя не более одной реакции на запись.
//
// Семантика:
//   - реакции не было: counts[kind]++, запись за зрителем; уведомление автору;
//   - та же реакция повторно: toggle-off — counts[kind]--, запись снимается;
//     уведомления нет;
//   - другая реакция: counts[old]--, counts[new]++, запись обновляется;
//     уведомления нет — о смене мнения не уведомляем, только о первой
//     реакции (анти-спам при быстром переключении).
//
// Поведение/ошибки:
//   - ErrInvalidArgument — неизвестный вид реакции (операция no-op);
//   - ErrNotFound — записи нет;
//   - ErrInternal — ошибки стораджа или сломанный инвариант счётчиков.
func (s *Service) React(ctx context.Context, in ReactInput) (*models.Post, error) {
	const op = "service/reactions/React"

	in.PostID = strings.TrimSpace(in.PostID)
	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "viewer_id", in.ViewerID.String())

	if in.PostID == "" || in.ViewerID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if !in.Kind.Valid() {
		lg.Warn("invalid argument: unknown reaction kind", "kind", string(in.Kind))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	return s.mutatePost(ctx, op, in.PostID, func(p *models.Post) ([]models.NotificationEvent, error) {
		if p.ReactionCounts == nil {
			p.ReactionCounts = make(map[models.ReactionKind]int64, len(models.ReactionKinds))
		}
		if p.ReactionsByViewer == nil {
			p.ReactionsByViewer = make(map[string]models.ReactionKind, 1)
		}

		viewer := in.ViewerID.String()
		current, has := p.ReactionsByViewer[viewer]

		switch {
		case !has:
			// Первая реакция — единственный уведомляющий случай.
			p.ReactionCounts[in.Kind]++
			p.ReactionsByViewer[viewer] = in.Kind

			return []models.NotificationEvent{{
				RecipientID: p.AuthorID,
				Kind:        models.NotificationReaction,
				ActorID:     in.ViewerID,
				PostID:      p.ID,
				Summary:     "reacted to your post",
				CreatedAt:   time.Now().UTC(),
			}}, nil

		case current == in.Kind:
			// Toggle-off: возврат к состоянию до реакции.
			p.ReactionCounts[current]--
			delete(p.ReactionsByViewer, viewer)
			return nil, nil

		default:
			// Переключение вида.
			p.ReactionCounts[current]--
			p.ReactionCounts[in.Kind]++
			p.ReactionsByViewer[viewer] = in.Kind
			return nil, nil
		}
	})
}
