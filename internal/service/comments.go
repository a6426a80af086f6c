package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// CommentOrder — порядок выдачи комментариев на чтении.
// Канонический хранимый порядок — порядок поступления; сортировка по лайкам —
// презентационная и вычисляется заново на каждый запрос.
type CommentOrder string

const (
	OrderRecent CommentOrder = "recent"
	OrderTop    CommentOrder = "top"
)

// AddCommentInput — создание комментария верхнего уровня.
type AddCommentInput struct {
	PostID   string
	AuthorID uuid.UUID
	Content  string
}

// AddReplyInput — создание ответа на комментарий верхнего уровня.
type AddReplyInput struct {
	PostID    string
	CommentID string
	AuthorID  uuid.UUID
	Content   string
}

// ToggleCommentLikeInput — переключение лайка комментария или ответа.
type ToggleCommentLikeInput struct {
	PostID    string
	CommentID string
	ViewerID  uuid.UUID
}

// newComment собирает комментарий с пустыми, но непустыми (non-nil) полями —
// единообразный JSON наружу.
func newComment(authorID uuid.UUID, content string) models.Comment {
	return models.Comment{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
		LikedBy:   []string{},
		Replies:   []models.Comment{},
	}
}

// AddComment — добавление комментария к записи.
//
// Валидация: контент после TrimSpace непуст.
//
// Поведение/ошибки:
//   - ErrInvalidArgument, ErrNotFound, ErrInternal;
//   - уведомление о комментарии уходит автору записи (самоуведомление
//     подавит диспетчер).
func (s *Service) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	const op = "service/comments/AddComment"

	in.PostID = strings.TrimSpace(in.PostID)
	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "author_id", in.AuthorID.String())

	if in.PostID == "" || in.AuthorID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	comment := newComment(in.AuthorID, in.Content)

	_, err := s.mutatePost(ctx, op, in.PostID, func(p *models.Post) ([]models.NotificationEvent, error) {
		p.Comments = append(p.Comments, comment)

		return []models.NotificationEvent{{
			RecipientID: p.AuthorID,
			Kind:        models.NotificationComment,
			ActorID:     in.AuthorID,
			PostID:      p.ID,
			CommentID:   comment.ID,
			Summary:     "commented on your post",
			CreatedAt:   comment.CreatedAt,
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// AddReply — ответ на комментарий верхнего уровня.
//
// Глубина дерева ограничена строго одним уровнем: попытка ответить на ответ —
// ErrInvalidArgument. Уведомление уходит автору комментария (не записи).
func (s *Service) AddReply(ctx context.Context, in AddReplyInput) (*models.Comment, error) {
	const op = "service/comments/AddReply"

	in.PostID = strings.TrimSpace(in.PostID)
	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "comment_id", in.CommentID)

	if in.PostID == "" || in.CommentID == "" || in.AuthorID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	in.Content = strings.TrimSpace(in.Content)
	if in.Content == "" {
		lg.Warn("invalid argument: empty content")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	reply := newComment(in.AuthorID, in.Content)

	_, err := s.mutatePost(ctx, op, in.PostID, func(p *models.Post) ([]models.NotificationEvent, error) {
		// Ответ адресует только комментарий верхнего уровня.
		for i := range p.Comments {
			if p.Comments[i].ID == in.CommentID {
				p.Comments[i].Replies = append(p.Comments[i].Replies, reply)

				return []models.NotificationEvent{{
					RecipientID: p.Comments[i].AuthorID,
					Kind:        models.NotificationReply,
					ActorID:     in.AuthorID,
					PostID:      p.ID,
					CommentID:   reply.ID,
					Summary:     "replied to your comment",
					CreatedAt:   reply.CreatedAt,
				}}, nil
			}

			// Идентификатор указывает на ответ — глубина превышена.
			for j := range p.Comments[i].Replies {
				if p.Comments[i].Replies[j].ID == in.CommentID {
					lg.Warn("invalid argument: reply to a reply")
					return nil, ErrInvalidArgument
				}
			}
		}

		lg.Warn("comment not found")
		return nil, ErrNotFound
	})
	if err != nil {
		return nil, err
	}

	return &reply, nil
}

// ToggleCommentLike — переключение лайка комментария или ответа.
//
// Лайк: зритель добавляется в LikedBy, LikeCount пересчитывается, автору
// комментария уходит уведомление. Снятие лайка уведомления не порождает.
func (s *Service) ToggleCommentLike(ctx context.Context, in ToggleCommentLikeInput) (*models.Comment, error) {
	const op = "service/comments/ToggleCommentLike"

	in.PostID = strings.TrimSpace(in.PostID)
	in.CommentID = strings.TrimSpace(in.CommentID)
	lg := log.From(ctx).With("op", op, "post_id", in.PostID, "comment_id", in.CommentID)

	if in.PostID == "" || in.CommentID == "" || in.ViewerID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	var result models.Comment

	_, err := s.mutatePost(ctx, op, in.PostID, func(p *models.Post) ([]models.NotificationEvent, error) {
		target := findComment(p, in.CommentID)
		if target == nil {
			lg.Warn("comment not found")
			return nil, ErrNotFound
		}

		viewer := in.ViewerID.String()
		liked := false
		for i, v := range target.LikedBy {
			if v == viewer {
				target.LikedBy = append(target.LikedBy[:i], target.LikedBy[i+1:]...)
				liked = true
				break
			}
		}

		if !liked {
			target.LikedBy = append(target.LikedBy, viewer)
		}
		target.LikeCount = int32(len(target.LikedBy))

		result = target.Clone()

		if liked {
			// Снятие лайка — без уведомления.
			return nil, nil
		}

		return []models.NotificationEvent{{
			RecipientID: target.AuthorID,
			Kind:        models.NotificationCommentLike,
			ActorID:     in.ViewerID,
			PostID:      p.ID,
			CommentID:   target.ID,
			Summary:     "liked your comment",
			CreatedAt:   time.Now().UTC(),
		}}, nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// PostComments — комментарии записи в запрошенном порядке.
//
// Видимость проверяется как при чтении самой записи: комментарии невидимой
// записи неотличимы от отсутствующих (ErrNotFound).
// OrderRecent (по умолчанию) — канонический порядок поступления;
// OrderTop — по убыванию лайков, при равенстве порядок поступления.
func (s *Service) PostComments(ctx context.Context, postID string, viewerID uuid.UUID, order CommentOrder) ([]models.Comment, error) {
	const op = "service/comments/PostComments"

	postID = strings.TrimSpace(postID)
	lg := log.From(ctx).With("op", op, "post_id", postID, "viewer_id", viewerID.String())

	if postID == "" || viewerID == uuid.Nil {
		lg.Warn("invalid argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if order == "" {
		order = OrderRecent
	}
	if order != OrderRecent && order != OrderTop {
		lg.Warn("invalid argument: unknown order", "order", string(order))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	post, err := s.PostForViewer(ctx, postID, viewerID)
	if err != nil {
		return nil, err
	}

	out := make([]models.Comment, 0, len(post.Comments))
	for _, c := range post.Comments {
		out = append(out, c.Clone())
	}

	if order == OrderTop {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].LikeCount > out[j].LikeCount
		})
	}

	return out, nil
}

// findComment ищет комментарий или ответ по идентификатору на обоих уровнях
// дерева. Возвращает указатель внутрь записи — вызывающий держит per-post лок.
func findComment(p *models.Post, id string) *models.Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == id {
			return &p.Comments[i]
		}

		for j := range p.Comments[i].Replies {
			if p.Comments[i].Replies[j].ID == id {
				return &p.Comments[i].Replies[j]
			}
		}
	}

	return nil
}
