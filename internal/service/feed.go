package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// FeedCategory — категориальный срез ленты поверх фильтра видимости.
type FeedCategory string

const (
	CategoryAll         FeedCategory = "all"
	CategoryFriends     FeedCategory = "friends"
	CategorySaved       FeedCategory = "saved"
	CategoryEvents      FeedCategory = "events"
	CategoryWorkUpdates FeedCategory = "work_updates"
)

func (c FeedCategory) valid() bool {
	switch c {
	case CategoryAll, CategoryFriends, CategorySaved, CategoryEvents, CategoryWorkUpdates:
		return true
	}

	return false
}

// Теги категориальных срезов.
const (
	tagEvent      = "event"
	tagWorkUpdate = "work-update"
)

// FeedInput — запрос страницы ленты.
// Page — индекс страницы с нуля; PageSize=0 означает размер по умолчанию,
// значения выше лимита усекаются до него.
type FeedInput struct {
	ViewerID uuid.UUID
	Category FeedCategory
	Type     models.PostType
	Page     int32
	PageSize int32
}

// Feed — сборка персональной страницы ленты.
//
// Конвейер: видимость -> фильтр по типу -> категориальный срез ->
// сортировка (CreatedAt DESC, при равенстве ID ASC) -> страница смещением.
// Видимость и подписки вычисляются свежими на каждый запрос; результат
// Follows мемоизируется по автору в пределах одного запроса.
//
// Поведение/ошибки:
//   - ErrInvalidArgument — неизвестная категория/тип, отрицательная страница;
//   - ErrInternal — ошибки стораджа или оракула подписок.
func (s *Service) Feed(ctx context.Context, in FeedInput) (*models.FeedPage, error) {
	const op = "service/feed/Feed"

	lg := log.From(ctx).With("op", op, "viewer_id", in.ViewerID.String(), "page", in.Page)

	if in.ViewerID == uuid.Nil {
		lg.Warn("invalid argument: empty viewer_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Category == "" {
		in.Category = CategoryAll
	}
	if !in.Category.valid() {
		lg.Warn("invalid argument: unknown category", "category", string(in.Category))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Type != "" && !in.Type.Valid() {
		lg.Warn("invalid argument: unknown post type", "type", string(in.Type))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if in.Page < 0 {
		lg.Warn("invalid argument: negative page")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	size := in.PageSize
	if size <= 0 {
		size = s.cfg.Limits.Default
	}
	if size > s.cfg.Limits.Max {
		size = s.cfg.Limits.Max
	}

	posts, err := s.storage.ListPosts(ctx)
	if err != nil {
		lg.Error("storage error on ListPosts", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	// Мемоизация Follows по автору: один поход в оракул на автора за запрос.
	followsByAuthor := make(map[uuid.UUID]bool)
	follows := func(authorID uuid.UUID) (bool, error) {
		if v, ok := followsByAuthor[authorID]; ok {
			return v, nil
		}

		v, err := s.follows.Follows(ctx, in.ViewerID, authorID)
		if err != nil {
			return false, err
		}

		followsByAuthor[authorID] = v
		return v, nil
	}

	visible := make([]models.Post, 0, len(posts))
	for i := range posts {
		p := &posts[i]

		ok, err := s.postVisible(ctx, p, in.ViewerID, follows)
		if err != nil {
			lg.Error("follow oracle error", "err", err, "author_id", p.AuthorID.String())
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
		if !ok {
			continue
		}

		if in.Type != "" && p.Type != in.Type {
			continue
		}

		ok, err = s.inCategory(p, in, follows)
		if err != nil {
			lg.Error("follow oracle error", "err", err, "author_id", p.AuthorID.String())
			return nil, fmt.Errorf("%s: %w", op, ErrInternal)
		}
		if !ok {
			continue
		}

		visible = append(visible, *p)
	}

	// Детерминированный порядок: свежие выше, при равных метках — по ID.
	sort.SliceStable(visible, func(i, j int) bool {
		if !visible[i].CreatedAt.Equal(visible[j].CreatedAt) {
			return visible[i].CreatedAt.After(visible[j].CreatedAt)
		}

		return visible[i].ID < visible[j].ID
	})

	// Арифметика смещения в int64: произведение page*size на больших номерах
	// страниц переполняет int32.
	total := int64(len(visible))
	start := int64(in.Page) * int64(size)
	if start > total {
		start = total
	}

	end := start + int64(size)
	if end > total {
		end = total
	}

	items := make([]models.Post, 0, end-start)
	items = append(items, visible[start:end]...)

	return &models.FeedPage{
		Items:   items,
		Page:    in.Page,
		HasMore: (int64(in.Page)+1)*int64(size) < total,
	}, nil
}

// postVisible — видимость записи с мемоизированным оракулом подписок.
func (s *Service) postVisible(
	ctx context.Context,
	p *models.Post,
	viewerID uuid.UUID,
	follows func(uuid.UUID) (bool, error),
) (bool, error) {
	switch p.Visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityPrivate:
		return p.AuthorID == viewerID, nil
	case models.VisibilityFollowers:
		if p.AuthorID == viewerID {
			return true, nil
		}

		return follows(p.AuthorID)
	default:
		return false, nil
	}
}

// inCategory — категориальный срез поверх уже видимых записей.
func (s *Service) inCategory(p *models.Post, in FeedInput, follows func(uuid.UUID) (bool, error)) (bool, error) {
	switch in.Category {
	case CategoryAll:
		return true, nil

	case CategoryFriends:
		// Свои записи в срез "друзья" не входят.
		if p.AuthorID == in.ViewerID {
			return false, nil
		}

		return follows(p.AuthorID)

	case CategorySaved:
		return p.SavedByViewer(in.ViewerID), nil

	case CategoryEvents:
		return p.HasTag(tagEvent), nil

	case CategoryWorkUpdates:
		return p.HasTag(tagWorkUpdate), nil

	default:
		return false, nil
	}
}
