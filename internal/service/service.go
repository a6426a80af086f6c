// service содержит бизнес-логику feed-сервиса: леджер реакций, дерево
// комментариев, фильтр видимости, сборщик ленты и фасад мутаций.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/config"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/notify"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

var (
	// ErrNotFound — запись или комментарий отсутствует в текущей коллекции.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument — неверные входные параметры запроса к сервису
	// (пустой контент, неизвестная реакция, ответ на ответ и т.п.).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPermissionDenied — мутация требует прав автора.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrConflict — конфликт уникальности.
	ErrConflict = errors.New("conflict")
	// ErrInternal — внутренняя ошибка (сторадж/БД/контекст/сломанный инвариант).
	ErrInternal = errors.New("internal")
)

// Service — ядро социальной ленты. Все мутации одной записи сериализуются
// per-post локом; мутации разных записей идут параллельно.
type Service struct {
	storage  storage.Storage
	follows  storage.FollowOracle
	notifier notify.Notifier
	cfg      config.Config
	locks    postLocks
}

// New создаёт новый экземпляр Service.
func New(st storage.Storage, follows storage.FollowOracle, notifier notify.Notifier, cfg config.Config) *Service {
	return &Service{
		storage:  st,
		follows:  follows,
		notifier: notifier,
		cfg:      cfg,
		locks:    postLocks{m: make(map[string]*lockEntry)},
	}
}

// postLocks — мьютекс на идентификатор записи с подсчётом ссылок:
// записи без активных мутаций не держат памяти.
type postLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func (l *postLocks) lock(id string) {
	l.mu.Lock()
	e := l.m[id]
	if e == nil {
		e = &lockEntry{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
}

func (l *postLocks) unlock(id string) {
	l.mu.Lock()
	e := l.m[id]
	e.refs--
	if e.refs == 0 {
		delete(l.m, id)
	}
	l.mu.Unlock()

	e.mu.Unlock()
}

// mapStorageErr транслирует ошибки стораджа в сервисные.
func mapStorageErr(err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrConflict):
		return ErrConflict
	default:
		return ErrInternal
	}
}

// mutatePost — общий конвейер мутации записи:
//  1. взять per-post лок;
//  2. прочитать текущую версию и применить apply к глубокой копии;
//  3. проверить инварианты леджера/лайков;
//  4. сохранить документ целиком;
//  5. после успешной записи передать накопленные события диспетчеру.
//
// Любая ошибка оставляет хранимое состояние нетронутым (all-or-nothing).
// apply возвращает события уведомлений, которые следует эмитировать только
// если мутация успешно сохранилась.
func (s *Service) mutatePost(
	ctx context.Context,
	op, postID string,
	apply func(p *models.Post) ([]models.NotificationEvent, error),
) (*models.Post, error) {
	lg := log.From(ctx).With("op", op, "post_id", postID)

	s.locks.lock(postID)
	defer s.locks.unlock(postID)

	cur, err := s.storage.PostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("post not found")
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		lg.Error("storage error on PostByID", "err", err)
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	next := cur.Clone()
	events, err := apply(&next)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Сломанный инвариант — баг, а не штатная ошибка: не сохраняем.
	if !ledgerConsistent(&next) {
		lg.Error("ledger invariant broken, refusing to persist")
		return nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	updated, err := s.storage.UpdatePost(ctx, next)
	if err != nil {
		lg.Error("storage error on UpdatePost", "err", err)
		return nil, fmt.Errorf("%s: %w", op, mapStorageErr(err))
	}

	for _, ev := range events {
		s.notifier.Notify(ctx, ev)
	}

	return updated, nil
}

// ledgerConsistent проверяет счётные инварианты записи:
//   - ReactionCounts[k] == числу зрителей с реакцией k, для каждого вида;
//   - ненулевых счётчиков неизвестных видов нет;
//   - у каждого комментария и ответа LikeCount == len(LikedBy);
//   - у ответов пустой Replies (глубина дерева строго 1).
func ledgerConsistent(p *models.Post) bool {
	actual := make(map[models.ReactionKind]int64, len(models.ReactionKinds))
	for _, k := range p.ReactionsByViewer {
		actual[k]++
	}

	for _, k := range models.ReactionKinds {
		if p.ReactionCounts[k] != actual[k] {
			return false
		}
	}

	for k, v := range p.ReactionCounts {
		if !k.Valid() && v != 0 {
			return false
		}
	}

	for i := range p.Comments {
		c := &p.Comments[i]
		if int(c.LikeCount) != len(c.LikedBy) {
			return false
		}

		for j := range c.Replies {
			r := &c.Replies[j]
			if int(r.LikeCount) != len(r.LikedBy) || len(r.Replies) != 0 {
				return false
			}
		}
	}

	return true
}
