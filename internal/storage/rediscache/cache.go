// rediscache — сквозной Redis-кэш поверх storage.Storage.
//
// Кэшируется только PostByID (горячий путь мутаций и карточек записи);
// полная выборка ListPosts всегда идёт в сторадж — её сортирует и режет
// сборщик ленты, и устаревший список там дороже промаха кэша.
package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/config"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
	logctx "github.com/Priyanshukumar2344/mysocial-hub-sub000/pkg/log"
)

// Cache — декоратор storage.Storage со сквозной записью:
// мутации идут во внутренний сторадж, успешный результат кладётся в Redis.
// Ошибки кэша никогда не ломают операцию — только лог и поход в сторадж.
type Cache struct {
	inner storage.Storage
	rdb   *redis.Client
	ttl   time.Duration
}

var _ storage.Storage = (*Cache)(nil)

// New подключается к Redis и оборачивает сторадж.
func New(ctx context.Context, inner storage.Storage, cfg *config.Config) (*Cache, error) {
	if cfg == nil || cfg.Cache.Addr == "" {
		return nil, fmt.Errorf("rediscache: empty cache addr")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("rediscache ping: %w", err)
	}

	return &Cache{inner: inner, rdb: rdb, ttl: cfg.Cache.TTL}, nil
}

func key(id string) string { return "post:" + id }

// set кладёт запись в кэш; ошибки только логируются.
func (c *Cache) set(ctx context.Context, post *models.Post) {
	raw, err := json.Marshal(post)
	if err != nil {
		logctx.From(ctx).Warn("cache_marshal_failed", "post_id", post.ID, "err", err)
		return
	}

	if err := c.rdb.Set(ctx, key(post.ID), raw, c.ttl).Err(); err != nil {
		logctx.From(ctx).Warn("cache_set_failed", "post_id", post.ID, "err", err)
	}
}

// drop выбрасывает запись из кэша; ошибки только логируются.
func (c *Cache) drop(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, key(id)).Err(); err != nil {
		logctx.From(ctx).Warn("cache_del_failed", "post_id", id, "err", err)
	}
}

func (c *Cache) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	out, err := c.inner.CreatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	c.set(ctx, out)
	return out, nil
}

func (c *Cache) PostByID(ctx context.Context, id string) (*models.Post, error) {
	raw, err := c.rdb.Get(ctx, key(id)).Bytes()
	if err == nil {
		var p models.Post
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}

		// Нечитаемая запись в кэше — выбрасываем и идём в сторадж.
		c.drop(ctx, id)
	} else if err != redis.Nil {
		logctx.From(ctx).Warn("cache_get_failed", "post_id", id, "err", err)
	}

	out, err := c.inner.PostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.set(ctx, out)
	return out, nil
}

func (c *Cache) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	out, err := c.inner.UpdatePost(ctx, post)
	if err != nil {
		return nil, err
	}

	c.set(ctx, out)
	return out, nil
}

func (c *Cache) DeletePost(ctx context.Context, id string) error {
	if err := c.inner.DeletePost(ctx, id); err != nil {
		return err
	}

	c.drop(ctx, id)
	return nil
}

func (c *Cache) ListPosts(ctx context.Context) ([]models.Post, error) {
	return c.inner.ListPosts(ctx)
}

func (c *Cache) Close(ctx context.Context) error {
	if err := c.rdb.Close(); err != nil {
		logctx.From(ctx).Warn("cache_close_failed", "err", err)
	}

	return c.inner.Close(ctx)
}
