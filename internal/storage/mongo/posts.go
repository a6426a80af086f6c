package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
)

// postDoc — документ коллекции posts: доменная модель плюс ObjectID.
// Наружу идентификатор конвертируется в hex-строку (models.Post.ID).
type postDoc struct {
	OID         primitive.ObjectID `bson:"_id,omitempty"`
	models.Post `bson:",inline"`
}

// toMS нормализует время под хранение в MongoDB (DateTime — миллисекунды).
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

// normalize приводит запись после декодирования к канонической форме:
// UTC-время и выставленный строковый ID.
func normalize(doc *postDoc) *models.Post {
	p := doc.Post
	p.ID = doc.OID.Hex()
	p.CreatedAt = p.CreatedAt.UTC()

	for i := range p.Comments {
		normalizeComment(&p.Comments[i])
	}

	return &p
}

func normalizeComment(c *models.Comment) {
	c.CreatedAt = c.CreatedAt.UTC()
	for i := range c.Replies {
		normalizeComment(&c.Replies[i])
	}
}

// CreatePost сохраняет новую запись; CreatedAt выставляется хранилищем.
func (m *Mongo) CreatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage/mongo/CreatePost"

	post.CreatedAt = toMS(time.Now())

	doc := postDoc{Post: post}
	res, err := m.posts.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		// Mongo всегда возвращает ObjectID.
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	post.ID = oid.Hex()
	return &post, nil
}

// PostByID возвращает запись по идентификатору.
// Некорректный формат id трактуется как «нет такой записи».
func (m *Mongo) PostByID(ctx context.Context, id string) (*models.Post, error) {
	const op = "storage/mongo/PostByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var doc postDoc
	if err := m.posts.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return normalize(&doc), nil
}

// UpdatePost заменяет документ записи целиком.
func (m *Mongo) UpdatePost(ctx context.Context, post models.Post) (*models.Post, error) {
	const op = "storage/mongo/UpdatePost"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(post.ID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	post.CreatedAt = toMS(post.CreatedAt)
	doc := postDoc{OID: oid, Post: post}

	res, err := m.posts.ReplaceOne(ctx, bson.D{{Key: "_id", Value: oid}}, doc)
	if err != nil {
		return nil, fmt.Errorf("%s: replace: %w", op, err)
	}

	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return &post, nil
}

// DeletePost удаляет запись без tombstone (наблюдаемое поведение — жёсткое удаление).
func (m *Mongo) DeletePost(ctx context.Context, id string) error {
	const op = "storage/mongo/DeletePost"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	res, err := m.posts.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// ListPosts возвращает полную коллекцию записей для сборки ленты.
// Сортировка здесь не гарантируется — её выполняет сборщик ленты.
func (m *Mongo) ListPosts(ctx context.Context) ([]models.Post, error) {
	const op = "storage/mongo/ListPosts"

	cur, err := m.posts.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []models.Post
	for cur.Next(ctx) {
		var doc postDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, *normalize(&doc))
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}
