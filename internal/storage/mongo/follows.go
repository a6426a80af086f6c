package mongo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// followDoc — документ коллекции follows: ребро графа подписок.
// Коллекцию наполняет users-подсистема портала; feed-сервис только читает.
type followDoc struct {
	FollowerID uuid.UUID `bson:"follower_id"`
	AuthorID   uuid.UUID `bson:"author_id"`
}

// Follows отвечает, подписан ли viewer на автора.
// Предикат вычисляется заново на каждом вызове — граф подписок живой.
func (m *Mongo) Follows(ctx context.Context, viewerID, authorID uuid.UUID) (bool, error) {
	const op = "storage/mongo/Follows"

	filter := bson.D{
		{Key: "follower_id", Value: viewerID},
		{Key: "author_id", Value: authorID},
	}

	n, err := m.follows.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return n > 0, nil
}
