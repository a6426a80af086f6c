package service

// Общие хелперы тестов сервисного слоя.
//
// Подготовка окружения:
//   # 1) Сгенерировать моки стораджа, оракула подписок и нотификатора:
//   mockgen -source=./internal/storage/storage.go -destination=./mocks/storage.go -package=mocks
//   mockgen -source=./internal/notify/notify.go -destination=./mocks/notifier.go -package=mocks
//
//   # 2) Запустить тесты:
//   go test ./internal/service -v -race -count=1

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/config"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/mocks"
)

// newServiceWithMocks поднимает сервис с моками всех зависимостей.
func newServiceWithMocks(t *testing.T) (*Service, *mocks.MockStorage, *mocks.MockFollowOracle, *mocks.MockNotifier, *gomock.Controller) {
	t.Helper()

	ctrl := gomock.NewController(t)
	ms := mocks.NewMockStorage(ctrl)
	mf := mocks.NewMockFollowOracle(ctrl)
	mn := mocks.NewMockNotifier(ctrl)

	cfg := config.Config{
		Limits: config.LimitsConfig{Default: 5, Max: 50},
	}

	return New(ms, mf, mn, cfg), ms, mf, mn, ctrl
}

// mustPost собирает запись с инициализированным леджером.
func mustPost(id string, authorID uuid.UUID) *models.Post {
	counts := make(map[models.ReactionKind]int64, len(models.ReactionKinds))
	for _, k := range models.ReactionKinds {
		counts[k] = 0
	}

	return &models.Post{
		ID:                id,
		AuthorID:          authorID,
		Content:           "hello",
		CreatedAt:         time.Now().UTC().Truncate(time.Millisecond),
		Type:              models.PostTypeGeneral,
		Visibility:        models.VisibilityPublic,
		ReactionCounts:    counts,
		ReactionsByViewer: map[string]models.ReactionKind{},
		Comments:          []models.Comment{},
		SavedBy:           []string{},
	}
}

// stubPostStore связывает PostByID/UpdatePost мока с разделяемым состоянием:
// последовательные мутации видят результат предыдущих, как с реальной базой.
func stubPostStore(ms *mocks.MockStorage, post *models.Post) {
	ms.EXPECT().
		PostByID(gomock.Any(), post.ID).
		DoAndReturn(func(_ context.Context, _ string) (*models.Post, error) {
			p := post.Clone()
			return &p, nil
		}).
		AnyTimes()

	ms.EXPECT().
		UpdatePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.Post) (*models.Post, error) {
			*post = p.Clone()
			out := p.Clone()
			return &out, nil
		}).
		AnyTimes()
}
