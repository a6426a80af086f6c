package service

// Тесты фасада записей (internal/service/posts.go) и видимости одиночного
// чтения (internal/service/visibility.go).
//
// Проверяем:
//  - валидацию и дефолты CreatePost, инициализацию леджера;
//  - права на удаление (только автор);
//  - переключатель закладки и репост с уведомлением;
//  - сокрытие невидимых записей под ErrNotFound.

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/storage"
)

func TestService_CreatePost_Validation(t *testing.T) {
	s, _, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	// пустой author_id
	_, err := s.CreatePost(context.Background(), CreatePostInput{Content: "hi"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// ни контента, ни медиа
	_, err = s.CreatePost(context.Background(), CreatePostInput{AuthorID: uuid.New(), Content: "   "})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// медиа с неизвестным типом
	_, err = s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: uuid.New(),
		Media:    []models.MediaRef{{Kind: "gif", Ref: "r1"}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// медиа с пустой ссылкой
	_, err = s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: uuid.New(),
		Media:    []models.MediaRef{{Kind: models.MediaImage, Ref: "  "}},
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// неизвестный тип записи
	_, err = s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: uuid.New(), Content: "hi", Type: "meme",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)

	// неизвестная видимость
	_, err = s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: uuid.New(), Content: "hi", Visibility: "unlisted",
	})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// Happy-path: дефолты general/public, TrimSpace контента, нулевой леджер
// для каждого вида реакции, непустые (non-nil) коллекции.
func TestService_CreatePost_OK_Defaults(t *testing.T) {
	s, ms, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	author := uuid.New()

	var stored models.Post
	ms.EXPECT().
		CreatePost(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, p models.Post) (*models.Post, error) {
			stored = p
			p.ID = "p1"
			return &p, nil
		})

	out, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: author,
		Content:  "  first post  ",
	})
	require.NoError(t, err)

	require.Equal(t, "p1", out.ID)
	require.Equal(t, "first post", stored.Content)
	require.Equal(t, models.PostTypeGeneral, stored.Type)
	require.Equal(t, models.VisibilityPublic, stored.Visibility)

	require.Len(t, stored.ReactionCounts, len(models.ReactionKinds))
	for _, k := range models.ReactionKinds {
		require.Equal(t, int64(0), stored.ReactionCounts[k])
	}

	require.NotNil(t, stored.ReactionsByViewer)
	require.NotNil(t, stored.Comments)
	require.NotNil(t, stored.SavedBy)
}

func TestService_CreatePost_StorageError(t *testing.T) {
	s, ms, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	ms.EXPECT().CreatePost(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := s.CreatePost(context.Background(), CreatePostInput{
		AuthorID: uuid.New(), Content: "hi",
	})
	require.ErrorIs(t, err, ErrInternal)
}

func TestService_PostByID(t *testing.T) {
	s, ms, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.PostByID(context.Background(), "  ")
	require.ErrorIs(t, err, ErrInvalidArgument)

	ms.EXPECT().PostByID(gomock.Any(), "missing").Return(nil, storage.ErrNotFound)
	_, err = s.PostByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)

	want := mustPost("p1", uuid.New())
	ms.EXPECT().PostByID(gomock.Any(), "p1").Return(want, nil)
	got, err := s.PostByID(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_DeletePost_Permissions(t *testing.T) {
	s, ms, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	author := uuid.New()
	stranger := uuid.New()
	post := mustPost("p1", author)

	// Не автор: отказ, DeletePost стораджа не вызывается.
	ms.EXPECT().PostByID(gomock.Any(), "p1").Return(post, nil)
	err := s.DeletePost(context.Background(), "p1", stranger)
	require.ErrorIs(t, err, ErrPermissionDenied)

	// Автор: удаление проходит.
	ms.EXPECT().PostByID(gomock.Any(), "p1").Return(post, nil)
	ms.EXPECT().DeletePost(gomock.Any(), "p1").Return(nil)
	err = s.DeletePost(context.Background(), "p1", author)
	require.NoError(t, err)

	// Записи нет.
	ms.EXPECT().PostByID(gomock.Any(), "p1").Return(nil, storage.ErrNotFound)
	err = s.DeletePost(context.Background(), "p1", author)
	require.ErrorIs(t, err, ErrNotFound)
}

// Закладка — чистый переключатель, уведомлений не порождает.
func TestService_ToggleSave(t *testing.T) {
	s, ms, _, mn, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	post := mustPost("p1", uuid.New())
	stubPostStore(ms, post)

	mn.EXPECT().Notify(gomock.Any(), gomock.Any()).Times(0)

	out, err := s.ToggleSave(context.Background(), "p1", viewer)
	require.NoError(t, err)
	require.True(t, out.SavedByViewer(viewer))

	out, err = s.ToggleSave(context.Background(), "p1", viewer)
	require.NoError(t, err)
	require.False(t, out.SavedByViewer(viewer))
	require.Empty(t, out.SavedBy)
}

// Репост: монотонный счётчик плюс уведомление автору.
func TestService_Share(t *testing.T) {
	s, ms, _, mn, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	author := uuid.New()
	sharer := uuid.New()
	post := mustPost("p1", author)
	stubPostStore(ms, post)

	var got models.NotificationEvent
	mn.EXPECT().
		Notify(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, ev models.NotificationEvent) { got = ev }).
		Times(2)

	out, err := s.Share(context.Background(), "p1", sharer)
	require.NoError(t, err)
	require.Equal(t, int64(1), out.ShareCount)

	out, err = s.Share(context.Background(), "p1", sharer)
	require.NoError(t, err)
	require.Equal(t, int64(2), out.ShareCount)

	require.Equal(t, models.NotificationShare, got.Kind)
	require.Equal(t, author, got.RecipientID)
	require.Equal(t, sharer, got.ActorID)
}

// Невидимая запись на одиночном чтении неотличима от отсутствующей.
func TestService_PostForViewer_HidesInvisible(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	author := uuid.New()
	follower := uuid.New()
	stranger := uuid.New()

	post := mustPost("p1", author)
	post.Visibility = models.VisibilityFollowers
	ms.EXPECT().PostByID(gomock.Any(), "p1").Return(post, nil).AnyTimes()

	mf.EXPECT().Follows(gomock.Any(), follower, author).Return(true, nil)
	got, err := s.PostForViewer(context.Background(), "p1", follower)
	require.NoError(t, err)
	require.Equal(t, "p1", got.ID)

	mf.EXPECT().Follows(gomock.Any(), stranger, author).Return(false, nil)
	_, err = s.PostForViewer(context.Background(), "p1", stranger)
	require.ErrorIs(t, err, ErrNotFound)

	// Автор видит свою followers-запись без похода в оракул.
	got, err = s.PostForViewer(context.Background(), "p1", author)
	require.NoError(t, err)
	require.Equal(t, "p1", got.ID)
}
