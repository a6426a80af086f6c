package service

// Тесты сборщика ленты (internal/service/feed.go) и предиката видимости.
//
// Проверяем:
//  - фильтр видимости для подписчика и постороннего зрителя;
//  - категориальные срезы (friends/saved/events/work_updates) и фильтр по типу;
//  - детерминированную сортировку и покрытие при постраничной выдаче;
//  - нормализацию размера страницы (default/max).

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
)

func TestService_Feed_Validation(t *testing.T) {
	s, _, _, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	_, err := s.Feed(context.Background(), FeedInput{ViewerID: uuid.Nil})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Feed(context.Background(), FeedInput{ViewerID: uuid.New(), Category: "hot"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Feed(context.Background(), FeedInput{ViewerID: uuid.New(), Type: "meme"})
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = s.Feed(context.Background(), FeedInput{ViewerID: uuid.New(), Page: -1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

// Видимость: подписчик видит public и followers, но не private; посторонний
// зритель видит только public; автор видит всё своё.
func TestService_Feed_Visibility(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	author := uuid.New()
	follower := uuid.New()
	stranger := uuid.New()

	now := time.Now().UTC().Truncate(time.Millisecond)
	pub := *mustPost("p-pub", author)
	pub.CreatedAt = now.Add(-1 * time.Minute)

	fol := *mustPost("p-fol", author)
	fol.Visibility = models.VisibilityFollowers
	fol.CreatedAt = now.Add(-2 * time.Minute)

	priv := *mustPost("p-priv", author)
	priv.Visibility = models.VisibilityPrivate
	priv.CreatedAt = now.Add(-3 * time.Minute)

	ms.EXPECT().ListPosts(gomock.Any()).Return([]models.Post{pub, fol, priv}, nil).AnyTimes()
	mf.EXPECT().Follows(gomock.Any(), follower, author).Return(true, nil).AnyTimes()
	mf.EXPECT().Follows(gomock.Any(), stranger, author).Return(false, nil).AnyTimes()

	page, err := s.Feed(context.Background(), FeedInput{ViewerID: follower})
	require.NoError(t, err)
	require.Equal(t, []string{"p-pub", "p-fol"}, postIDs(page.Items))

	page, err = s.Feed(context.Background(), FeedInput{ViewerID: stranger})
	require.NoError(t, err)
	require.Equal(t, []string{"p-pub"}, postIDs(page.Items))

	page, err = s.Feed(context.Background(), FeedInput{ViewerID: author})
	require.NoError(t, err)
	require.Equal(t, []string{"p-pub", "p-fol", "p-priv"}, postIDs(page.Items))
}

// Покрытие: N видимых записей, страницы размера 5 без дыр и дублей,
// последняя страница короткая, HasMore корректен на границе.
func TestService_Feed_PaginationCoverage(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)

	posts := make([]models.Post, 0, 12)
	for i := 0; i < 12; i++ {
		p := *mustPost(fmt.Sprintf("p%02d", i), uuid.New())
		p.CreatedAt = now.Add(-time.Duration(i) * time.Minute)
		posts = append(posts, p)
	}

	ms.EXPECT().ListPosts(gomock.Any()).Return(posts, nil).AnyTimes()
	mf.EXPECT().Follows(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	seen := map[string]bool{}
	for pageIdx := int32(0); ; pageIdx++ {
		page, err := s.Feed(context.Background(), FeedInput{ViewerID: viewer, Page: pageIdx})
		require.NoError(t, err)

		for _, p := range page.Items {
			require.False(t, seen[p.ID], "duplicate post %s", p.ID)
			seen[p.ID] = true
		}

		if !page.HasMore {
			require.Len(t, page.Items, 2) // 12 = 5 + 5 + 2
			break
		}

		require.Len(t, page.Items, 5)
	}

	require.Len(t, seen, 12)

	// Страница за пределами набора пуста, HasMore=false.
	page, err := s.Feed(context.Background(), FeedInput{ViewerID: viewer, Page: 10})
	require.NoError(t, err)
	require.Empty(t, page.Items)
	require.False(t, page.HasMore)
}

// Граница номера страницы: page вплоть до MaxInt32 не переполняет смещение
// и даёт пустую страницу вместо паники среза.
func TestService_Feed_HugePageIndex(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	posts := []models.Post{*mustPost("p1", uuid.New())}

	ms.EXPECT().ListPosts(gomock.Any()).Return(posts, nil).AnyTimes()
	mf.EXPECT().Follows(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	for _, pageIdx := range []int32{429496730, math.MaxInt32} {
		var page *models.FeedPage
		var err error

		require.NotPanics(t, func() {
			page, err = s.Feed(context.Background(), FeedInput{ViewerID: viewer, Page: pageIdx})
		})
		require.NoError(t, err)
		require.Empty(t, page.Items)
		require.False(t, page.HasMore)
		require.Equal(t, pageIdx, page.Page)
	}
}

// Размер страницы: 0 -> default, больше максимума -> max.
func TestService_Feed_PageSizeNormalization(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)

	posts := make([]models.Post, 0, 60)
	for i := 0; i < 60; i++ {
		p := *mustPost(fmt.Sprintf("p%02d", i), uuid.New())
		p.CreatedAt = now.Add(-time.Duration(i) * time.Second)
		posts = append(posts, p)
	}

	ms.EXPECT().ListPosts(gomock.Any()).Return(posts, nil).AnyTimes()
	mf.EXPECT().Follows(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	page, err := s.Feed(context.Background(), FeedInput{ViewerID: viewer})
	require.NoError(t, err)
	require.Len(t, page.Items, 5)

	page, err = s.Feed(context.Background(), FeedInput{ViewerID: viewer, PageSize: 1000})
	require.NoError(t, err)
	require.Len(t, page.Items, 50)
	require.True(t, page.HasMore)
}

// Детерминизм: равные CreatedAt упорядочиваются по ID по возрастанию.
func TestService_Feed_Tiebreak(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	ts := time.Now().UTC().Truncate(time.Millisecond)

	a := *mustPost("b-post", uuid.New())
	a.CreatedAt = ts
	b := *mustPost("a-post", uuid.New())
	b.CreatedAt = ts
	c := *mustPost("c-post", uuid.New())
	c.CreatedAt = ts.Add(time.Minute)

	ms.EXPECT().ListPosts(gomock.Any()).Return([]models.Post{a, b, c}, nil)
	mf.EXPECT().Follows(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil).AnyTimes()

	page, err := s.Feed(context.Background(), FeedInput{ViewerID: viewer})
	require.NoError(t, err)
	require.Equal(t, []string{"c-post", "a-post", "b-post"}, postIDs(page.Items))
}

func TestService_Feed_Categories(t *testing.T) {
	s, ms, mf, _, ctrl := newServiceWithMocks(t)
	defer ctrl.Finish()

	viewer := uuid.New()
	friend := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)

	mine := *mustPost("p-mine", viewer)
	mine.CreatedAt = now.Add(-1 * time.Minute)

	friends := *mustPost("p-friend", friend)
	friends.CreatedAt = now.Add(-2 * time.Minute)

	saved := *mustPost("p-saved", uuid.New())
	saved.CreatedAt = now.Add(-3 * time.Minute)
	saved.SavedBy = []string{viewer.String()}

	event := *mustPost("p-event", uuid.New())
	event.CreatedAt = now.Add(-4 * time.Minute)
	event.Tags = []string{"event"}

	work := *mustPost("p-work", uuid.New())
	work.CreatedAt = now.Add(-5 * time.Minute)
	work.Type = models.PostTypeDailyUpdate
	work.Tags = []string{"work-update"}

	all := []models.Post{mine, friends, saved, event, work}
	ms.EXPECT().ListPosts(gomock.Any()).Return(all, nil).AnyTimes()
	mf.EXPECT().
		Follows(gomock.Any(), viewer, gomock.Any()).
		DoAndReturn(func(_ context.Context, _, authorID uuid.UUID) (bool, error) {
			return authorID == friend, nil
		}).
		AnyTimes()

	cases := []struct {
		category FeedCategory
		want     []string
	}{
		{CategoryAll, []string{"p-mine", "p-friend", "p-saved", "p-event", "p-work"}},
		{CategoryFriends, []string{"p-friend"}}, // свои записи не входят
		{CategorySaved, []string{"p-saved"}},
		{CategoryEvents, []string{"p-event"}},
		{CategoryWorkUpdates, []string{"p-work"}},
	}

	for _, tc := range cases {
		page, err := s.Feed(context.Background(), FeedInput{ViewerID: viewer, Category: tc.category})
		require.NoError(t, err, "category %s", tc.category)
		require.Equal(t, tc.want, postIDs(page.Items), "category %s", tc.category)
	}

	// Фильтр по типу сочетается с категорией.
	page, err := s.Feed(context.Background(), FeedInput{
		ViewerID: viewer, Category: CategoryAll, Type: models.PostTypeDailyUpdate,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"p-work"}, postIDs(page.Items))
}

func postIDs(ps []models.Post) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}

	return out
}
