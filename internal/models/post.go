// Package models содержит доменные сущности feed-сервиса.
package models

import (
	"time"

	"github.com/google/uuid"
)

// ReactionKind — закрытый набор реакций на запись.
// Неизвестные значения отбрасываются на валидации сервисного слоя,
// в хранилище попадают только перечисленные ниже.
type ReactionKind string

const (
	ReactionThumbsUp   ReactionKind = "thumbs_up"
	ReactionInsightful ReactionKind = "insightful"
	ReactionBrilliant  ReactionKind = "brilliant"
)

// ReactionKinds — полный перечень допустимых реакций.
var ReactionKinds = []ReactionKind{ReactionThumbsUp, ReactionInsightful, ReactionBrilliant}

// Valid сообщает, входит ли значение в закрытый набор.
func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionThumbsUp, ReactionInsightful, ReactionBrilliant:
		return true
	}

	return false
}

// PostType — тип записи.
type PostType string

const (
	PostTypeGeneral     PostType = "general"
	PostTypeDailyUpdate PostType = "daily_update"
	PostTypeAchievement PostType = "achievement"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeGeneral, PostTypeDailyUpdate, PostTypeAchievement:
		return true
	}

	return false
}

// Visibility — область видимости записи.
type Visibility string

const (
	VisibilityPublic    Visibility = "public"
	VisibilityFollowers Visibility = "followers"
	VisibilityPrivate   Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityFollowers, VisibilityPrivate:
		return true
	}

	return false
}

// MediaKind — тип медиа-вложения.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

func (m MediaKind) Valid() bool {
	return m == MediaImage || m == MediaVideo
}

// MediaRef — непрозрачная ссылка на медиа. Разрешением ссылки в URL/байты
// занимается внешний медиа-коллаборатор, ядро хранит и передаёт её как есть.
type MediaRef struct {
	Kind MediaKind `bson:"kind"`
	Ref  string    `bson:"ref"`
}

// Comment — комментарий или ответ на комментарий.
// Важно:
//   - дерево ограничено двумя уровнями: у ответов Replies всегда пуст;
//   - LikedBy хранит строковые UUID зрителей; инвариант LikeCount == len(LikedBy);
//   - канонический порядок в Replies/Post.Comments — порядок поступления.
type Comment struct {
	ID        string    `bson:"id"`
	AuthorID  uuid.UUID `bson:"author_id"`
	Content   string    `bson:"content"`
	CreatedAt time.Time `bson:"created_at"`
	LikeCount int32     `bson:"like_count"`
	LikedBy   []string  `bson:"liked_by"`
	Replies   []Comment `bson:"replies"`
}

// LikedByViewer сообщает, лайкнул ли зритель комментарий.
func (c *Comment) LikedByViewer(viewerID uuid.UUID) bool {
	id := viewerID.String()
	for _, v := range c.LikedBy {
		if v == id {
			return true
		}
	}

	return false
}

// Clone возвращает глубокую копию комментария.
func (c Comment) Clone() Comment {
	out := c
	out.LikedBy = append([]string(nil), c.LikedBy...)

	if c.Replies != nil {
		out.Replies = make([]Comment, 0, len(c.Replies))
		for _, r := range c.Replies {
			out.Replies = append(out.Replies, r.Clone())
		}
	}

	return out
}

// Post — внутренняя доменная модель записи ленты (MongoDB).
// Важно:
//   - ID — ObjectID MongoDB, наружу/вовнутрь конвертируется в string;
//   - идентичность и автор неизменяемы после создания; изменяемые поля
//     (ReactionCounts, ReactionsByViewer, Comments, SavedBy, ShareCount)
//     мутируются только через сервисный слой;
//   - ключи ReactionsByViewer и элементы SavedBy — строковые UUID зрителей;
//   - инвариант: ReactionCounts[k] == числу зрителей с реакцией k, для всех k.
type Post struct {
	ID                string                  `bson:"-"`
	AuthorID          uuid.UUID               `bson:"author_id"`
	Content           string                  `bson:"content"`
	Media             []MediaRef              `bson:"media"`
	CreatedAt         time.Time               `bson:"created_at"`
	Type              PostType                `bson:"type"`
	Tags              []string                `bson:"tags"`
	Visibility        Visibility              `bson:"visibility"`
	ReactionCounts    map[ReactionKind]int64  `bson:"reaction_counts"`
	ReactionsByViewer map[string]ReactionKind `bson:"reactions_by_viewer"`
	Comments          []Comment               `bson:"comments"`
	SavedBy           []string                `bson:"saved_by"`
	ShareCount        int64                   `bson:"share_count"`
}

// HasTag сообщает о наличии тега у записи.
func (p *Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}

	return false
}

// SavedByViewer сообщает, сохранил ли зритель запись в закладки.
func (p *Post) SavedByViewer(viewerID uuid.UUID) bool {
	id := viewerID.String()
	for _, v := range p.SavedBy {
		if v == id {
			return true
		}
	}

	return false
}

// ViewerReaction возвращает реакцию зрителя на запись (ok=false — реакции нет).
func (p *Post) ViewerReaction(viewerID uuid.UUID) (ReactionKind, bool) {
	k, ok := p.ReactionsByViewer[viewerID.String()]
	return k, ok
}

// Clone возвращает глубокую копию записи. Мутации сервисного слоя применяются
// к копии и сохраняются целиком — читатели не видят наполовину применённых
// изменений.
func (p Post) Clone() Post {
	out := p
	out.Media = append([]MediaRef(nil), p.Media...)
	out.Tags = append([]string(nil), p.Tags...)
	out.SavedBy = append([]string(nil), p.SavedBy...)

	if p.ReactionCounts != nil {
		out.ReactionCounts = make(map[ReactionKind]int64, len(p.ReactionCounts))
		for k, v := range p.ReactionCounts {
			out.ReactionCounts[k] = v
		}
	}

	if p.ReactionsByViewer != nil {
		out.ReactionsByViewer = make(map[string]ReactionKind, len(p.ReactionsByViewer))
		for k, v := range p.ReactionsByViewer {
			out.ReactionsByViewer[k] = v
		}
	}

	if p.Comments != nil {
		out.Comments = make([]Comment, 0, len(p.Comments))
		for _, c := range p.Comments {
			out.Comments = append(out.Comments, c.Clone())
		}
	}

	return out
}

// FeedPage — результат постраничной выдачи ленты.
// Пагинация смещением по отсортированному отфильтрованному набору: при
// появлении новых записей между запросами страниц покрытие не строго
// exactly-once — принятое поведение хронологической ленты.
type FeedPage struct {
	Items   []Post
	Page    int32
	HasMore bool
}
