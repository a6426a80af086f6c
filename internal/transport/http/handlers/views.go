package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/Priyanshukumar2344/mysocial-hub-sub000/internal/models"
)

// Внешние представления API. Хранимые реестры (ReactionsByViewer, SavedBy,
// LikedBy) наружу не отдаются целиком — зритель видит только агрегаты и
// собственные отметки.

// MediaView — медиа-вложение записи.
type MediaView struct {
	Kind string `json:"kind"`
	Ref  string `json:"ref"`
}

// PostView — запись глазами конкретного зрителя.
type PostView struct {
	ID             string           `json:"id"`
	AuthorID       string           `json:"author_id"`
	Content        string           `json:"content"`
	Media          []MediaView      `json:"media,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	Type           string           `json:"type"`
	Tags           []string         `json:"tags,omitempty"`
	Visibility     string           `json:"visibility"`
	ReactionCounts map[string]int64 `json:"reaction_counts"`
	ViewerReaction string           `json:"viewer_reaction,omitempty"`
	CommentCount   int              `json:"comment_count"`
	Saved          bool             `json:"saved"`
	ShareCount     int64            `json:"share_count"`
}

// CommentView — комментарий с ответами.
type CommentView struct {
	ID        string        `json:"id"`
	AuthorID  string        `json:"author_id"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"created_at"`
	LikeCount int32         `json:"like_count"`
	Liked     bool          `json:"liked"`
	Replies   []CommentView `json:"replies"`
}

// FeedPageView — страница ленты.
type FeedPageView struct {
	Items   []PostView `json:"items"`
	Page    int32      `json:"page"`
	HasMore bool       `json:"has_more"`
}

// CommentsView — комментарии записи.
type CommentsView struct {
	Items []CommentView `json:"items"`
}

func postView(p *models.Post, viewer uuid.UUID) PostView {
	media := make([]MediaView, 0, len(p.Media))
	for _, m := range p.Media {
		media = append(media, MediaView{Kind: string(m.Kind), Ref: m.Ref})
	}

	counts := make(map[string]int64, len(p.ReactionCounts))
	for k, v := range p.ReactionCounts {
		counts[string(k)] = v
	}

	out := PostView{
		ID:             p.ID,
		AuthorID:       p.AuthorID.String(),
		Content:        p.Content,
		Media:          media,
		CreatedAt:      p.CreatedAt,
		Type:           string(p.Type),
		Tags:           p.Tags,
		Visibility:     string(p.Visibility),
		ReactionCounts: counts,
		CommentCount:   len(p.Comments),
		Saved:          p.SavedByViewer(viewer),
		ShareCount:     p.ShareCount,
	}

	if k, ok := p.ViewerReaction(viewer); ok {
		out.ViewerReaction = string(k)
	}

	return out
}

func commentView(c *models.Comment, viewer uuid.UUID) CommentView {
	replies := make([]CommentView, 0, len(c.Replies))
	for i := range c.Replies {
		replies = append(replies, commentView(&c.Replies[i], viewer))
	}

	return CommentView{
		ID:        c.ID,
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		LikeCount: c.LikeCount,
		Liked:     c.LikedByViewer(viewer),
		Replies:   replies,
	}
}

func feedPageView(page *models.FeedPage, viewer uuid.UUID) FeedPageView {
	items := make([]PostView, 0, len(page.Items))
	for i := range page.Items {
		items = append(items, postView(&page.Items[i], viewer))
	}

	return FeedPageView{
		Items:   items,
		Page:    page.Page,
		HasMore: page.HasMore,
	}
}

func commentsView(cs []models.Comment, viewer uuid.UUID) CommentsView {
	items := make([]CommentView, 0, len(cs))
	for i := range cs {
		items = append(items, commentView(&cs[i], viewer))
	}

	return CommentsView{Items: items}
}
