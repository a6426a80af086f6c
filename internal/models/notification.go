package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind — закрытый набор типов уведомлений.
type NotificationKind string

const (
	NotificationReaction    NotificationKind = "reaction"
	NotificationComment     NotificationKind = "comment"
	NotificationReply       NotificationKind = "reply"
	NotificationCommentLike NotificationKind = "comment_like"
	NotificationShare       NotificationKind = "share"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationReaction, NotificationComment, NotificationReply,
		NotificationCommentLike, NotificationShare:
		return true
	}

	return false
}

// NotificationEvent — производное событие уведомления.
// Ядро только порождает событие и передаёт его диспетчеру; доставка
// (inbox/push/email) — ответственность внешнего приёмника.
type NotificationEvent struct {
	RecipientID uuid.UUID        `json:"recipient_id"`
	Kind        NotificationKind `json:"kind"`
	ActorID     uuid.UUID        `json:"actor_id"`
	PostID      string           `json:"post_id"`
	CommentID   string           `json:"comment_id,omitempty"`
	Summary     string           `json:"summary"`
	CreatedAt   time.Time        `json:"created_at"`
}
