package models

import "time"

// NotificationType keys the message template used when a notification is built
type NotificationType string

const (
	NotificationContentLike    NotificationType = "content_like"
	NotificationContentComment NotificationType = "content_comment"
	NotificationCommentLiked   NotificationType = "comment_liked"
	NotificationCommentReply   NotificationType = "comment_reply"
)

// Notification represents a user notification (PostgreSQL)
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID uint             `json:"recipient_id" gorm:"index"`
	ActorID     uint             `json:"actor_id" gorm:"index"`
	Type        NotificationType `json:"type" gorm:"size:30;index"`
	ContentID   string           `json:"content_id,omitempty" gorm:"size:24"`
	CommentID   string           `json:"comment_id,omitempty" gorm:"size:24"`
	Slug        string           `json:"slug,omitempty" gorm:"size:200"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}
