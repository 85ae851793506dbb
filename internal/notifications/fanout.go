// Package notifications turns engagement events into persisted notifications.
// Delivery is best-effort by contract: a failed fan-out is logged and
// swallowed, never propagated to fail the request that triggered it.
package notifications

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/repositories"
)

// Event is a single engagement occurrence to fan out.
type Event struct {
	ActorID      uint
	RecipientID  uint
	Type         models.NotificationType
	ContentID    string
	CommentID    string
	Slug         string
	ContentTitle string
}

// Fanout builds and persists notifications from engagement events.
type Fanout struct {
	notifications repositories.NotificationRepository
	users         repositories.UserRepository
	logger        *zap.Logger
}

// NewFanout creates a Fanout.
func NewFanout(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository, logger *zap.Logger) *Fanout {
	return &Fanout{notifications: notifRepo, users: userRepo, logger: logger}
}

// Emit persists at most one notification for the event. Events without a
// recipient, or where the actor engages with their own content, are dropped
// silently. Emit never returns an error: persistence failures are logged.
func (f *Fanout) Emit(ctx context.Context, event Event) {
	if event.RecipientID == 0 || event.RecipientID == event.ActorID {
		return
	}

	actorName := "Someone"
	if actor, err := f.users.GetUserByID(event.ActorID); err == nil {
		actorName = actor.Name
	} else {
		f.logger.Warn("fanout: actor lookup failed",
			zap.Uint("actor_id", event.ActorID),
			zap.Error(err))
	}

	title, message, ok := buildMessage(event.Type, actorName, event.ContentTitle)
	if !ok {
		f.logger.Warn("fanout: unknown event type", zap.String("type", string(event.Type)))
		return
	}

	notification := &models.Notification{
		RecipientID: event.RecipientID,
		ActorID:     event.ActorID,
		Type:        event.Type,
		ContentID:   event.ContentID,
		CommentID:   event.CommentID,
		Slug:        event.Slug,
		Title:       title,
		Message:     message,
		IsRead:      false,
	}
	if err := f.notifications.Create(notification); err != nil {
		f.logger.Error("fanout: notification create failed",
			zap.String("type", string(event.Type)),
			zap.Uint("recipient_id", event.RecipientID),
			zap.Error(err))
	}
}

// buildMessage returns the fixed title/message pair for an event type.
func buildMessage(t models.NotificationType, actorName, contentTitle string) (title, message string, ok bool) {
	switch t {
	case models.NotificationContentLike:
		return "New like", fmt.Sprintf("%s liked your post %q", actorName, contentTitle), true
	case models.NotificationContentComment:
		return "New comment", fmt.Sprintf("%s commented on your post %q", actorName, contentTitle), true
	case models.NotificationCommentLiked:
		return "Comment liked", fmt.Sprintf("%s liked your comment", actorName), true
	case models.NotificationCommentReply:
		return "New reply", fmt.Sprintf("%s replied to your comment", actorName), true
	}
	return "", "", false
}
