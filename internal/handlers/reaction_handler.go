package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/notifications"
	"github.com/minbar-platform/backend/internal/repositories"
)

// ReactionHandler handles reaction toggle and status requests
type ReactionHandler struct {
	reactionRepository repositories.ReactionRepository
	contentRepository  repositories.ContentRepository
	commentRepository  repositories.CommentRepository
	fanout             *notifications.Fanout
}

// NewReactionHandler creates a new ReactionHandler
func NewReactionHandler(
	reactionRepo repositories.ReactionRepository,
	contentRepo repositories.ContentRepository,
	commentRepo repositories.CommentRepository,
	fanout *notifications.Fanout,
) *ReactionHandler {
	return &ReactionHandler{
		reactionRepository: reactionRepo,
		contentRepository:  contentRepo,
		commentRepository:  commentRepo,
		fanout:             fanout,
	}
}

// RegisterReactionRoutes registers reaction-related routes
func (h *ReactionHandler) RegisterReactionRoutes(g *echo.Group) {
	g.POST("/reactions/:kind", h.ToggleReaction)
	g.GET("/reactions/:kind", h.GetReactionStatus)
}

// ToggleReaction flips the caller's reaction edge on a target and returns the
// authoritative post-flip state. Activating a like fans out a notification to
// the target's owner as a best-effort side effect.
func (h *ReactionHandler) ToggleReaction(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind := models.ReactionKind(c.Param("kind"))
	if !kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown reaction kind")
	}

	var req models.ToggleReactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// Resolve the target up front: 404 on unknown targets, and the fan-out
	// event needs the owner and the content title anyway.
	event, err := h.eventForTarget(c, userID, kind, req.TargetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to resolve target")
	}

	result, err := h.reactionRepository.Toggle(c.Request().Context(), userID, req.TargetID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle reaction")
	}

	// Only a newly activated like notifies; toggling off and bookmarks stay
	// silent. The fan-out's own failures never reach this response.
	if result.Active && event.Type != "" {
		h.fanout.Emit(c.Request().Context(), event)
	}

	return c.JSON(http.StatusOK, result)
}

// eventForTarget looks up the toggle target and prepares the fan-out event
// for it. The event Type is left empty for kinds that never notify.
func (h *ReactionHandler) eventForTarget(c echo.Context, userID uint, kind models.ReactionKind, targetID string) (notifications.Event, error) {
	switch kind {
	case models.ReactionContent, models.ReactionBookmark:
		content, err := h.contentRepository.GetByID(c.Request().Context(), targetID)
		if err != nil {
			return notifications.Event{}, err
		}
		event := notifications.Event{ActorID: userID}
		if kind == models.ReactionContent {
			event.RecipientID = content.AuthorID
			event.Type = models.NotificationContentLike
			event.ContentID = content.ID.Hex()
			event.Slug = content.Slug
			event.ContentTitle = content.Title
		}
		return event, nil
	case models.ReactionComment:
		comment, err := h.commentRepository.GetByID(c.Request().Context(), targetID)
		if err != nil {
			return notifications.Event{}, err
		}
		return notifications.Event{
			ActorID:     userID,
			RecipientID: comment.UserID,
			Type:        models.NotificationCommentLiked,
			ContentID:   comment.ContentID.Hex(),
			CommentID:   comment.ID.Hex(),
		}, nil
	}
	return notifications.Event{}, apperrors.ErrNotFound
}

// GetReactionStatus reports whether the caller has an active edge on a target
func (h *ReactionHandler) GetReactionStatus(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	kind := models.ReactionKind(c.Param("kind"))
	if !kind.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Unknown reaction kind")
	}
	targetID := c.QueryParam("targetId")
	if targetID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "targetId is required")
	}

	active, err := h.reactionRepository.IsActive(c.Request().Context(), userID, targetID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Target not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read reaction status")
	}

	return c.JSON(http.StatusOK, echo.Map{"active": active})
}
