package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/minbar-platform/backend/internal/apperrors"
	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/notifications"
	"github.com/minbar-platform/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	contentRepository repositories.ContentRepository
	fanout            *notifications.Fanout
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	contentRepo repositories.ContentRepository,
	fanout *notifications.Fanout,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		contentRepository: contentRepo,
		fanout:            fanout,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/content/:id/comments", h.CreateComment)
	g.GET("/content/:id/comments", h.GetCommentsByContent)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a content item. The content author
// is notified; replying also notifies the parent comment's author.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	contentID := c.Param("id")

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	content, err := h.contentRepository.GetByID(c.Request().Context(), contentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load content")
	}

	comment := &models.Comment{
		ContentID: content.ID,
		UserID:    userID,
		Body:      req.Body,
	}

	var parent *models.Comment
	if req.ParentID != "" {
		parent, err = h.commentRepository.GetByID(c.Request().Context(), req.ParentID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Parent comment not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load parent comment")
		}
		if parent.ContentID != content.ID {
			return echo.NewHTTPError(http.StatusBadRequest, "Parent comment belongs to another content item")
		}
		parentID, _ := primitive.ObjectIDFromHex(req.ParentID)
		comment.ParentID = &parentID
	}

	if err := h.commentRepository.Create(c.Request().Context(), comment); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create comment")
	}

	h.fanout.Emit(c.Request().Context(), notifications.Event{
		ActorID:      userID,
		RecipientID:  content.AuthorID,
		Type:         models.NotificationContentComment,
		ContentID:    content.ID.Hex(),
		CommentID:    comment.ID.Hex(),
		Slug:         content.Slug,
		ContentTitle: content.Title,
	})
	if parent != nil {
		h.fanout.Emit(c.Request().Context(), notifications.Event{
			ActorID:      userID,
			RecipientID:  parent.UserID,
			Type:         models.NotificationCommentReply,
			ContentID:    content.ID.Hex(),
			CommentID:    comment.ID.Hex(),
			Slug:         content.Slug,
			ContentTitle: content.Title,
		})
	}

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsByContent retrieves visible comments for a content item
func (h *CommentHandler) GetCommentsByContent(c echo.Context) error {
	contentID := c.Param("id")

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if skip < 0 {
		skip = 0
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	comments, total, err := h.commentRepository.ListByContent(c.Request().Context(), contentID, skip, limit)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Content not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list comments")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"comments":   comments,
		"totalCount": total,
	})
}

// DeleteComment deletes a comment. Only the comment's author or an admin may
// delete it.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if userID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	commentID := c.Param("id")

	comment, err := h.commentRepository.GetByID(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load comment")
	}

	if comment.UserID != userID && !isAdminFromContext(c) {
		return echo.NewHTTPError(http.StatusForbidden, "You are not authorized to delete this comment")
	}

	if err := h.commentRepository.Delete(c.Request().Context(), commentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete comment")
	}

	return c.NoContent(http.StatusNoContent)
}
