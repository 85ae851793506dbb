package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minbar-platform/backend/internal/models"
	"github.com/minbar-platform/backend/internal/notifications"
	"github.com/minbar-platform/backend/internal/validators"
)

type commentTestEnv struct {
	echo          *echo.Echo
	handler       *CommentHandler
	contents      *fakeContentStore
	comments      *fakeCommentStore
	notifications *notificationLog
}

func newCommentTestEnv(t *testing.T, items ...*models.ContentItem) *commentTestEnv {
	t.Helper()
	e := echo.New()
	e.Validator = validators.NewValidator()

	contents := newFakeContentStore(items...)
	comments := newFakeCommentStore(contents)
	notifLog := &notificationLog{}
	users := &staticUserStore{users: map[uint]models.User{
		1: {ID: 1, Name: "Amira"},
		2: {ID: 2, Name: "Karim"},
		3: {ID: 3, Name: "Lina"},
	}}
	fanout := notifications.NewFanout(notifLog, users, zap.NewNop())

	return &commentTestEnv{
		echo:          e,
		handler:       NewCommentHandler(comments, contents, fanout),
		contents:      contents,
		comments:      comments,
		notifications: notifLog,
	}
}

func (env *commentTestEnv) post(t *testing.T, userID uint, contentID, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(contentID)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return rec, env.handler.CreateComment(c)
}

func TestCreateCommentNotifiesContentAuthor(t *testing.T) {
	contentID := testObjectID(10)
	env := newCommentTestEnv(t, &models.ContentItem{
		ID:       contentID,
		Title:    "Dunes",
		Slug:     "dunes",
		AuthorID: 2,
	})

	rec, err := env.post(t, 1, contentID.Hex(), `{"body":"lovely"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), env.contents.items[contentID.Hex()].CommentsCount)

	require.Len(t, env.notifications.created, 1)
	n := env.notifications.created[0]
	assert.Equal(t, models.NotificationContentComment, n.Type)
	assert.Equal(t, uint(2), n.RecipientID)
	assert.Contains(t, n.Message, "Amira")
	assert.Contains(t, n.Message, "Dunes")
}

func TestCreateReplyNotifiesBothAuthors(t *testing.T) {
	contentID := testObjectID(11)
	env := newCommentTestEnv(t, &models.ContentItem{ID: contentID, Title: "Dunes", AuthorID: 2})
	parent := &models.Comment{ContentID: contentID, UserID: 3, Body: "first"}
	require.NoError(t, env.comments.Create(context.Background(), parent))

	rec, err := env.post(t, 1, contentID.Hex(), `{"body":"agreed","parent_id":"`+parent.ID.Hex()+`"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var created models.Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotNil(t, created.ParentID)
	assert.Equal(t, parent.ID, *created.ParentID)

	require.Len(t, env.notifications.created, 2)
	assert.Equal(t, models.NotificationContentComment, env.notifications.created[0].Type)
	assert.Equal(t, uint(2), env.notifications.created[0].RecipientID)
	assert.Equal(t, models.NotificationCommentReply, env.notifications.created[1].Type)
	assert.Equal(t, uint(3), env.notifications.created[1].RecipientID)
}

func TestCreateReplyRejectsForeignParent(t *testing.T) {
	contentA := testObjectID(12)
	contentB := testObjectID(13)
	env := newCommentTestEnv(t,
		&models.ContentItem{ID: contentA, AuthorID: 2},
		&models.ContentItem{ID: contentB, AuthorID: 2},
	)
	parent := &models.Comment{ContentID: contentB, UserID: 3, Body: "elsewhere"}
	require.NoError(t, env.comments.Create(context.Background(), parent))

	_, err := env.post(t, 1, contentA.Hex(), `{"body":"agreed","parent_id":"`+parent.ID.Hex()+`"}`)
	he := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Empty(t, env.notifications.created)
}

func TestCreateCommentOnMissingContent(t *testing.T) {
	env := newCommentTestEnv(t)
	_, err := env.post(t, 1, testObjectID(14).Hex(), `{"body":"hello"}`)
	he := requireHTTPError(t, err)
	assert.Equal(t, http.StatusNotFound, he.Code)
}

func TestCreateCommentValidatesBody(t *testing.T) {
	contentID := testObjectID(15)
	env := newCommentTestEnv(t, &models.ContentItem{ID: contentID, AuthorID: 2})
	_, err := env.post(t, 1, contentID.Hex(), `{"body":""}`)
	he := requireHTTPError(t, err)
	assert.Equal(t, http.StatusBadRequest, he.Code)
}

func (env *commentTestEnv) delete(t *testing.T, commentID string, claims *models.JwtCustomClaims) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, "/", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(commentID)
	if claims != nil {
		c.Set("user", claims)
	}
	return rec, env.handler.DeleteComment(c)
}

func TestDeleteCommentOwnerAndAdmin(t *testing.T) {
	contentID := testObjectID(16)
	env := newCommentTestEnv(t, &models.ContentItem{ID: contentID, AuthorID: 2})
	comment := &models.Comment{ContentID: contentID, UserID: 3, Body: "mine"}
	require.NoError(t, env.comments.Create(context.Background(), comment))

	// A stranger may not delete it.
	_, err := env.delete(t, comment.ID.Hex(), &models.JwtCustomClaims{UserID: 1})
	he := requireHTTPError(t, err)
	assert.Equal(t, http.StatusForbidden, he.Code)

	// The owner may.
	rec, err := env.delete(t, comment.ID.Hex(), &models.JwtCustomClaims{UserID: 3})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(0), env.contents.items[contentID.Hex()].CommentsCount)

	// An admin may delete someone else's comment.
	other := &models.Comment{ContentID: contentID, UserID: 3, Body: "another"}
	require.NoError(t, env.comments.Create(context.Background(), other))
	rec, err = env.delete(t, other.ID.Hex(), &models.JwtCustomClaims{UserID: 1, IsAdmin: true})
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestListCommentsOmitsHidden(t *testing.T) {
	contentID := testObjectID(17)
	env := newCommentTestEnv(t, &models.ContentItem{ID: contentID, AuthorID: 2})

	visible := &models.Comment{ContentID: contentID, UserID: 1, Body: "shown"}
	require.NoError(t, env.comments.Create(context.Background(), visible))
	hidden := &models.Comment{ContentID: contentID, UserID: 1, Body: "moderated"}
	require.NoError(t, env.comments.Create(context.Background(), hidden))
	env.comments.comments[hidden.ID.Hex()].Status = models.CommentStatusHidden

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(contentID.Hex())

	require.NoError(t, env.handler.GetCommentsByContent(c))

	var payload struct {
		Comments   []models.Comment `json:"comments"`
		TotalCount int64            `json:"totalCount"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Comments, 1)
	assert.Equal(t, "shown", payload.Comments[0].Body)
	assert.Equal(t, int64(1), payload.TotalCount)
}
