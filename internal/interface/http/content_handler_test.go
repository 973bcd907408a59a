package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contentapp "github.com/letmerecall/server/internal/application"
	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/internal/interface/middleware"
	"github.com/letmerecall/server/pkg/validation"
)

type memContentRepo struct {
	contents map[string]*entity.Content
	nextID   int
}

func newMemContentRepo() *memContentRepo {
	return &memContentRepo{contents: make(map[string]*entity.Content), nextID: 1}
}

func (m *memContentRepo) Create(_ context.Context, c *entity.Content) error {
	c.ID = fmt.Sprintf("content-%d", m.nextID)
	m.nextID++
	c.CreatedAt = time.Now()
	for i := range c.Images {
		c.Images[i].ContentID = c.ID
		c.Images[i].UserID = c.UserID
	}
	copied := *c
	m.contents[c.ID] = &copied
	return nil
}

func (m *memContentRepo) ListByOwner(_ context.Context, userID string) ([]entity.Content, error) {
	var out []entity.Content
	for _, c := range m.contents {
		if c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *memContentRepo) GetByOwnerAndID(_ context.Context, userID, id string) (*entity.Content, error) {
	c, ok := m.contents[id]
	if !ok || c.UserID != userID {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (m *memContentRepo) DeleteByOwnerAndID(_ context.Context, userID, id string) error {
	c, ok := m.contents[id]
	if !ok || c.UserID != userID {
		return repository.ErrNotFound
	}
	delete(m.contents, id)
	return nil
}

// asUser stubs the auth middleware: the request runs with a fixed identity.
func asUser(uid string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.CtxUserIDKey, uid)
		c.Next()
	}
}

func newContentRouter(repo *memContentRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := contentapp.NewContentService(repo, logger, nil, "")
	h := NewContentHandler(svc, logger, nil, "")

	r := gin.New()
	g := r.Group("/api/v1/content", asUser("user-1"))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:id", h.GetOne)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCreateContentLink(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"Go blog","type":"LINK","url":"https://go.dev/blog"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"title":"Go blog"`)
	assert.Contains(t, string(env.Data), `"userId":"user-1"`)
}

func TestCreateContentLinkWithoutURL(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"Go blog","type":"LINK"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation error", env.Message)
	assert.Contains(t, env.Error, "url")
}

func TestCreateContentLinkBlankURL(t *testing.T) {
	// Blank url is normalized to absent, so the required-for-LINK rule fires
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"Go blog","type":"LINK","url":"   "}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "url")
}

func TestCreateContentImageWithoutImages(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"pics","type":"IMAGE"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "images")
}

func TestCreateContentDocumentWithURL(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"notes","type":"DOCUMENT","url":"https://example.com/doc"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "url")
}

func TestCreateContentBadURLFormat(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"Go blog","type":"LINK","url":"not a url"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "must be a valid URL", env.Error["url"])
}

func TestCreateContentUnknownType(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"x","type":"PODCAST"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "type")
}

func TestCreateContentTitleTooLong(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	long := strings.Repeat("a", 101)
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"`+long+`","type":"OTHER"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "title")
}

func TestCreateContentImageWithImages(t *testing.T) {
	repo := newMemContentRepo()
	r := newContentRouter(repo)

	w, env := doJSON(t, r, http.MethodPost, "/api/v1/content",
		`{"title":"pics","type":"IMAGE","images":[{"publicId":"content-images/user-1/a.png","url":"https://cdn.example.com/a.png"}]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"publicId":"content-images/user-1/a.png"`)
}

func TestGetOneNotOwned(t *testing.T) {
	repo := newMemContentRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Content{
		Title: "theirs", Type: entity.ContentTypeOther, UserID: "user-2",
	}))
	r := newContentRouter(repo)

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/content/content-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "content not found", env.Message)
}

func TestUpdateNotSupported(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodPut, "/api/v1/content/content-1", `{"title":"new"}`)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "content update is not supported", env.Message)
}

func TestDeleteNotOwned(t *testing.T) {
	repo := newMemContentRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Content{
		Title: "theirs", Type: entity.ContentTypeOther, UserID: "user-2",
	}))
	r := newContentRouter(repo)

	w, env := doJSON(t, r, http.MethodDelete, "/api/v1/content/content-1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "content not found or you don't have permission to delete it", env.Message)
}

func TestDeleteOwned(t *testing.T) {
	repo := newMemContentRepo()
	require.NoError(t, repo.Create(context.Background(), &entity.Content{
		Title: "mine", Type: entity.ContentTypeOther, UserID: "user-1",
	}))
	r := newContentRouter(repo)

	w, env := doJSON(t, r, http.MethodDelete, "/api/v1/content/content-1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Empty(t, repo.contents)
}

func TestSearchRequiresQuery(t *testing.T) {
	r := newContentRouter(newMemContentRepo())

	w, env := doJSON(t, r, http.MethodGet, "/api/v1/content/search", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Error, "q")
}
