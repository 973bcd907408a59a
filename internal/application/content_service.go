package application

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
)

// ContentService handles owner-scoped content CRUD. Elasticsearch indexing
// is best-effort: the database stays the source of truth, a failed index
// write is logged and the request still succeeds.
type ContentService struct {
	Repo    repository.ContentRepository
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewContentService(repo repository.ContentRepository, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ContentService {
	return &ContentService{Repo: repo, Logger: logger, ES: es, ESIndex: esIndex}
}

// CreateInput is the validated payload accepted by Create. Validation
// (field rules and the type-conditional url/images rules) happens at the
// HTTP boundary before this struct is built.
type CreateInput struct {
	Title       string
	Type        string
	Description string
	URL         string
	Images      []entity.ContentImage
}

func (s *ContentService) Create(ctx context.Context, userID string, in CreateInput) (*entity.Content, error) {
	c := &entity.Content{
		Title:       in.Title,
		Type:        in.Type,
		Description: in.Description,
		URL:         in.URL,
		UserID:      userID,
		Images:      in.Images,
	}
	if err := s.Repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.index(ctx, c)
	return c, nil
}

func (s *ContentService) List(ctx context.Context, userID string) ([]entity.Content, error) {
	return s.Repo.ListByOwner(ctx, userID)
}

func (s *ContentService) GetOne(ctx context.Context, userID, id string) (*entity.Content, error) {
	return s.Repo.GetByOwnerAndID(ctx, userID, id)
}

func (s *ContentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.Repo.DeleteByOwnerAndID(ctx, userID, id); err != nil {
		return err
	}
	s.deindex(ctx, id)
	return nil
}

func (s *ContentService) index(ctx context.Context, c *entity.Content) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	doc := map[string]any{
		"id":          c.ID,
		"user_id":     c.UserID,
		"title":       c.Title,
		"type":        c.Type,
		"description": c.Description,
		"url":         c.URL,
		"created_at":  c.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: c.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("content_id", c.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("content_id", c.ID).Warn("es index response error")
	}
}

func (s *ContentService) deindex(ctx context.Context, id string) {
	if s.ES == nil || s.ESIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESIndex, DocumentID: id}
	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(cctx, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("content_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match over title and description, filtered to the
// caller's own documents. Returns raw source documents.
func (s *ContentService) Search(ctx context.Context, userID, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"must": map[string]any{
					"multi_match": map[string]any{
						"query":  q,
						"fields": []string{"title^2", "description"},
					},
				},
				"filter": map[string]any{
					"term": map[string]any{"user_id": userID},
				},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	cctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(
		s.ES.Search.WithContext(cctx),
		s.ES.Search.WithIndex(s.ESIndex),
		s.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
