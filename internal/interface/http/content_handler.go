package handlers

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	contentapp "github.com/letmerecall/server/internal/application"
	"github.com/letmerecall/server/internal/domain/entity"
	"github.com/letmerecall/server/internal/domain/repository"
	"github.com/letmerecall/server/internal/interface/middleware"
	"github.com/letmerecall/server/pkg/helpers"
	"github.com/letmerecall/server/pkg/response"
	"github.com/letmerecall/server/pkg/validation"
)

type ContentHandler struct {
	Svc       *contentapp.ContentService
	Logger    *logrus.Logger
	GCS       *storage.Client
	GCSBucket string
}

func NewContentHandler(svc *contentapp.ContentService, logger *logrus.Logger, gcs *storage.Client, gcsBucket string) *ContentHandler {
	return &ContentHandler{Svc: svc, Logger: logger, GCS: gcs, GCSBucket: gcsBucket}
}

type contentImageRequest struct {
	PublicID string `json:"publicId" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
}

// createContentRequest carries no binding tag on URL: blank strings are
// normalized to absent before the format check, matching the cross-field
// rules below.
type createContentRequest struct {
	Title       string                `json:"title" binding:"required,min=1,max=100"`
	Type        string                `json:"type" binding:"required,oneof=LINK YOUTUBE TWEET DOCUMENT IMAGE OTHER"`
	Description string                `json:"description" binding:"omitempty,max=500"`
	URL         string                `json:"url"`
	Images      []contentImageRequest `json:"images" binding:"omitempty,dive"`
}

// crossFieldErrors applies the type-conditional rules after per-field
// validation passed. All violations are collected, none short-circuits:
// (a) url required for LINK/YOUTUBE/TWEET
// (b) at least one image required for IMAGE
// (c) url forbidden for IMAGE/DOCUMENT
func (r *createContentRequest) crossFieldErrors() map[string]string {
	errs := map[string]string{}
	url := strings.TrimSpace(r.URL)

	switch r.Type {
	case entity.ContentTypeLink, entity.ContentTypeYouTube, entity.ContentTypeTweet:
		if url == "" {
			errs["url"] = "URL is required for LINK, YOUTUBE, and TWEET content types"
		}
	case entity.ContentTypeImage:
		if len(r.Images) == 0 {
			errs["images"] = "at least one image is required for IMAGE content type"
		}
	}

	switch r.Type {
	case entity.ContentTypeImage, entity.ContentTypeDocument:
		if url != "" {
			errs["url"] = "URL should not be provided for " + r.Type + " content type"
		}
	}

	if url != "" && errs["url"] == "" && !validation.IsURL(url) {
		errs["url"] = "must be a valid URL"
	}
	return errs
}

func contentJSON(c *entity.Content) gin.H {
	images := make([]gin.H, 0, len(c.Images))
	for _, img := range c.Images {
		images = append(images, gin.H{
			"id":        img.ID,
			"publicId":  img.PublicID,
			"url":       img.URL,
			"contentId": img.ContentID,
		})
	}
	return gin.H{
		"id":          c.ID,
		"title":       c.Title,
		"type":        c.Type,
		"description": c.Description,
		"url":         c.URL,
		"userId":      c.UserID,
		"createdAt":   c.CreatedAt,
		"images":      images,
	}
}

// Create POST /api/v1/content
func (h *ContentHandler) Create(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)

	var req createContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "validation error", validation.ToDetails(err))
		return
	}
	if errs := req.crossFieldErrors(); len(errs) > 0 {
		response.Error(c, http.StatusBadRequest, "validation error", errs)
		return
	}

	images := make([]entity.ContentImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, entity.ContentImage{PublicID: img.PublicID, URL: img.URL})
	}

	content, err := h.Svc.Create(c.Request.Context(), uid, contentapp.CreateInput{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		URL:         strings.TrimSpace(req.URL),
		Images:      images,
	})
	if err != nil {
		h.Logger.WithError(err).Error("create content failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	response.Success(c, http.StatusOK, contentJSON(content), "content created successfully")
}

// List GET /api/v1/content
func (h *ContentHandler) List(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	contents, err := h.Svc.List(c.Request.Context(), uid)
	if err != nil {
		h.Logger.WithError(err).Error("list content failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	out := make([]gin.H, 0, len(contents))
	for i := range contents {
		out = append(out, contentJSON(&contents[i]))
	}
	response.Success(c, http.StatusOK, out, "contents")
}

// GetOne GET /api/v1/content/:id
func (h *ContentHandler) GetOne(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	content, err := h.Svc.GetOne(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusBadRequest, "content not found", nil)
			return
		}
		h.Logger.WithError(err).Error("get content failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	response.Success(c, http.StatusOK, contentJSON(content), "content")
}

// Update PUT /api/v1/content/:id
// Content update is intentionally not supported.
func (h *ContentHandler) Update(c *gin.Context) {
	response.Error(c, http.StatusMethodNotAllowed, "content update is not supported", nil)
}

// Delete DELETE /api/v1/content/:id
// Not-owned and nonexistent ids produce identical responses.
func (h *ContentHandler) Delete(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	if err := h.Svc.Delete(c.Request.Context(), uid, c.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(c, http.StatusNotFound, "content not found or you don't have permission to delete it", nil)
			return
		}
		h.Logger.WithError(err).Error("delete content failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true}, "content deleted successfully")
}

// Search GET /api/v1/content/search?q=
func (h *ContentHandler) Search(c *gin.Context) {
	uid := c.GetString(middleware.CtxUserIDKey)
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "validation error", map[string]string{"q": "is required"})
		return
	}
	hits, err := h.Svc.Search(c.Request.Context(), uid, q, 20)
	if err != nil {
		h.Logger.WithError(err).Error("content search failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results")
}

// UploadImage POST /api/v1/content/images (multipart field "image")
// Stores the file in GCS and returns the {publicId, url} pair that an IMAGE
// content creation request references.
func (h *ContentHandler) UploadImage(c *gin.Context) {
	if h.GCS == nil || h.GCSBucket == "" {
		response.Error(c, http.StatusInternalServerError, "image storage not configured", nil)
		return
	}
	uid := c.GetString(middleware.CtxUserIDKey)

	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "validation error", map[string]string{"image": "is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "could not read uploaded file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	objectPath := filepath.ToSlash(filepath.Join("content-images", uid, uuid.NewString()+ext))
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := helpers.UploadObject(c.Request.Context(), h.GCS, h.GCSBucket, objectPath, contentType, f)
	if err != nil {
		h.Logger.WithError(err).Error("image upload failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong, please try again later", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"publicId": objectPath, "url": url}, "image uploaded")
}
