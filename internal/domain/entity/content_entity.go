package entity

import "time"

// Content types. URL is required for LINK/YOUTUBE/TWEET and forbidden for
// IMAGE/DOCUMENT; IMAGE content must carry at least one image.
const (
	ContentTypeLink     = "LINK"
	ContentTypeYouTube  = "YOUTUBE"
	ContentTypeTweet    = "TWEET"
	ContentTypeDocument = "DOCUMENT"
	ContentTypeImage    = "IMAGE"
	ContentTypeOther    = "OTHER"
)

// ContentTypes lists every valid content type.
var ContentTypes = []string{
	ContentTypeLink, ContentTypeYouTube, ContentTypeTweet,
	ContentTypeDocument, ContentTypeImage, ContentTypeOther,
}

// Content is a saved item owned by a single user.
type Content struct {
	ID          string
	Title       string
	Type        string
	Description string
	URL         string
	UserID      string
	CreatedAt   time.Time
	Images      []ContentImage
}

// ContentImage references an uploaded asset. PublicId is the storage object
// path; ContentID stays empty until the image is linked to its parent.
type ContentImage struct {
	ID        string
	PublicID  string
	URL       string
	UserID    string
	ContentID string
}
