package page

import (
	"strings"

	"github.com/google/uuid"
)

const (
	slugPrefix  = "lp-"
	slugHexLen  = 12
	maxSlugDraw = 5
)

var newUUID = uuid.NewString

// GenerateSlug returns "lp-" followed by the first 12 hex digits of a random UUID.
func GenerateSlug() string {
	return slugPrefix + strings.ReplaceAll(newUUID(), "-", "")[:slugHexLen]
}

// URLPath is the public path a slug is served at.
func URLPath(slug string) string {
	return "/landing/" + slug + "/"
}

// AbsoluteURL joins the configured site URL with the page path.
func AbsoluteURL(siteURL, slug string) string {
	return strings.TrimRight(siteURL, "/") + URLPath(slug)
}
