package synblog

import (
	"github.com/eringen/synblog/syn"
)

// Post is a stored document together with its address and visibility.
// Lists built from the index hold metadata only: Elements is empty.
type Post struct {
	Slug      string
	Published bool
	*syn.Document
}

// Link returns the site-relative URL of the post.
func (p Post) Link() string {
	return "/blog/" + p.Slug + "/"
}

// Date returns the posted day as YYYY-MM-DD in UTC.
func (p Post) Date() string {
	return p.PostedTime().UTC().Format("2006-01-02")
}

// VisibleTags returns the tags without empty entries.
func (p Post) VisibleTags() []string {
	return FilterEmpty(p.Tags)
}

// Image is an uploaded picture that posts reference with .img lines.
type Image struct {
	Filename     string
	OriginalName string
	Width        int
	Height       int
	Size         int
	UploadedAt   string
}

// URL returns the public path of the image.
func (img Image) URL() string {
	return "/public/" + uploadsSubdir + "/" + img.Filename
}

// Element returns an image element pointing at img.
func (img Image) Element(alt, style string) syn.Image {
	return syn.Image{Path: img.URL(), Alt: alt, Style: style}
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
}
