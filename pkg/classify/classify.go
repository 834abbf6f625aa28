// Package classify guesses whether a URL points at an image or a plain link.
package classify

import (
	"mime"
	"net/url"
	"path"
	"strings"
)

// Kind is the classification of a URL
type Kind int

const (
	Image Kind = iota
	Link
)

// Kinds lists every Kind in rendering order
var Kinds = []Kind{Image, Link}

func (k Kind) String() string {
	if k == Image {
		return "image"
	}
	return "link"
}

// Title returns the capitalized name used in report labels
func (k Kind) Title() string {
	if k == Image {
		return "Image"
	}
	return "Link"
}

// Classify infers a media type from the extension of rawURL's path. URLs whose
// type has top-level category "image" are images; anything else, including
// URLs with no recognisable extension, is a link.
func Classify(rawURL string) Kind {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}

	ext := path.Ext(p)
	if ext == "" {
		return Link
	}

	mediaType := mime.TypeByExtension(ext)
	if mediaType == "" {
		return Link
	}
	if strings.HasPrefix(mediaType, "image/") {
		return Image
	}
	return Link
}
