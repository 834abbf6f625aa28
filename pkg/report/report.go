package report

import (
	"fmt"
	"strings"

	"topwayft/pkg/classify"
	"topwayft/pkg/extract"
	"topwayft/pkg/reddit"
)

// DefaultSiteURL is prefixed to site-relative comment permalinks
const DefaultSiteURL = "https://www.reddit.com"

const deletedAuthor = "[deleted]"

// Bucket holds the URLs of one kind found in a comment, in document order
type Bucket struct {
	Kind classify.Kind
	URLs []string
}

// Entry is one ranked comment of the report
type Entry struct {
	Rank    int
	Comment *reddit.Comment
	Buckets []Bucket
}

// Report is the structured form of a roundup
type Report struct {
	Entries []Entry
	Images  []string
}

// BuildEntry groups urls by kind. Buckets follow classify.Kinds order and
// empty buckets are left out.
func BuildEntry(rank int, c *reddit.Comment, urls []string, classifyURL func(string) classify.Kind) Entry {
	byKind := make(map[classify.Kind][]string, len(classify.Kinds))
	for _, u := range urls {
		k := classifyURL(u)
		byKind[k] = append(byKind[k], u)
	}

	e := Entry{Rank: rank, Comment: c}
	for _, k := range classify.Kinds {
		if len(byKind[k]) == 0 {
			continue
		}
		e.Buckets = append(e.Buckets, Bucket{Kind: k, URLs: byKind[k]})
	}
	return e
}

// Images returns the entry's image URLs
func (e Entry) Images() []string {
	for _, b := range e.Buckets {
		if b.Kind == classify.Image {
			return b.URLs
		}
	}
	return nil
}

// Author returns the comment author, or [deleted] when it is gone
func (e Entry) Author() string {
	if e.Comment.Author == "" {
		return deletedAuthor
	}
	return e.Comment.Author
}

// Score returns the comment score, zero when unknown
func (e Entry) Score() int {
	if e.Comment.Score == nil {
		return 0
	}
	return *e.Comment.Score
}

// Markdown formats the entry as a list item. The header ends in two spaces so
// markdown keeps the line break, and the references are indented to stay
// inside the list item.
func (e Entry) Markdown(siteURL string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d. [Post](%s) by *%s* (+%d)  \n",
		e.Rank, reddit.PermalinkURL(siteURL, e.Comment.Permalink), e.Author(), e.Score())

	var refs []string
	for _, b := range e.Buckets {
		for i, u := range b.URLs {
			refs = append(refs, fmt.Sprintf("[%s %d](%s)", b.Kind.Title(), i+1, u))
		}
	}
	sb.WriteString("    " + strings.Join(refs, " ") + "\n")
	return sb.String()
}

// builder assigns ranks to comments that produce at least one URL
type builder struct {
	extractor *extract.Extractor
	classify  func(string) classify.Kind
	rank      int
}

func (b *builder) next(c *reddit.Comment) (Entry, bool) {
	urls := b.extractor.URLs(c.BodyHTML)
	if len(urls) == 0 {
		return Entry{}, false
	}
	b.rank++
	return BuildEntry(b.rank, c, urls, b.classify), true
}

// Build produces the report for comments, which are expected in rank order.
// Comments without URLs are skipped and do not consume a rank.
func Build(comments []*reddit.Comment, extractor *extract.Extractor) Report {
	if extractor == nil {
		extractor = extract.Default()
	}
	b := &builder{extractor: extractor, classify: classify.Classify}

	var r Report
	for _, c := range comments {
		e, ok := b.next(c)
		if !ok {
			continue
		}
		r.Entries = append(r.Entries, e)
		r.Images = append(r.Images, e.Images()...)
	}
	return r
}

// Trailer formats the aggregate image list
func Trailer(images []string) string {
	var sb strings.Builder
	sb.WriteString("\n===========\nImage links\n===========\n")
	for _, u := range images {
		sb.WriteString(u + "\n")
	}
	return sb.String()
}
