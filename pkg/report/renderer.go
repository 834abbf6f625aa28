package report

import (
	"fmt"
	"io"

	"topwayft/pkg/classify"
	"topwayft/pkg/extract"
	"topwayft/pkg/logger"
	"topwayft/pkg/reddit"
)

// Option configures a Renderer
type Option func(*Renderer)

// WithSiteURL sets the base used for comment permalinks
func WithSiteURL(siteURL string) Option {
	return func(r *Renderer) {
		if siteURL != "" {
			r.siteURL = siteURL
		}
	}
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(r *Renderer) {
		r.logger = l
	}
}

// Renderer writes a report entry by entry
type Renderer struct {
	w         io.Writer
	extractor *extract.Extractor
	siteURL   string
	logger    logger.Logger
}

// New creates a Renderer writing to w. A nil extractor uses the default
// anchor pattern.
func New(w io.Writer, extractor *extract.Extractor, opts ...Option) *Renderer {
	if extractor == nil {
		extractor = extract.Default()
	}
	r := &Renderer{
		w:         w,
		extractor: extractor,
		siteURL:   DefaultSiteURL,
		logger:    logger.GetLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render writes an entry for every comment that links to something, then the
// image list. It returns the report it wrote. Output already written stays
// written when a write fails.
func (r *Renderer) Render(comments []*reddit.Comment) (Report, error) {
	b := &builder{extractor: r.extractor, classify: classify.Classify}

	var rep Report
	for _, c := range comments {
		e, ok := b.next(c)
		if !ok {
			r.logger.DebugWithFields("Skipping comment without links", map[string]interface{}{
				"comment_id": c.ID,
			})
			continue
		}

		if _, err := io.WriteString(r.w, e.Markdown(r.siteURL)); err != nil {
			return rep, fmt.Errorf("failed to write entry %d: %w", e.Rank, err)
		}
		rep.Entries = append(rep.Entries, e)
		rep.Images = append(rep.Images, e.Images()...)
	}

	if _, err := io.WriteString(r.w, Trailer(rep.Images)); err != nil {
		return rep, fmt.Errorf("failed to write image list: %w", err)
	}

	r.logger.InfoWithFields("Report written", map[string]interface{}{
		"entries": len(rep.Entries),
		"images":  len(rep.Images),
	})
	return rep, nil
}
