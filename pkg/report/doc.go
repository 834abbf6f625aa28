// Package report turns ranked comments into the markdown roundup post.
//
// Each comment that links to something becomes a numbered entry: a header
// linking the comment with its author and score, then an indented line of
// numbered references grouped by kind, images first. Every image URL is also
// collected into a flat list printed after the entries.
//
// Build is pure and returns the structured Report. A Renderer produces the
// same Report while writing each entry to its io.Writer as soon as it is built.
package report
