// Package video extracts YouTube video IDs from the URL shapes users paste.
package video

import (
	"regexp"
	"strings"

	"quiz-tube/internal/domain"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

var (
	bareIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// The ID must follow the marker directly and must not run on into another ID character.
	urlPattern = regexp.MustCompile(
		`^(?:https?://)?(?:www\.|m\.)?` +
			`(?:youtube\.com/watch\?(?:[^#\s]*&)?v=|youtube\.com/shorts/|youtu\.be/)` +
			`([A-Za-z0-9_-]{11})(?:[^A-Za-z0-9_-]|$)`,
	)
)

// ExtractID returns the video ID contained in raw, which may be a bare 11-character ID or a
// watch, shorts or youtu.be URL.
func ExtractID(raw string) (domain.VideoReference, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", domain.NewInvalidReferenceError("empty video reference")
	}
	if bareIDPattern.MatchString(s) {
		return domain.VideoReference(s), nil
	}
	m := urlPattern.FindStringSubmatch(s)
	if m == nil {
		return "", domain.NewInvalidReferenceError("no video id found")
	}
	return domain.VideoReference(m[1]), nil
}

// WatchURL is the canonical URL stored with a quiz.
func WatchURL(ref domain.VideoReference) string {
	return watchURLPrefix + string(ref)
}
