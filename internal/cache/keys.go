package cache

import "strings"

const (
	GlobalKeyPrefix = "quiztube"
)

// GenerateCacheKey builds "quiztube:<service>:<objectType>:<identifier>".
func GenerateCacheKey(serviceName, objectType, identifier string) string {
	return strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
}

// TranscriptKey is where the transcript of a video is cached.
func TranscriptKey(videoID string) string {
	return GenerateCacheKey("pipeline", "transcript", videoID)
}
