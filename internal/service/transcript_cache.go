package service

import (
	"context"
	"errors"
	"time"

	"quiz-tube/internal/cache"
	"quiz-tube/internal/domain"

	"go.uber.org/zap"
)

// TranscriptCache stores transcripts per video ID. Cache faults never fail a run.
type TranscriptCache struct {
	cache  domain.Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewTranscriptCache(c domain.Cache, ttl time.Duration, logger *zap.Logger) *TranscriptCache {
	return &TranscriptCache{cache: c, ttl: ttl, logger: logger}
}

// Get reports whether a transcript for ref was cached.
func (t *TranscriptCache) Get(ctx context.Context, ref domain.VideoReference) (domain.Transcript, bool) {
	if t == nil || t.cache == nil {
		return "", false
	}
	val, err := t.cache.Get(ctx, cache.TranscriptKey(ref.String()))
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			t.logger.Warn("Transcript cache read failed", zap.String("video_id", ref.String()), zap.Error(err))
		}
		return "", false
	}
	return domain.Transcript(val), true
}

func (t *TranscriptCache) Put(ctx context.Context, ref domain.VideoReference, transcript domain.Transcript) {
	if t == nil || t.cache == nil {
		return
	}
	if err := t.cache.Set(ctx, cache.TranscriptKey(ref.String()), string(transcript), t.ttl); err != nil {
		t.logger.Warn("Transcript cache write failed", zap.String("video_id", ref.String()), zap.Error(err))
	}
}
