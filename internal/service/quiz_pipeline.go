package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"
	"quiz-tube/internal/util"
	"quiz-tube/internal/video"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

// QuizGenerator produces an unvalidated quiz from a transcript.
type QuizGenerator interface {
	Generate(ctx context.Context, transcript domain.Transcript) (*domain.RawQuizPayload, error)
}

// QuizValidator turns a raw payload into a draft or rejects it.
type QuizValidator interface {
	Validate(payload *domain.RawQuizPayload) (*domain.QuizDraft, error)
}

// QuizPipeline turns a YouTube reference into a validated quiz draft:
// identify, fetch audio, transcribe, generate, validate. It never persists anything.
type QuizPipeline struct {
	audio       domain.AudioSource
	speech      domain.SpeechRecognizer
	generator   QuizGenerator
	validator   QuizValidator
	transcripts *TranscriptCache
	scratch     *ScratchSpace
	cfg         config.PipelineConfig
	logger      *zap.Logger

	fetchSlots *semaphore.Weighted
	inflight   singleflight.Group
}

// NewQuizPipeline wires the pipeline stages. transcripts may be nil to disable caching.
func NewQuizPipeline(
	audio domain.AudioSource,
	speech domain.SpeechRecognizer,
	generator QuizGenerator,
	validator QuizValidator,
	transcripts *TranscriptCache,
	scratch *ScratchSpace,
	cfg config.PipelineConfig,
	logger *zap.Logger,
) *QuizPipeline {
	slots := cfg.MaxConcurrentFetches
	if slots <= 0 {
		slots = 1
	}
	return &QuizPipeline{
		audio:       audio,
		speech:      speech,
		generator:   generator,
		validator:   validator,
		transcripts: transcripts,
		scratch:     scratch,
		cfg:         cfg,
		logger:      logger,
		fetchSlots:  semaphore.NewWeighted(slots),
	}
}

// Run executes one pipeline run for url on behalf of ownerID.
func (p *QuizPipeline) Run(ctx context.Context, url string, ownerID string) (*domain.QuizDraft, error) {
	l := p.logger.With(zap.String("run_id", util.NewULID()), zap.String("owner_id", ownerID))
	start := time.Now()

	ref, err := video.ExtractID(url)
	if err != nil {
		l.Info("Rejected video reference", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	l = l.With(zap.String("video_id", ref.String()))
	l.Info("Quiz pipeline started")

	transcript, err := p.transcript(ctx, ref, l)
	if err != nil {
		l.Warn("Quiz pipeline failed", zap.Error(err))
		return nil, err
	}

	draft, err := p.generateQuiz(ctx, transcript, l)
	if err != nil {
		l.Warn("Quiz pipeline failed", zap.Error(err))
		return nil, err
	}
	draft.VideoURL = video.WatchURL(ref)

	l.Info("Quiz pipeline finished", zap.Duration("duration", time.Since(start)))
	return draft, nil
}

// transcript returns the cached transcript for ref or produces one. Concurrent runs for
// the same video share a single fetch and transcription. The shared work is detached from
// every caller's cancellation and bounded by the stage timeouts. A caller whose own context
// ends while waiting gives up with a fetch-stage error and leaves the work to the others.
func (p *QuizPipeline) transcript(ctx context.Context, ref domain.VideoReference, l *zap.Logger) (domain.Transcript, error) {
	if t, ok := p.transcripts.Get(ctx, ref); ok {
		l.Info("Transcript cache hit")
		return t, nil
	}

	shared := context.WithoutCancel(ctx)
	ch := p.inflight.DoChan(ref.String(), func() (interface{}, error) {
		t, err := p.fetchAndTranscribe(shared, ref, l)
		if err != nil {
			return nil, err
		}
		p.transcripts.Put(shared, ref, t)
		return t, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			l.Debug("Joined an in-flight transcription")
		}
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(domain.Transcript), nil
	case <-ctx.Done():
		l.Info("Stopped waiting for transcription", zap.Error(ctx.Err()))
		return "", stageError(domain.StageFetch, domain.KindDownload, ctx.Err())
	}
}

// fetchAndTranscribe owns the run's scratch directory. The directory, and the audio inside
// it, is removed before this returns on every path.
func (p *QuizPipeline) fetchAndTranscribe(ctx context.Context, ref domain.VideoReference, l *zap.Logger) (domain.Transcript, error) {
	if err := p.fetchSlots.Acquire(ctx, 1); err != nil {
		return "", stageError(domain.StageFetch, domain.KindDownload, err)
	}
	defer p.fetchSlots.Release(1)

	dir, release, err := p.scratch.Create(ref.String())
	if err != nil {
		return "", domain.NewDownloadError("scratch directory unavailable", err)
	}
	defer release()

	artifact, err := RetryDo(ctx, p.retryConfig(p.cfg.DownloadRetries), l, isRetryableDownload,
		func(ctx context.Context) (*domain.AudioArtifact, error) {
			fetchCtx, cancel := withTimeout(ctx, p.cfg.FetchTimeout)
			defer cancel()
			a, err := p.audio.Fetch(fetchCtx, ref, dir)
			if err != nil {
				return nil, stageError(domain.StageFetch, domain.KindDownload, err)
			}
			return a, nil
		})
	if err != nil {
		return "", stageError(domain.StageFetch, domain.KindDownload, err)
	}

	transcribeCtx, cancel := withTimeout(ctx, p.cfg.TranscribeTimeout)
	defer cancel()
	t, err := p.speech.Transcribe(transcribeCtx, artifact)
	if err != nil {
		return "", stageError(domain.StageTranscribe, domain.KindTranscription, err)
	}
	l.Info("Transcript ready", zap.Int("transcript_length", len(t)))
	return t, nil
}

// generateQuiz re-prompts the model when its output cannot be parsed or fails validation.
// Backend errors are retried with backoff inside each attempt.
func (p *QuizPipeline) generateQuiz(ctx context.Context, transcript domain.Transcript, l *zap.Logger) (*domain.QuizDraft, error) {
	var lastErr error

	for attempt := 0; attempt <= p.cfg.RegenerateAttempts; attempt++ {
		if attempt > 0 {
			if err := ctx.Err(); err != nil {
				return nil, lastErr
			}
			l.Info("Re-prompting for a new quiz", zap.Int("attempt", attempt+1), zap.Error(lastErr))
		}

		payload, err := RetryDo(ctx, p.retryConfig(p.cfg.GenerationRetries), l, isRetryableGeneration,
			func(ctx context.Context) (*domain.RawQuizPayload, error) {
				genCtx, cancel := withTimeout(ctx, p.cfg.GenerateTimeout)
				defer cancel()
				payload, err := p.generator.Generate(genCtx, transcript)
				if err != nil {
					return nil, stageError(domain.StageGenerate, domain.KindGeneration, err)
				}
				return payload, nil
			})
		if err != nil {
			err = stageError(domain.StageGenerate, domain.KindGeneration, err)
			if errors.Is(err, domain.ErrMalformedOutput) || errors.Is(err, domain.ErrValidation) {
				lastErr = err
				continue
			}
			return nil, err
		}

		draft, err := p.validator.Validate(payload)
		if err != nil {
			err = stageError(domain.StageValidate, domain.KindValidation, err)
			if errors.Is(err, domain.ErrValidation) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return draft, nil
	}
	return nil, lastErr
}

func (p *QuizPipeline) retryConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:  maxRetries,
		InitialWait: p.cfg.RetryInitialWait,
		MaxWait:     p.cfg.RetryMaxWait,
		Multiplier:  2,
	}
}

func isRetryableDownload(err error) bool {
	var pe *domain.PipelineError
	return errors.As(err, &pe) && pe.Kind == domain.KindDownload && !pe.Permanent
}

func isRetryableGeneration(err error) bool {
	var pe *domain.PipelineError
	return errors.As(err, &pe) && pe.Kind == domain.KindGeneration
}

// stageError keeps pipeline errors as they are and classifies anything else under kind.
func stageError(stage domain.Stage, kind domain.ErrorKind, err error) error {
	var pe *domain.PipelineError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeoutError(stage, kind, err)
	}
	reason := fmt.Sprintf("%s failed", stage)
	if errors.Is(err, context.Canceled) {
		reason = "cancelled"
	}
	return &domain.PipelineError{Stage: stage, Kind: kind, Reason: reason, Err: err}
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
