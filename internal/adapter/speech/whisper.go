// Package speech transcribes audio through a Whisper-compatible HTTP server.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"quiz-tube/internal/config"
	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"

	"go.uber.org/zap"
)

// WhisperClient implements domain.SpeechRecognizer against whisper.cpp's /inference
// endpoint or an OpenAI-compatible /v1/audio/transcriptions endpoint.
type WhisperClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ domain.SpeechRecognizer = (*WhisperClient)(nil)

func NewWhisperClient(cfg config.SpeechConfig, httpClient *http.Client) (*WhisperClient, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("speech endpoint cannot be empty")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &WhisperClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe implements domain.SpeechRecognizer.
func (c *WhisperClient) Transcribe(ctx context.Context, artifact *domain.AudioArtifact) (domain.Transcript, error) {
	if artifact == nil || artifact.Path == "" {
		return "", domain.NewTranscriptionError("no audio artifact", nil)
	}
	l := logger.Get().With(zap.String("video_id", artifact.VideoID.String()))
	start := time.Now()

	body, contentType, err := c.buildForm(artifact.Path)
	if err != nil {
		return "", domain.NewTranscriptionError("unreadable audio file", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", domain.NewTranscriptionError("invalid request", err)
	}
	req.Header.Set("Content-Type", contentType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewTimeoutError(domain.StageTranscribe, domain.KindTranscription, err)
		}
		return "", domain.NewTranscriptionError("speech server unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		l.Warn("Speech server returned an error",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(snippet)))
		return "", domain.NewTranscriptionError(
			fmt.Sprintf("speech server returned status %d", resp.StatusCode), nil)
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.NewTimeoutError(domain.StageTranscribe, domain.KindTranscription, err)
		}
		return "", domain.NewTranscriptionError("undecodable response", err)
	}

	l.Info("Audio transcribed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("transcript_length", len(out.Text)))
	return domain.Transcript(out.Text), nil
}

func (c *WhisperClient) buildForm(path string) (io.Reader, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", err
	}
	if c.model != "" {
		if err := w.WriteField("model", c.model); err != nil {
			return nil, "", err
		}
	}
	if err := w.WriteField("response_format", "json"); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
