// Package audio downloads video audio tracks with the yt-dlp binary.
package audio

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"quiz-tube/internal/domain"
	"quiz-tube/internal/logger"
	"quiz-tube/internal/video"

	"go.uber.org/zap"
)

const outputBaseName = "audio"

// YtDlpConfig holds the command line options passed to yt-dlp.
type YtDlpConfig struct {
	Format     string
	NoPlaylist bool
	Quiet      bool
}

// DefaultYtDlpConfig picks the best audio-only stream and never expands playlists.
func DefaultYtDlpConfig() YtDlpConfig {
	return YtDlpConfig{
		Format:     "bestaudio/best",
		NoPlaylist: true,
		Quiet:      true,
	}
}

// BuildArgs returns the yt-dlp arguments that download url into dir and print the final path.
func (c YtDlpConfig) BuildArgs(url, dir string) []string {
	args := []string{"--no-config"}
	if c.NoPlaylist {
		args = append(args, "--no-playlist")
	}
	if c.Format != "" {
		args = append(args, "-f", c.Format)
	}
	args = append(args, "--force-overwrites", "--no-progress")
	if c.Quiet {
		args = append(args, "--quiet", "--no-warnings")
	}
	args = append(args,
		"--no-simulate",
		"--print", "after_move:filepath",
		"-o", filepath.Join(dir, outputBaseName+".%(ext)s"),
		url,
	)
	return args
}

// YtDlp implements domain.AudioSource by shelling out to yt-dlp.
type YtDlp struct {
	path   string
	config YtDlpConfig
}

var _ domain.AudioSource = (*YtDlp)(nil)

func NewYtDlp(path string, cfg YtDlpConfig) *YtDlp {
	if path == "" {
		path = "yt-dlp"
	}
	return &YtDlp{path: path, config: cfg}
}

// Fetch implements domain.AudioSource.
func (y *YtDlp) Fetch(ctx context.Context, ref domain.VideoReference, dir string) (*domain.AudioArtifact, error) {
	l := logger.Get().With(zap.String("video_id", ref.String()))
	start := time.Now()

	cmd := exec.CommandContext(ctx, y.path, y.config.BuildArgs(video.WatchURL(ref), dir)...)
	cmd.WaitDelay = 2 * time.Second
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, domain.NewTimeoutError(domain.StageFetch, domain.KindDownload, ctx.Err())
			}
			return nil, domain.NewDownloadError("cancelled", ctx.Err())
		}
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
			return nil, domain.NewPermanentDownloadError("yt-dlp binary not found", err)
		}
		l.Warn("yt-dlp failed", zap.Error(err), zap.String("stderr", strings.TrimSpace(stderr.String())))
		return nil, classifyFailure(stderr.String(), err)
	}

	path, err := resolveOutput(stdout.String(), dir)
	if err != nil {
		return nil, err
	}

	l.Info("Audio downloaded", zap.String("path", path), zap.Duration("duration", time.Since(start)))
	return &domain.AudioArtifact{VideoID: ref, Path: path}, nil
}

var permanentFailures = []struct {
	marker string
	reason string
}{
	{"Private video", "private video"},
	{"Sign in to confirm your age", "age restricted"},
	{"age-restricted", "age restricted"},
	{"Requested format is not available", "no audio stream"},
	{"Video unavailable", "video unavailable"},
	{"This video is unavailable", "video unavailable"},
	{"Incomplete YouTube ID", "video unavailable"},
}

var networkMarkers = []string{
	"Unable to download",
	"HTTP Error",
	"getaddrinfo",
	"Connection reset",
	"timed out",
	"Temporary failure in name resolution",
}

func classifyFailure(stderr string, err error) *domain.PipelineError {
	for _, f := range permanentFailures {
		if strings.Contains(stderr, f.marker) {
			return domain.NewPermanentDownloadError(f.reason, err)
		}
	}
	for _, m := range networkMarkers {
		if strings.Contains(stderr, m) {
			return domain.NewDownloadError("network failure", err)
		}
	}
	return domain.NewDownloadError("download failed", err)
}

// resolveOutput trusts the path yt-dlp printed last and falls back to globbing dir.
func resolveOutput(stdout, dir string) (string, error) {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		if info, err := os.Stat(last); err == nil && !info.IsDir() {
			return last, nil
		}
	}

	matches, err := filepath.Glob(filepath.Join(dir, outputBaseName+".*"))
	if err != nil {
		return "", domain.NewDownloadError("download failed", err)
	}
	for _, m := range matches {
		if strings.HasSuffix(m, ".part") || strings.HasSuffix(m, ".ytdl") {
			continue
		}
		return m, nil
	}
	return "", domain.NewDownloadError("no audio file produced", nil)
}
