package service

import (
	"fmt"
	"os"

	"quiz-tube/internal/logger"

	"go.uber.org/zap"
)

// ScratchSpace hands out private working directories under a shared root.
type ScratchSpace struct {
	root string
}

func NewScratchSpace(root string) (*ScratchSpace, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch root %s: %w", root, err)
	}
	return &ScratchSpace{root: root}, nil
}

// Create makes a fresh directory for one run. The returned release func removes it and
// everything inside; it is safe to call more than once.
func (s *ScratchSpace) Create(prefix string) (string, func(), error) {
	dir, err := os.MkdirTemp(s.root, prefix+"-*")
	if err != nil {
		return "", func() {}, fmt.Errorf("failed to create scratch directory: %w", err)
	}
	release := func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Get().Warn("Failed to remove scratch directory", zap.String("dir", dir), zap.Error(err))
		}
	}
	return dir, release, nil
}
