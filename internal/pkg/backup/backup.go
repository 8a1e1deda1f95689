// Package backup copies the persisted store to a timestamped file after
// successful mutations. The copy is an opaque safety net: a failed snapshot
// is logged and swallowed, it never rolls back the mutation that triggered
// it.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/obetrack/outcometrics/internal/pkg/logger"
)

// Snapshotter requests a byte-identical copy of the persisted store.
type Snapshotter interface {
	Snapshot(reason string)
}

// FileSnapshotter copies a store file into a backup directory.
type FileSnapshotter struct {
	sourcePath string
	dir        string
	log        zerolog.Logger
}

// NewFileSnapshotter creates a snapshotter copying sourcePath into dir.
func NewFileSnapshotter(sourcePath, dir string) (*FileSnapshotter, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	return &FileSnapshotter{
		sourcePath: sourcePath,
		dir:        dir,
		log:        logger.WithComponent("backup"),
	}, nil
}

// Snapshot copies the store file to a timestamped backup. Errors are logged
// only; the triggering mutation has already committed.
func (s *FileSnapshotter) Snapshot(reason string) {
	dst, err := s.copy()
	if err != nil {
		s.log.Error().Err(err).Str("reason", reason).Msg("Store snapshot failed")
		return
	}
	s.log.Info().Str("reason", reason).Str("path", dst).Msg("Store snapshot written")
}

func (s *FileSnapshotter) copy() (string, error) {
	src, err := os.Open(s.sourcePath)
	if err != nil {
		return "", fmt.Errorf("failed to open store file: %w", err)
	}
	defer src.Close()

	name := fmt.Sprintf("%s-%s-%s.bak",
		filepath.Base(s.sourcePath),
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
	)
	dstPath := filepath.Join(s.dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create backup file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return "", fmt.Errorf("failed to copy store file: %w", err)
	}
	return dstPath, nil
}

// Noop is used when backups are disabled in configuration.
type Noop struct{}

// Snapshot does nothing.
func (Noop) Snapshot(string) {}
