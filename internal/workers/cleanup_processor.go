// internal/workers/cleanup_processor.go
package workers

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"github.com/insyd/inventory-api/internal/pkg/config"
)

// CleanupProcessor removes leftover temp files from the data directory.
// The store writes through temp files that are renamed into place; a
// crash between write and rename can leave one behind.
type CleanupProcessor struct {
	config *config.Config
	logger *slog.Logger
}

// NewCleanupProcessor creates a new cleanup processor
func NewCleanupProcessor(cfg *config.Config, logger *slog.Logger) *CleanupProcessor {
	return &CleanupProcessor{
		config: cfg,
		logger: logger.With(slog.String("processor", "cleanup")),
	}
}

// CleanupTempFiles removes stale temp files next to the data file
func (p *CleanupProcessor) CleanupTempFiles(ctx context.Context, t *asynq.Task) error {
	dataDir := filepath.Dir(p.config.Store.FilePath)
	maxAge := 24 * time.Hour

	p.logger.InfoContext(ctx, "cleaning up temp files",
		slog.String("dir", dataDir))

	var deletedCount int
	err := filepath.Walk(dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasPrefix(info.Name(), ".inventory-") {
			return nil
		}

		if time.Since(info.ModTime()) > maxAge {
			if err := os.Remove(path); err != nil {
				p.logger.WarnContext(ctx, "failed to delete temp file",
					slog.String("file", path),
					slog.String("error", err.Error()))
			} else {
				deletedCount++
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk data directory: %w", err)
	}

	p.logger.InfoContext(ctx, "temp files cleaned up",
		slog.Int("files_deleted", deletedCount))

	return nil
}
