package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nguyentantai21042004/audio-brief/internal/audio"
)

// moveToArchived moves the processed source out of the input folder so it
// is not picked up again.
func (p *implProcessor) moveToArchived(ctx context.Context, path string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	dest := filepath.Join(p.cfg.Paths.Archived, filepath.Base(path))

	p.logger.Info(ctx, "Archiving: %s -> %s", path, dest)
	if err := os.Rename(path, dest); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

func (p *implProcessor) cleanupTempFile(ctx context.Context, rec audio.Recording) {
	if !rec.Temporary {
		return
	}
	if err := rec.Remove(); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp file %s: %v", rec.Path, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp file: %s", rec.Path)
	}
}
