package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Process summarizes one audio file and writes <name>.md and <name>.docx to
// the output folder. The source is archived only after both are written.
func (p *implProcessor) Process(ctx context.Context, path string) error {
	startTime := time.Now()
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting audio processing: %s", path)
	p.logger.Info(ctx, "========================================")

	rec, err := p.prepareAudio(ctx, path)
	if err != nil {
		return fmt.Errorf("prepare audio: %w", err)
	}
	defer p.cleanupTempFile(ctx, rec)

	summary, err := p.summarizer.Summarize(ctx, rec, p.cfg.Instruction.Default)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	if err := os.MkdirAll(p.cfg.Paths.Output, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	mdPath := filepath.Join(p.cfg.Paths.Output, name+".md")
	md := fmt.Sprintf("# %s\n\n_%s_\n\n%s\n",
		name,
		startTime.Format("2006-01-02 15:04"),
		strings.TrimSpace(summary),
	)
	if err := os.WriteFile(mdPath, []byte(md), 0644); err != nil {
		return fmt.Errorf("write markdown: %w", err)
	}

	docxPath := filepath.Join(p.cfg.Paths.Output, name+".docx")
	if err := markdownToDocx(name, summary, docxPath); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}

	if err := p.moveToArchived(ctx, path); err != nil {
		p.logger.Warn(ctx, "Failed to move original to archived folder: %v", err)
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Processing completed successfully!")
	p.logger.Info(ctx, "Output summary: %s", mdPath)
	p.logger.Info(ctx, "Output document: %s", docxPath)
	p.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	p.logger.Info(ctx, "========================================")

	return nil
}
