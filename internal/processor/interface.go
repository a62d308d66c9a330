package processor

import "context"

// Processor turns one dropped audio file into Markdown and DOCX summaries.
type Processor interface {
	Process(ctx context.Context, path string) error
}
