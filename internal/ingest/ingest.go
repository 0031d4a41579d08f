package ingest

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/finsight-ai/finsight/internal/domain"
	"github.com/finsight-ai/finsight/internal/pdftext"
	"github.com/finsight-ai/finsight/internal/splitter"
)

// File is one uploaded document: its original filename and raw bytes.
type File struct {
	Name string
	Data []byte
}

// ExtractFunc extracts per-page text from a PDF held in memory.
type ExtractFunc func(data []byte) ([]pdftext.Page, error)

// Ingestor turns uploaded PDF files into page-tagged chunks ready for
// indexing. Each chunk's content is prefixed with "[Page N] " (one-based)
// so the page number travels with the text into the retrieval context.
type Ingestor struct {
	split   *splitter.Splitter
	extract ExtractFunc
	logger  *zap.Logger
}

func New(logger *zap.Logger) *Ingestor {
	return &Ingestor{
		split:   splitter.New(splitter.DefaultChunkSize, splitter.DefaultOverlap),
		extract: pdftext.Extract,
		logger:  logger,
	}
}

// Ingest turns every file into tagged chunks. A file that fails to parse
// is logged and skipped; a file with no extractable text contributes zero
// chunks. Neither is an error here: the caller decides whether zero chunks
// overall should be reported to the user.
func (i *Ingestor) Ingest(files []File) []domain.Chunk {
	var chunks []domain.Chunk
	for _, f := range files {
		pages, err := i.extract(f.Data)
		if err != nil {
			i.logger.Warn("skipping unreadable file",
				zap.String("file", f.Name), zap.Error(err))
			continue
		}
		source := filepath.Base(f.Name)
		for _, p := range pages {
			for _, piece := range i.split.Split(p.Text) {
				chunks = append(chunks, domain.Chunk{
					Content: fmt.Sprintf("[Page %d] %s", p.Index+1, piece),
					Page:    p.Index,
					Source:  source,
				})
			}
		}
	}
	return chunks
}
