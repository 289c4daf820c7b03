// File path: internal/kb/splitter.go
package kb

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"
)

const (
	defaultChunkSize    = 500
	defaultChunkOverlap = 50
)

// SplitDocument splits raw document text into overlapping chunks. The
// recursive splitter prefers paragraph breaks, then sentence breaks, so
// chunks stay readable when quoted back as context.
func SplitDocument(source, path, text string) ([]Doc, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(defaultChunkSize),
		textsplitter.WithChunkOverlap(defaultChunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " "}),
	)
	chunks, err := splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("split %s: %w", path, err)
	}

	docs := make([]Doc, 0, len(chunks))
	for i, chunk := range chunks {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		docs = append(docs, Doc{
			ID:      buildDocID(path, i),
			Source:  source,
			Path:    path,
			Chunk:   i,
			Content: chunk,
		})
	}
	return docs, nil
}
