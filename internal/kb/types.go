// File path: internal/kb/types.go
package kb

import (
	"fmt"
	"strings"
)

// Doc is a knowledge base document chunk ready for indexing.
type Doc struct {
	ID      string `json:"id"`
	Source  string `json:"source"`
	Path    string `json:"path"`
	Chunk   int    `json:"chunk"`
	Content string `json:"content"`
}

func buildDocID(path string, chunk int) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "unknown"
	}
	return fmt.Sprintf("%s:%d", path, chunk)
}
