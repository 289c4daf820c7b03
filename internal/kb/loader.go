// File path: internal/kb/loader.go
package kb

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sunward/solsite/internal/common"
)

// DefaultSource labels chunks from the bundled grid document.
const DefaultSource = "California ISO Interconnection Queue Summary 2023"

// LoadDir reads every .txt file under dir and splits it into chunks. The
// first line of a document is used as its source label when present.
func LoadDir(dir string) ([]Doc, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledge dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var docs []Doc
	for _, name := range names {
		path := filepath.Join(dir, name)
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		text := string(raw)
		source := sourceLabel(text, name)
		chunks, err := SplitDocument(source, name, text)
		if err != nil {
			return nil, err
		}
		common.Logger().Info("kb: loaded document", "path", path, "chunks", len(chunks))
		docs = append(docs, chunks...)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no .txt documents under %s", dir)
	}
	return docs, nil
}

func sourceLabel(text, fallback string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	line = strings.TrimSpace(line)
	// Short title lines only; a long first line is body text.
	if line == "" || len(line) > 120 {
		return fallback
	}
	return line
}
