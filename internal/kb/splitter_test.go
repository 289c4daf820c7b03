// File path: internal/kb/splitter_test.go
package kb

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSplitDocumentChunksAndIDs(t *testing.T) {
	para := strings.Repeat("Interconnection studies cover deliverability and upgrades. ", 20)
	text := para + "\n\n" + para

	docs, err := SplitDocument("Test Source", "doc.txt", text)
	if err != nil {
		t.Fatalf("SplitDocument: %v", err)
	}
	if len(docs) < 2 {
		t.Fatalf("chunks = %d, want several from long text", len(docs))
	}
	for i, doc := range docs {
		if doc.Source != "Test Source" {
			t.Fatalf("chunk %d source = %q", i, doc.Source)
		}
		if doc.ID != buildDocID("doc.txt", doc.Chunk) {
			t.Fatalf("chunk %d id = %q", i, doc.ID)
		}
		if len(doc.Content) > 600 {
			t.Fatalf("chunk %d length %d exceeds size plus slack", i, len(doc.Content))
		}
	}
}

func TestSplitDocumentEmptyText(t *testing.T) {
	docs, err := SplitDocument("s", "p", "   \n  ")
	if err != nil {
		t.Fatalf("SplitDocument: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("chunks = %d, want 0", len(docs))
	}
}

func TestLoadDirUsesTitleAsSource(t *testing.T) {
	dir := t.TempDir()
	body := "Regional Grid Notes\n\n" +
		strings.Repeat("Queue positions improve with storage. ", 30)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("# no"), 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadDir(dir)
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(docs) == 0 {
		t.Fatal("no chunks loaded")
	}
	if docs[0].Source != "Regional Grid Notes" {
		t.Fatalf("source = %q", docs[0].Source)
	}
	if docs[0].Path != "notes.txt" {
		t.Fatalf("path = %q", docs[0].Path)
	}
}

func TestLoadDirEmpty(t *testing.T) {
	if _, err := LoadDir(t.TempDir()); err == nil {
		t.Fatal("expected error for empty dir")
	}
}
