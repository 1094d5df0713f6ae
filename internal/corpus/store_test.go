package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	docs := buildFixture(t)
	path := filepath.Join(t.TempDir(), "corpus.json")

	if err := Save(path, docs); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind after save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(docs) {
		t.Fatalf("loaded %d documents, want %d", len(loaded), len(docs))
	}
	for i := range docs {
		if loaded[i].Content != docs[i].Content {
			t.Fatalf("content differs at document %d", i)
		}
		if loaded[i].Type() != docs[i].Type() {
			t.Fatalf("doc_type differs at document %d", i)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatalf("expected error for missing corpus file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected decode error")
	}
}
