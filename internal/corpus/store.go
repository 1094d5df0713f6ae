package corpus

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KaramelBytes/tablerag-cli/internal/utils"
)

// Save writes the corpus as indented JSON with an atomic rename, so a
// partially written file never replaces a good one.
func Save(path string, docs []Document) error {
	if err := utils.WriteJSON(path, docs); err != nil {
		return fmt.Errorf("save corpus: %w", err)
	}
	return nil
}

// Load reads a previously saved corpus.
func Load(path string) ([]Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var docs []Document
	if err := json.Unmarshal(b, &docs); err != nil {
		return nil, fmt.Errorf("decode corpus: %w", err)
	}
	return docs, nil
}
