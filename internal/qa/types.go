package qa

import (
	"context"

	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
)

// Pair is one question/answer pair in the GSM8K training format.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SavedPair is the per-pair artifact persisted during a pipeline run. It
// keeps the raw model output next to the formatted result for auditing.
type SavedPair struct {
	OriginalQuestion  string `json:"original_question"`
	OriginalAnswer    string `json:"original_answer"`
	FormattedQuestion string `json:"formatted_question"`
	FormattedAnswer   string `json:"formatted_answer"`
}

// Completer produces a single-turn model completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Searcher retrieves the documents most relevant to a free-text query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]corpus.Document, error)
}
