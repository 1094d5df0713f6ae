package qa

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
)

const goodFormatResponse = `question: An online store had 240 female customers who used discount codes out of 452 total female customers. How many female customers did not use discount codes?
answer: Female customers without discounts = 452 - 240 = <<452-240=212>>212 customers
#### 212`

func pipelineLLM() *scriptedLLM {
	return &scriptedLLM{
		questionResponse: "1. How many of the 452 female customers did not use one of the 240 distributed discount codes?",
		answerResponse:   "Without discounts = 452 - 240 = 212",
		formatResponse:   goodFormatResponse,
	}
}

func pipelineSearcher() *fixedSearcher {
	return &fixedSearcher{docs: []corpus.Document{
		{Content: "Segment Analysis: Gender: Female", Metadata: map[string]string{"doc_type": corpus.DocTypeSegment}},
	}}
}

func newTestPipeline(t *testing.T, llm Completer, search Searcher) *Pipeline {
	t.Helper()
	p := NewPipeline(llm, search, PipelineOptions{
		OutputDir:            t.TempDir(),
		QuestionsPerCategory: 2,
		TopK:                 3,
		Pause:                time.Second,
	}, nil)
	p.sleep = func(time.Duration) {}
	return p
}

func TestPipelineRun(t *testing.T) {
	llm := pipelineLLM()
	p := newTestPipeline(t, llm, pipelineSearcher())

	pairs, err := p.Run(context.Background(), []string{"customer segments"}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if !strings.Contains(pairs[0].Answer, "<<452-240=212>>") || !strings.Contains(pairs[0].Answer, "#### 212") {
		t.Errorf("answer = %q", pairs[0].Answer)
	}

	// Per-pair artifact keeps raw and formatted text.
	b, err := os.ReadFile(filepath.Join(p.opts.OutputDir, "qa_pair_1.json"))
	if err != nil {
		t.Fatalf("read per-pair artifact: %v", err)
	}
	var saved SavedPair
	if err := json.Unmarshal(b, &saved); err != nil {
		t.Fatalf("decode per-pair artifact: %v", err)
	}
	if saved.OriginalAnswer != "Without discounts = 452 - 240 = 212" {
		t.Errorf("original answer = %q", saved.OriginalAnswer)
	}
	if saved.FormattedQuestion == "" || saved.FormattedAnswer == "" {
		t.Errorf("formatted fields missing: %+v", saved)
	}

	for _, name := range []string{"formatted_qa_pairs_final.json", "gsm8k_formatted_qa_pairs.json"} {
		b, err := os.ReadFile(filepath.Join(p.opts.OutputDir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var out []Pair
		if err := json.Unmarshal(b, &out); err != nil {
			t.Fatalf("decode %s: %v", name, err)
		}
		if len(out) != 1 {
			t.Errorf("%s has %d pairs, want 1", name, len(out))
		}
	}
}

func TestPipelineStopsAtTotal(t *testing.T) {
	llm := pipelineLLM()
	llm.questionResponse = "1. First question with the numbers 452 and 240 in it, long enough to matter?\n2. Second question with 100 in it?"
	p := newTestPipeline(t, llm, pipelineSearcher())

	pairs, err := p.Run(context.Background(), []string{"a", "b", "c"}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
}

func TestPipelineSkipsInvalidAfterRetries(t *testing.T) {
	llm := pipelineLLM()
	llm.formatResponse = "question: Too short?\nanswer: no math"
	p := newTestPipeline(t, llm, pipelineSearcher())

	pairs, err := p.Run(context.Background(), []string{"customer segments"}, 1)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(pairs) != 0 {
		t.Fatalf("pairs = %d, want 0", len(pairs))
	}
	// Format attempts: one answer + one format call per attempt, plus the
	// initial question generation call.
	formatCalls := 0
	for _, prompt := range llm.prompts {
		if strings.Contains(prompt, "YOUR FORMATTED QA PAIR:") {
			formatCalls++
		}
	}
	if formatCalls != maxAttempts {
		t.Errorf("format calls = %d, want %d", formatCalls, maxAttempts)
	}
}

func TestPipelineRecoveryOnAbort(t *testing.T) {
	llm := pipelineLLM()
	search := pipelineSearcher()
	p := newTestPipeline(t, llm, search)

	// The first category's retrievals succeed, then the store goes away
	// before the second category's question generation.
	p.search = &flakySearcher{inner: search, failAfter: 2}

	_, err := p.Run(context.Background(), []string{"one", "two"}, 5)
	if err == nil {
		t.Fatalf("expected error from failing searcher")
	}
	b, readErr := os.ReadFile(filepath.Join(p.opts.OutputDir, "recovered_qa_pairs.json"))
	if readErr != nil {
		t.Fatalf("recovery file not written: %v", readErr)
	}
	var recovered []Pair
	if err := json.Unmarshal(b, &recovered); err != nil {
		t.Fatalf("decode recovery file: %v", err)
	}
	if len(recovered) == 0 {
		t.Fatalf("recovery file is empty")
	}
}

func TestPipelineRejectsBadInputs(t *testing.T) {
	p := newTestPipeline(t, pipelineLLM(), pipelineSearcher())
	if _, err := p.Run(context.Background(), nil, 5); err == nil {
		t.Errorf("expected error for empty categories")
	}
	if _, err := p.Run(context.Background(), []string{"a"}, 0); err == nil {
		t.Errorf("expected error for zero total")
	}
}

func TestConvertToGSM8K(t *testing.T) {
	pairs := []Pair{
		{Question: " q1? ", Answer: " a = <<1+1=2>>2\n#### 2 "},
		{Question: "q2?", Answer: "no markers at all"},
		{Question: "q3?", Answer: "x = <<2+2=4>>4 but no final line"},
	}
	out := ConvertToGSM8K(pairs, nil)
	if len(out) != 1 {
		t.Fatalf("kept %d pairs, want 1", len(out))
	}
	if out[0].Question != "q1?" || !strings.HasPrefix(out[0].Answer, "a = ") {
		t.Fatalf("pair not trimmed: %+v", out[0])
	}
}

// flakySearcher proxies to an inner searcher and fails after a fixed number
// of calls.
type flakySearcher struct {
	inner     Searcher
	calls     int
	failAfter int
}

func (f *flakySearcher) Search(ctx context.Context, query string, k int) ([]corpus.Document, error) {
	f.calls++
	if f.calls > f.failAfter {
		return nil, errors.New("vector store unavailable")
	}
	return f.inner.Search(ctx, query, k)
}
