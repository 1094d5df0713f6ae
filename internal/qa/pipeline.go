package qa

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tablerag-cli/internal/utils"
)

// maxAttempts bounds answer/format/validate retries per question.
const maxAttempts = 2

// PipelineOptions configure a generation run.
type PipelineOptions struct {
	// OutputDir receives per-pair and final JSON artifacts.
	OutputDir string
	// QuestionsPerCategory caps questions requested per category query.
	QuestionsPerCategory int
	// TopK is the retrieval depth for context assembly.
	TopK int
	// Pause is the delay between processed questions, giving a local
	// runtime room to breathe.
	Pause time.Duration
}

// Pipeline drives the generate-answer-format-validate loop over a set of
// category queries and persists every artifact it produces.
type Pipeline struct {
	llm       Completer
	search    Searcher
	formatter *Formatter
	opts      PipelineOptions
	logger    *zap.Logger
	sleep     func(time.Duration)
}

func NewPipeline(llm Completer, search Searcher, opts PipelineOptions, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.QuestionsPerCategory <= 0 {
		opts.QuestionsPerCategory = 5
	}
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()))
	return &Pipeline{
		llm:       llm,
		search:    search,
		formatter: NewFormatter(llm, logger),
		opts:      opts,
		logger:    logger,
		sleep:     time.Sleep,
	}
}

// Run generates up to total validated pairs across the category queries and
// returns the subset that converts cleanly to GSM8K format. Partial results
// are written to a recovery file if the run aborts.
func (p *Pipeline) Run(ctx context.Context, categories []string, total int) ([]Pair, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories given")
	}
	if total <= 0 {
		return nil, fmt.Errorf("total must be positive")
	}
	if err := utils.EnsureDir(p.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	perCategory := total / len(categories)
	if perCategory < 1 {
		perCategory = 1
	}
	if perCategory > p.opts.QuestionsPerCategory {
		perCategory = p.opts.QuestionsPerCategory
	}
	p.logger.Info("pipeline starting",
		zap.Int("total", total),
		zap.Int("per_category", perCategory),
		zap.Strings("categories", categories))

	var pairs []Pair
	for _, category := range categories {
		if len(pairs) >= total {
			break
		}
		catLog := p.logger.With(zap.String("category", category))
		catLog.Info("processing category")

		questions, err := GenerateQuestions(ctx, p.llm, p.search, category, perCategory, p.opts.TopK)
		if err != nil {
			return pairs, p.abort(pairs, fmt.Errorf("category %q: %w", category, err))
		}
		catLog.Info("questions generated", zap.Int("count", len(questions)))

		for i, question := range questions {
			if len(pairs) >= total {
				break
			}
			if ctx.Err() != nil {
				return pairs, p.abort(pairs, ctx.Err())
			}
			qLog := catLog.With(zap.Int("question_idx", i))
			pair, saved, ok := p.processQuestion(ctx, qLog, question)
			if ok {
				pairs = append(pairs, pair)
				if err := p.savePair(len(pairs), saved); err != nil {
					return pairs, p.abort(pairs, err)
				}
				qLog.Info("qa pair accepted", zap.Int("pair_number", len(pairs)))
			}
			if p.opts.Pause > 0 {
				p.sleep(p.opts.Pause)
			}
		}
	}

	gsm8k := ConvertToGSM8K(pairs, p.logger)
	if err := p.writeJSON("formatted_qa_pairs_final.json", pairs); err != nil {
		return pairs, p.abort(pairs, err)
	}
	if err := p.writeJSON("gsm8k_formatted_qa_pairs.json", gsm8k); err != nil {
		return pairs, p.abort(pairs, err)
	}
	p.logger.Info("pipeline complete",
		zap.Int("pairs", len(pairs)),
		zap.Int("gsm8k_pairs", len(gsm8k)))
	return gsm8k, nil
}

// processQuestion runs the answer/format/validate loop for one question.
func (p *Pipeline) processQuestion(ctx context.Context, log *zap.Logger, question string) (Pair, SavedPair, bool) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		answer, err := AnswerQuestion(ctx, p.llm, p.search, question, p.opts.TopK)
		if err != nil {
			log.Warn("answer generation failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		formatted, err := p.formatter.Format(ctx, question, answer)
		if err != nil {
			log.Warn("formatting failed", zap.Int("attempt", attempt), zap.Error(err))
			continue
		}
		if valid, reasons := Validate(formatted); !valid {
			log.Warn("validation failed",
				zap.Int("attempt", attempt),
				zap.Strings("reasons", reasons))
			continue
		}
		saved := SavedPair{
			OriginalQuestion:  question,
			OriginalAnswer:    answer,
			FormattedQuestion: formatted.Question,
			FormattedAnswer:   formatted.Answer,
		}
		return formatted, saved, true
	}
	log.Warn("question skipped after failed attempts", zap.Int("attempts", maxAttempts))
	return Pair{}, SavedPair{}, false
}

// abort writes partial results to a recovery file before surfacing err.
func (p *Pipeline) abort(pairs []Pair, err error) error {
	if len(pairs) > 0 {
		if werr := p.writeJSON("recovered_qa_pairs.json", pairs); werr != nil {
			p.logger.Error("recovery write failed", zap.Error(werr))
		} else {
			p.logger.Info("recovered pairs saved", zap.Int("count", len(pairs)))
		}
	}
	return err
}

func (p *Pipeline) savePair(number int, saved SavedPair) error {
	return p.writeJSON(fmt.Sprintf("qa_pair_%d.json", number), saved)
}

func (p *Pipeline) writeJSON(name string, v any) error {
	if err := utils.WriteJSON(filepath.Join(p.opts.OutputDir, name), v); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ConvertToGSM8K keeps only pairs carrying both calculation markers and a
// final answer line, trimming surrounding whitespace.
func ConvertToGSM8K(pairs []Pair, logger *zap.Logger) []Pair {
	if logger == nil {
		logger = zap.NewNop()
	}
	out := make([]Pair, 0, len(pairs))
	for _, p := range pairs {
		q := strings.TrimSpace(p.Question)
		a := strings.TrimSpace(p.Answer)
		if !strings.Contains(a, "<<") || !strings.Contains(a, ">>") || !strings.Contains(a, "####") {
			logger.Warn("skipping pair with improper format", zap.String("question", truncate(q, 30)))
			continue
		}
		out = append(out, Pair{Question: q, Answer: a})
	}
	logger.Info("converted pairs to gsm8k format",
		zap.Int("kept", len(out)),
		zap.Int("input", len(pairs)))
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
