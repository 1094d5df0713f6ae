package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/tablerag-cli/internal/ai"
	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
	"github.com/KaramelBytes/tablerag-cli/internal/qa"
	"github.com/KaramelBytes/tablerag-cli/internal/retrieval"
)

var (
	generateTotal     int
	generateOutputDir string
	generateReindex   bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate GSM8K-style QA pairs from the corpus",
	Long: `Loads the corpus, builds or reuses the embedding index, and runs the
question/answer/format/validate pipeline against a local Ollama runtime.
Validated pairs and their artifacts are written to the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		ctx := cmd.Context()

		docs, err := corpus.Load(cfg.CorpusPath)
		if err != nil {
			return fmt.Errorf("load corpus (run synthesize first): %w", err)
		}
		fmt.Printf("✓ Loaded %d documents from %s\n", len(docs), cfg.CorpusPath)

		emb := ai.NewOllamaEmbClient(cfg.OllamaHost, cfg.EmbeddingModel, time.Duration(cfg.HTTPTimeoutSec)*time.Second)

		var idx *retrieval.Index
		if !generateReindex {
			if existing, err := retrieval.Load(cfg.IndexPath); err == nil {
				if existing.Meta.EmbedModel == cfg.EmbeddingModel && len(existing.Records) == len(docs) {
					idx = existing
					fmt.Printf("✓ Reusing index from %s (%d records)\n", cfg.IndexPath, len(idx.Records))
				}
			}
		}
		if idx == nil {
			fmt.Printf("Embedding %d documents with %s...\n", len(docs), cfg.EmbeddingModel)
			idx, err = retrieval.BuildIndex(ctx, emb, docs, cfg.EmbeddingModel)
			if err != nil {
				return fmt.Errorf("build index: %w", err)
			}
			if err := idx.Save(cfg.IndexPath); err != nil {
				return fmt.Errorf("save index: %w", err)
			}
			fmt.Printf("✓ Index saved to %s\n", cfg.IndexPath)
		}

		llm := ai.NewOllamaClient(cfg.OllamaHost, cfg.CompletionModel,
			time.Duration(cfg.HTTPTimeoutSec)*time.Second,
			cfg.RetryMaxAttempts,
			time.Duration(cfg.RetryBaseDelayMs)*time.Millisecond,
			time.Duration(cfg.RetryMaxDelayMs)*time.Millisecond)

		outputDir := generateOutputDir
		if outputDir == "" {
			outputDir = cfg.OutputDir
		}
		total := generateTotal
		if total <= 0 {
			total = cfg.TotalQuestions
		}

		pipeline := qa.NewPipeline(llm, retrieval.NewSearcher(idx, emb), qa.PipelineOptions{
			OutputDir:            outputDir,
			QuestionsPerCategory: cfg.QuestionsPerCategory,
			TopK:                 cfg.RetrievalTopK,
			Pause:                time.Duration(cfg.PauseMs) * time.Millisecond,
		}, logger)

		pairs, err := pipeline.Run(ctx, cfg.Categories, total)
		if err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Pipeline aborted: %v\n", err)
			return err
		}
		fmt.Printf("✓ Generated %d GSM8K-format QA pairs in %s\n", len(pairs), outputDir)
		logger.Info("generate complete",
			zap.Int("pairs", len(pairs)),
			zap.String("output_dir", outputDir))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVar(&generateTotal, "total", 0, "total QA pairs to generate (default from config)")
	generateCmd.Flags().StringVar(&generateOutputDir, "output-dir", "", "artifact directory (default from config)")
	generateCmd.Flags().BoolVar(&generateReindex, "reindex", false, "rebuild the embedding index even if one exists")
}
