package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/tablerag-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TableRAG configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("dataset_path: %s\n", cfg.DatasetPath)
		fmt.Printf("corpus_path: %s\n", cfg.CorpusPath)
		fmt.Printf("index_path: %s\n", cfg.IndexPath)
		fmt.Printf("output_dir: %s\n", cfg.OutputDir)
		fmt.Printf("completion_model: %s\n", cfg.CompletionModel)
		fmt.Printf("embedding_model: %s\n", cfg.EmbeddingModel)
		fmt.Printf("ollama_host: %s\n", cfg.OllamaHost)
		fmt.Printf("retrieval_top_k: %d\n", cfg.RetrievalTopK)
		fmt.Printf("categories: %s\n", strings.Join(cfg.Categories, "; "))
		fmt.Printf("questions_per_category: %d\n", cfg.QuestionsPerCategory)
		fmt.Printf("total_questions: %d\n", cfg.TotalQuestions)
		fmt.Printf("pause_ms: %d\n", cfg.PauseMs)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "dataset_path":
			cfg.DatasetPath = val
		case "corpus_path":
			cfg.CorpusPath = val
		case "index_path":
			cfg.IndexPath = val
		case "output_dir":
			cfg.OutputDir = val
		case "completion_model":
			cfg.CompletionModel = val
		case "embedding_model":
			cfg.EmbeddingModel = val
		case "ollama_host":
			cfg.OllamaHost = val
		case "retrieval_top_k":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for retrieval_top_k: %v", val)
			}
			cfg.RetrievalTopK = i
		case "questions_per_category":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for questions_per_category: %v", val)
			}
			cfg.QuestionsPerCategory = i
		case "total_questions":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for total_questions: %v", val)
			}
			cfg.TotalQuestions = i
		case "pause_ms":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for pause_ms: %v", val)
			}
			cfg.PauseMs = i
		case "categories":
			parts := strings.Split(val, ";")
			var categories []string
			for _, p := range parts {
				if p = strings.TrimSpace(p); p != "" {
					categories = append(categories, p)
				}
			}
			if len(categories) == 0 {
				return fmt.Errorf("categories cannot be empty (use a ;-separated list)")
			}
			cfg.Categories = categories
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Println("✓ Wrote default config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
}
