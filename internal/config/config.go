package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Source data and artifact locations
	DatasetPath string `mapstructure:"dataset_path" yaml:"dataset_path"`
	CorpusPath  string `mapstructure:"corpus_path" yaml:"corpus_path"`
	IndexPath   string `mapstructure:"index_path" yaml:"index_path"`
	OutputDir   string `mapstructure:"output_dir" yaml:"output_dir"`

	// Models (local Ollama runtime)
	CompletionModel string `mapstructure:"completion_model" yaml:"completion_model"`
	EmbeddingModel  string `mapstructure:"embedding_model" yaml:"embedding_model"`
	OllamaHost      string `mapstructure:"ollama_host" yaml:"ollama_host"`

	// Retrieval
	RetrievalTopK int `mapstructure:"retrieval_top_k" yaml:"retrieval_top_k"`

	// Question generation
	Categories           []string `mapstructure:"categories" yaml:"categories"`
	QuestionsPerCategory int      `mapstructure:"questions_per_category" yaml:"questions_per_category"`
	TotalQuestions       int      `mapstructure:"total_questions" yaml:"total_questions"`
	PauseMs              int      `mapstructure:"pause_ms" yaml:"pause_ms"`

	// HTTP/Retry configuration
	HTTPTimeoutSec   int `mapstructure:"http_timeout_sec" yaml:"http_timeout_sec"`
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`
}

// DefaultCategories are the retrieval queries questions are generated from.
func DefaultCategories() []string {
	return []string{
		"customer demographics and segments",
		"purchase amounts and revenue",
		"discount usage and loyalty program",
		"purchase channels and devices",
	}
}

// Save writes the given configuration to the cfgFile path. If cfgFile is
// empty, it writes to ~/.tablerag/config.yaml, creating the directory if
// necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablerag")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLERAG")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dataset_path", "Ecommerce_Consumer_Behavior_Analysis_Data.csv")
	v.SetDefault("corpus_path", "table_rag_corpus.json")
	v.SetDefault("index_path", "table_rag_index.json")
	v.SetDefault("output_dir", "qa_pairs")
	v.SetDefault("completion_model", "llama3.1")
	v.SetDefault("embedding_model", "nomic-embed-text")
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("retrieval_top_k", 5)
	v.SetDefault("categories", DefaultCategories())
	v.SetDefault("questions_per_category", 5)
	v.SetDefault("total_questions", 20)
	v.SetDefault("pause_ms", 500)
	// HTTP/retry defaults
	v.SetDefault("http_timeout_sec", 120)
	v.SetDefault("retry_max_attempts", 2)
	v.SetDefault("retry_base_delay_ms", 200)
	v.SetDefault("retry_max_delay_ms", 1000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablerag")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
