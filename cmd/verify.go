package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tablerag-cli/internal/corpus"
)

var verifyCorpusPath string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Inspect a saved corpus and check question-class coverage",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireConfig(); err != nil {
			return err
		}
		path := verifyCorpusPath
		if path == "" {
			path = cfg.CorpusPath
		}
		docs, err := corpus.Load(path)
		if err != nil {
			return fmt.Errorf("load corpus: %w", err)
		}
		fmt.Printf("✓ Loaded %d documents from %s\n", len(docs), path)

		v := corpus.NewVerifier(docs, logger)
		v.Report(os.Stdout)

		checks := capabilityChecks()
		passed := v.CheckCapabilities(checks)
		for _, c := range checks {
			if v.CanAnswer(c.Criteria) {
				fmt.Printf("✓ %s\n", c.Description)
			} else {
				fmt.Printf("✗ %s\n", c.Description)
			}
		}
		if passed < len(checks) {
			fmt.Printf("⚠ %d of %d capability checks answerable\n", passed, len(checks))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyCorpusPath, "corpus", "", "corpus JSON path (default from config)")
}
