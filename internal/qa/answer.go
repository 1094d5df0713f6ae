package qa

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/tablerag-cli/internal/utils"
)

// contextTokenLimit bounds the retrieved context so the assembled prompt
// stays within small local model windows.
const contextTokenLimit = 3000

const answerPrompt = `You are an expert mathematician solving word problems in the style of GSM8K dataset answers.

QUESTION:
%s

Use the following e-commerce data to enhance your answer if needed:
%s

INSTRUCTIONS:
1. Use step-by-step reasoning to solve the problem
2. Start each step with concise explanations of your thinking
3. Show all calculations clearly with "X operation Y = Z" format
4. Use precise arithmetic with no rounding until the final answer
5. Your final answer should be just the number (with units if appropriate)

EXAMPLE GSM8K-STYLE SOLUTION:
Question: An online store sold 240 items in the electronics category and 180 items in the clothing category last month. If electronics items cost $85 on average and clothing items cost $45 on average, what was the total revenue from both categories?

Answer:
Electronics revenue = 240 * $85 = $20,400
Clothing revenue = 180 * $45 = $8,100
Total revenue = $20,400 + $8,100 = $28,500
The total revenue from both categories is $28,500.

YOUR STEP-BY-STEP SOLUTION:
`

// AnswerQuestion retrieves context relevant to the question and asks the
// model for a step-by-step solution.
func AnswerQuestion(ctx context.Context, llm Completer, search Searcher, question string, topK int) (string, error) {
	docs, err := search.Search(ctx, question, topK)
	if err != nil {
		return "", fmt.Errorf("retrieve context: %w", err)
	}
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	contextText := utils.TruncateToTokenLimit(strings.Join(contents, "\n\n"), contextTokenLimit)

	response, err := llm.Complete(ctx, fmt.Sprintf(answerPrompt, question, contextText))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return response, nil
}
