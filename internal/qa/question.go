package qa

import (
	"context"
	"fmt"
	"strings"
)

const questionPrompt = `You are an expert in creating mathematical word problems like those in the GSM8K dataset.

Based on the following e-commerce data context, create %d diverse word problems that:
1. Require mathematical reasoning and calculations (arithmetic, percentages, rates)
2. Are self-contained with all necessary information to solve
3. Tell a brief story or scenario about e-commerce analytics
4. Have a clear, single numerical answer
5. Focus on business metrics and customer behavior

CONTEXT INFORMATION:
%s

INSTRUCTIONS:
- Create word problems like those found in GSM8K dataset
- Include specific numerical values needed to solve the problem
- Avoid referencing external data or "according to data" phrases
- Use realistic scenarios from e-commerce (sales, customer metrics, marketing results)
- Questions should be clearly written and unambiguous
- Focus on numbers, percentages, and business metrics

EXAMPLE GSM8K-STYLE QUESTIONS:
1. An online store sold 240 items in the electronics category and 180 items in the clothing category last month. If electronics items cost $85 on average and clothing items cost $45 on average, what was the total revenue from both categories?
2. An e-commerce website has 850 total customers. If 42%% of customers are in the loyalty program and loyalty program members spend $78 on average per order while non-members spend $52 on average, how much more revenue does the store generate from loyalty members compared to non-members if each customer makes exactly one order?

FORMAT:
1. Question 1
2. Question 2
(and so on)

QUESTIONS:
`

// GenerateQuestions retrieves context for the category query and asks the
// model for n word problems, parsed from its free-form response.
func GenerateQuestions(ctx context.Context, llm Completer, search Searcher, query string, n, topK int) ([]string, error) {
	docs, err := search.Search(ctx, query, topK)
	if err != nil {
		return nil, fmt.Errorf("retrieve context: %w", err)
	}
	contents := make([]string, len(docs))
	for i, d := range docs {
		contents[i] = d.Content
	}
	prompt := fmt.Sprintf(questionPrompt, n, strings.Join(contents, "\n\n"))

	response, err := llm.Complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate questions: %w", err)
	}
	return ParseQuestionList(response, n), nil
}

// ParseQuestionList extracts up to n questions from a model response.
// Recognized line shapes are "1. ...", "Question: ..." and lines starting
// with "Q". If none match, any line containing "?" is taken; failing that
// the whole response becomes one question.
func ParseQuestionList(response string, n int) []string {
	var questions []string
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case numberedLine(line):
			_, rest, _ := strings.Cut(line, ".")
			questions = append(questions, strings.TrimSpace(rest))
		case strings.HasPrefix(line, "Question"):
			if _, rest, ok := strings.Cut(line, ":"); ok {
				questions = append(questions, strings.TrimSpace(rest))
			} else {
				questions = append(questions, line)
			}
		case strings.HasPrefix(line, "Q"):
			questions = append(questions, line)
		}
	}
	if len(questions) == 0 {
		for _, line := range strings.Split(response, "\n") {
			if strings.Contains(line, "?") {
				questions = append(questions, strings.TrimSpace(line))
			}
		}
	}
	if len(questions) == 0 {
		return []string{strings.TrimSpace(response)}
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions
}

// numberedLine reports whether a line starts with a list number such as
// "1." or "12.".
func numberedLine(line string) bool {
	if line == "" || line[0] < '0' || line[0] > '9' {
		return false
	}
	limit := 3
	if len(line) < limit {
		limit = len(line)
	}
	return strings.Contains(line[:limit], ".")
}
