package qa

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

const formatPrompt = `You are an expert in formatting mathematical problems and solutions to match the GSM8K dataset format for fine-tuning.

Transform this e-commerce analytics question and answer to match the GSM8K format exactly.

ORIGINAL QUESTION:
%s

ORIGINAL ANSWER:
%s

GSM8K FORMAT REQUIREMENTS:

1. The QUESTION must:
   - Be a self-contained word problem with all needed values
   - Read like a real-world scenario without referencing external data
   - Have clear numerical values that can be used in calculations
   - End with a clear mathematical question

2. The ANSWER must follow this EXACT format:
   - Multiple steps of reasoning, each on its own line
   - Each calculation should be written in this format: "X operation Y = result"
   - Every calculation that's shown must be embedded in "<<calculation=result>>" format
   - For example: "Total customers = 240 + 180 = <<240+180=420>>420"
   - The final line MUST be "#### [numerical answer]" with just the number

EXAMPLE GSM8K-FORMATTED QUESTION AND ANSWER:

question: Natalia sold clips to 48 of her friends in April, and then she sold half as many clips in May. How many clips did Natalia sell altogether in April and May?

answer: Natalia sold 48/2 = <<48/2=24>>24 clips in May.
Natalia sold 48+24 = <<48+24=72>>72 clips altogether in April and May.
#### 72

ANOTHER EXAMPLE:

question: An online store had 240 female customers who used discount codes. If this represents 53.1%% of all female customers, how many female customers did not use discount codes?

answer: First, I'll calculate the total number of female customers.
Total female customers = 240 / 0.531 = <<240/0.531=451.98>>451.98 ≈ 452 customers

Next, I'll find how many didn't use discounts.
Female customers without discounts = 452 - 240 = <<452-240=212>>212 customers
#### 212

YOUR FORMATTED QA PAIR:
question: [formatted question]

answer: [step-by-step solution with <<calculation=result>> format for EVERY calculation]
`

// calcPattern matches "X op Y = Z" arithmetic steps in free-form model
// output, capturing both operands, the operator and the stated result.
var calcPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([+\-*/])\s*(\d+(?:\.\d+)?)\s*=\s*(\d+(?:\.\d+)?)`)

var numberPattern = regexp.MustCompile(`\d+\.?\d*`)

// Formatter converts raw question/answer text into the strict GSM8K shape,
// repairing missing calculation and final-answer markers when the model
// does not comply.
type Formatter struct {
	llm    Completer
	logger *zap.Logger
}

func NewFormatter(llm Completer, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{llm: llm, logger: logger}
}

// Format asks the model to reformat the pair, parses its response, and
// applies two deterministic repair passes: calculation markers are rebuilt
// from arithmetic found in the raw answer, and a final "#### N" line is
// appended when absent.
func (f *Formatter) Format(ctx context.Context, question, rawAnswer string) (Pair, error) {
	response, err := f.llm.Complete(ctx, fmt.Sprintf(formatPrompt, question, rawAnswer))
	if err != nil {
		return Pair{}, fmt.Errorf("format qa pair: %w", err)
	}

	pair := parseFormatted(response)
	if pair.Question == "" || pair.Answer == "" {
		f.logger.Warn("formatted pair incomplete, falling back to original question")
		pair = Pair{Question: question, Answer: "The answer is #### 100"}
	}

	if !strings.Contains(pair.Answer, "<<") || !strings.Contains(pair.Answer, ">>") {
		if fixed, ok := rebuildCalculations(rawAnswer); ok {
			f.logger.Warn("answer lacked calculation markers, rebuilt from raw answer")
			pair.Answer = fixed
		}
	}
	if !strings.Contains(pair.Answer, "####") {
		f.logger.Warn("answer lacked final marker, appending one")
		final := "100"
		if nums := numberPattern.FindAllString(pair.Answer, -1); len(nums) > 0 {
			final = nums[len(nums)-1]
		}
		pair.Answer += "\n#### " + final
	}
	return pair, nil
}

// parseFormatted extracts the pair from a "question: ... answer: ..."
// response. Markers are matched case-insensitively but the content keeps
// its original casing. Returns a zero pair when neither strategy finds
// both sections.
func parseFormatted(response string) Pair {
	lines := strings.Split(response, "\n")
	questionIdx, answerIdx := -1, -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if questionIdx == -1 && strings.Contains(lower, "question:") {
			questionIdx = i
		}
		if strings.Contains(lower, "answer:") && i > questionIdx && questionIdx != -1 {
			answerIdx = i
			break
		}
	}
	if questionIdx != -1 && answerIdx != -1 {
		question := afterMarker(lines[questionIdx], "question:")
		for j := questionIdx + 1; j < answerIdx; j++ {
			if s := strings.TrimSpace(lines[j]); s != "" {
				question += " " + s
			}
		}
		var answerLines []string
		if start := afterMarker(lines[answerIdx], "answer:"); start != "" {
			answerLines = append(answerLines, start)
		}
		for j := answerIdx + 1; j < len(lines); j++ {
			answerLines = append(answerLines, strings.TrimSpace(lines[j]))
		}
		return Pair{Question: strings.TrimSpace(question), Answer: strings.TrimSpace(strings.Join(answerLines, "\n"))}
	}

	// Fallback: single split on the markers anywhere in the response.
	lower := strings.ToLower(response)
	qi := strings.Index(lower, "question:")
	if qi == -1 {
		return Pair{}
	}
	rest := response[qi+len("question:"):]
	ai := strings.Index(strings.ToLower(rest), "answer:")
	if ai == -1 {
		return Pair{}
	}
	return Pair{
		Question: strings.TrimSpace(rest[:ai]),
		Answer:   strings.TrimSpace(rest[ai+len("answer:"):]),
	}
}

// afterMarker returns the text following a case-insensitive marker on a line.
func afterMarker(line, marker string) string {
	i := strings.Index(strings.ToLower(line), marker)
	if i == -1 {
		return ""
	}
	return strings.TrimSpace(line[i+len(marker):])
}

// rebuildCalculations extracts "X op Y = Z" steps from the raw answer and
// renders them as GSM8K calculation lines with a final marker. The step
// label is sniffed from the raw answer's vocabulary.
func rebuildCalculations(rawAnswer string) (string, bool) {
	matches := calcPattern.FindAllStringSubmatch(rawAnswer, -1)
	if len(matches) == 0 {
		return "", false
	}
	label := "Calculation"
	lowerRaw := strings.ToLower(rawAnswer)
	switch {
	case strings.Contains(lowerRaw, "total"):
		label = "Total"
	case strings.Contains(lowerRaw, "average"):
		label = "Average"
	case strings.Contains(lowerRaw, "percentage"):
		label = "Percentage"
	}
	var lines []string
	for _, m := range matches {
		a, op, b, res := m[1], m[2], m[3], m[4]
		lines = append(lines, fmt.Sprintf("%s = %s %s %s = <<%s%s%s=%s>>%s", label, a, op, b, a, op, b, res, res))
	}
	lines = append(lines, "#### "+matches[len(matches)-1][4])
	return strings.Join(lines, "\n"), true
}
