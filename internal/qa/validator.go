package qa

import (
	"regexp"
	"strings"
)

var finalAnswerPattern = regexp.MustCompile(`####\s*\$?(\d+\.?\d*%?)`)

// Validate checks a formatted pair against the GSM8K shape requirements
// and returns the list of failure reasons. An empty list means the pair is
// acceptable for the training set.
func Validate(p Pair) (bool, []string) {
	question := p.Question
	answer := p.Answer
	lowerQuestion := strings.ToLower(question)
	lowerAnswer := strings.ToLower(answer)

	hasDigit := strings.ContainsAny(question, "0123456789")

	var reasons []string
	if !strings.Contains(question, "?") {
		reasons = append(reasons, "Missing question mark")
	}
	if !strings.Contains(answer, "<<") || !strings.Contains(answer, ">>") {
		reasons = append(reasons, "Missing <<calculation=result>> format")
	}
	if !strings.Contains(answer, "####") {
		reasons = append(reasons, "Missing #### format")
	}
	if !finalAnswerPattern.MatchString(answer) {
		reasons = append(reasons, "Final answer not in proper #### format")
	}
	if !hasDigit {
		reasons = append(reasons, "No numbers in question")
	}
	if strings.Contains(lowerQuestion, "according to the data") || strings.Contains(lowerQuestion, "the data shows") {
		reasons = append(reasons, "References external data")
	}
	if strings.Contains(lowerQuestion, "segment analysis") && !hasDigit {
		reasons = append(reasons, "References segment analysis without numbers")
	}
	if strings.Contains(answer, "[insert") || strings.Contains(lowerAnswer, "unknown") || strings.Contains(answer, "no calculation needed") {
		reasons = append(reasons, "Contains placeholder text")
	}
	if len(question) < 80 {
		reasons = append(reasons, "Question too short, likely missing context")
	}
	return len(reasons) == 0, reasons
}
