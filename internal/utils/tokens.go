package utils

// charsPerToken is the rough ratio used to budget prompt context for small
// local models. Real tokenizers vary; four characters per token is close
// enough for English prose.
const charsPerToken = 4

// CountTokens estimates how many tokens text occupies. Non-empty text
// counts as at least one token.
func CountTokens(text string) int {
	runes := []rune(text)
	if len(runes) == 0 {
		return 0
	}
	if n := len(runes) / charsPerToken; n > 0 {
		return n
	}
	return 1
}

// TruncateToTokenLimit cuts text so it fits within roughly limit tokens.
// Text already under the limit is returned unchanged.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	budget := limit * charsPerToken
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}
