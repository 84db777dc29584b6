package chunker

// charsPerToken is the heuristic character-to-token ratio. Exact
// tokenization is not required: the estimate only decides whether dynamic
// chunking kicks in, and the budgets carry generous margins.
const charsPerToken = 3.5

// EstimateTokens gives a rough token count for text.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return int(float64(len(text)) / charsPerToken)
}
