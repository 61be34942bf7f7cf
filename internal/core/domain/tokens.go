package domain

// TokenEstimator approximates the token count of a text.
// The engine never uses a real tokenizer; the character heuristic is the
// contract and callers may substitute their own estimator.
type TokenEstimator func(text string) int

// EstimateTokens is the default estimator: ceil(chars/4).
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + 3) / 4
}
