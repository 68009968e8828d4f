package testutil

import "github.com/legendsbarber/seqfold/internal/eval"

var _ eval.TokenGenerator = (*FixedTokenGenerator)(nil)

// FixedTokenGenerator returns the same batch token every time, so recorded
// runs compare byte for byte across test executions.
type FixedTokenGenerator struct {
	token string
}

// NewFixedTokenGenerator creates a generator for token. An empty token
// becomes "test-batch-default".
func NewFixedTokenGenerator(token string) *FixedTokenGenerator {
	if token == "" {
		token = "test-batch-default"
	}
	return &FixedTokenGenerator{token: token}
}

// Generate returns the fixed token.
func (g *FixedTokenGenerator) Generate() string {
	return g.token
}
