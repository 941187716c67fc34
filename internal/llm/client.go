package llm

import (
	"context"
	"strings"
)

// Client is the interface the enhancement pipeline depends on. The
// production implementation is VertexAIClient; tests substitute fakes.
type Client interface {
	// GenerateContent sends a prompt to the model and returns the raw
	// text response. maxTokens caps the response length for the call.
	GenerateContent(ctx context.Context, prompt string, maxTokens int32) (string, error)
	Close() error
}

// Per-task response budgets. A rewritten bullet is a sentence or two;
// a cover letter is most of a page.
const (
	BulletTokens      int32 = 256
	SummaryTokens     int32 = 512
	CoverLetterTokens int32 = 1024
	ExtractionTokens  int32 = 2048
)

// IsRateLimitError reports whether the error looks like an API quota or
// rate-limit rejection, which callers treat as retryable.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "resourceexhausted") ||
		strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}
