package llm

import (
	"errors"
	"testing"
)

// TestIsRateLimitError tests the rate limit error detection
func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "ResourceExhausted error",
			err:      errors.New("rpc error: code = ResourceExhausted desc = Resource exhausted"),
			expected: true,
		},
		{
			name:     "HTTP 429 error",
			err:      errors.New("googleapi: Error 429: Too Many Requests"),
			expected: true,
		},
		{
			name:     "Rate limit error",
			err:      errors.New("rate limit exceeded"),
			expected: true,
		},
		{
			name:     "Quota error",
			err:      errors.New("quota exceeded for this project"),
			expected: true,
		},
		{
			name:     "Unrelated error",
			err:      errors.New("connection refused"),
			expected: false,
		},
		{
			name:     "Nil error",
			err:      nil,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsRateLimitError(tt.err)
			if result != tt.expected {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, result, tt.expected)
			}
		})
	}
}

func TestTokenBudgets(t *testing.T) {
	if BulletTokens >= SummaryTokens {
		t.Errorf("bullet budget %d should be smaller than summary budget %d", BulletTokens, SummaryTokens)
	}
	if SummaryTokens >= CoverLetterTokens {
		t.Errorf("summary budget %d should be smaller than cover letter budget %d", SummaryTokens, CoverLetterTokens)
	}
}
