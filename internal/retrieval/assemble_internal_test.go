package retrieval

import (
	"strings"
	"testing"
)

func TestTruncateAtSentence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{
			name:  "short string unchanged",
			input: "Hello world.",
			limit: 100,
			want:  "Hello world.",
		},
		{
			name:  "cuts at last sentence boundary",
			input: "First sentence. Second sentence. Third one that is long.",
			limit: 40,
			want:  "First sentence. Second sentence.",
		},
		{
			name:  "no boundary falls back to hard cut",
			input: "no periods here at all just words",
			limit: 10,
			want:  "no periods",
		},
		{
			name:  "zero limit returns empty",
			input: "anything",
			limit: 0,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncateAtSentence(tt.input, tt.limit)
			if got != tt.want {
				t.Errorf("truncateAtSentence() = %q, want %q", got, tt.want)
			}
			if len(got) > tt.limit {
				t.Errorf("truncateAtSentence() length %d exceeds limit %d", len(got), tt.limit)
			}
		})
	}
}

func TestSplitIntoChunks(t *testing.T) {
	t.Run("short text stays whole", func(t *testing.T) {
		chunks := splitIntoChunks("ab", 3)
		if len(chunks) != 1 || chunks[0] != "ab" {
			t.Errorf("splitIntoChunks() = %v, want [ab]", chunks)
		}
	})

	t.Run("splits into at most n pieces", func(t *testing.T) {
		text := strings.Repeat("word ", 300)
		chunks := splitIntoChunks(text, 3)
		if len(chunks) > 3 {
			t.Errorf("splitIntoChunks() produced %d chunks, want at most 3", len(chunks))
		}
		if strings.Join(chunks, "") != text {
			t.Error("splitIntoChunks() lost content")
		}
	})
}
