package retrieval

import (
	"context"
	"strings"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/llm"
	"chatgenius-context/internal/metrics"
)

// TruncationMarker is appended when assembled context had to drop content.
const TruncationMarker = "\n\n[Additional relevant content was omitted due to length]"

const compressionSystemPrompt = `You condense retrieved context for a chat assistant.
Summarize the following content, preserving concrete facts, names, figures and source citations in [Source: ...] brackets.
Reply with the summary only.`

// Assembler produces a single bounded context string from ranked items.
type Assembler struct {
	llm LLMClient

	perItemBudget int
	totalBudget   int
	hardCeiling   int
}

// NewAssembler creates an Assembler. perItemBudget and totalBudget are
// character budgets for a single item and the whole context; hardCeiling is
// the combined raw size above which LLM compression is attempted before
// truncation.
func NewAssembler(llmClient LLMClient, perItemBudget, totalBudget, hardCeiling int) *Assembler {
	if perItemBudget <= 0 {
		perItemBudget = 2000
	}
	if totalBudget <= 0 {
		totalBudget = 12000
	}
	if hardCeiling <= 0 {
		hardCeiling = 32000
	}
	return &Assembler{
		llm:           llmClient,
		perItemBudget: perItemBudget,
		totalBudget:   totalBudget,
		hardCeiling:   hardCeiling,
	}
}

// Assemble concatenates item contents in rank order under the configured
// budgets. Items over the per-item budget are cut at a sentence boundary.
// When the combined raw content exceeds the hard ceiling, the whole context
// is first compressed through the LLM; if that fails, plain truncation
// applies. The result never exceeds the total budget plus the marker length,
// and Assemble never fails on oversized input.
func (a *Assembler) Assemble(ctx context.Context, items []RetrievedItem) string {
	if len(items) == 0 {
		return ""
	}

	parts := make([]string, 0, len(items))
	rawLen := 0
	for _, item := range items {
		if item.Content == "" {
			continue
		}
		parts = append(parts, item.Content)
		rawLen += len(item.Content)
	}
	if len(parts) == 0 {
		return ""
	}

	if rawLen > a.hardCeiling {
		if compressed, ok := a.compress(ctx, strings.Join(parts, "\n\n")); ok {
			parts = []string{compressed}
		}
	}

	var b strings.Builder
	truncated := false
	for i, part := range parts {
		if len(part) > a.perItemBudget {
			part = truncateAtSentence(part, a.perItemBudget)
		}

		separator := 0
		if i > 0 {
			separator = 2
		}

		remaining := a.totalBudget - b.Len() - separator
		if remaining <= 0 {
			truncated = true
			break
		}
		if len(part) > remaining {
			part = truncateAtSentence(part, remaining)
			truncated = true
		}

		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(part)

		if truncated {
			break
		}
	}

	if truncated {
		metrics.ContextTruncationsTotal.Inc()
		b.WriteString(TruncationMarker)
	}
	return b.String()
}

// truncateAtSentence cuts s to at most limit characters, preferring the last
// sentence boundary before the limit over a mid-sentence cut.
func truncateAtSentence(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if len(s) <= limit {
		return s
	}
	cut := s[:limit]
	if idx := strings.LastIndex(cut, "."); idx > 0 {
		return cut[:idx+1]
	}
	return cut
}

// compress summarizes oversized raw context through the LLM in at most three
// chunks. Returns false on any provider failure so the caller falls back to
// truncation.
func (a *Assembler) compress(ctx context.Context, text string) (string, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	if a.llm == nil {
		return "", false
	}

	chunks := splitIntoChunks(text, 3)
	summaries := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		summary, err := a.llm.Complete(ctx, compressionSystemPrompt, chunk, llm.ChatParams{
			Temperature: 0.3,
			MaxTokens:   500,
		})
		if err != nil {
			logger.WarnContext(ctx, "context compression failed, falling back to truncation", "error", err)
			return "", false
		}
		summaries = append(summaries, summary)
	}

	metrics.ContextCompressionsTotal.Inc()
	return strings.Join(summaries, "\n\n"), true
}

// splitIntoChunks splits text into at most n roughly equal pieces, breaking
// on whitespace where possible.
func splitIntoChunks(text string, n int) []string {
	if n <= 1 || len(text) <= n {
		return []string{text}
	}

	size := (len(text) + n - 1) / n
	chunks := make([]string, 0, n)
	for len(text) > 0 {
		if len(text) <= size {
			chunks = append(chunks, text)
			break
		}
		cut := size
		if idx := strings.LastIndexByte(text[:size], ' '); idx > size/2 {
			cut = idx
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	return chunks
}
