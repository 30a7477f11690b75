package retrieval

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/llm"
	"chatgenius-context/internal/metrics"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_llm_client.go -package=mocks chatgenius-context/internal/retrieval LLMClient

// LLMClient is the completion provider used for intent classification and
// context compression.
type LLMClient interface {
	// Complete sends a system and user prompt and returns the reply text.
	Complete(ctx context.Context, systemPrompt, userPrompt string, params llm.ChatParams) (string, error)

	// CompleteJSON is the structured-output variant; the reply is a single
	// JSON object serialized as text.
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string, params llm.ChatParams) (string, error)
}

// IntentResult is the outcome of intent classification. Every field has an
// explicit default so provider response drift degrades safely.
type IntentResult struct {
	NeedsPersonalization bool   `json:"needs_personalization"`
	TargetUser           string `json:"target_user"`
	RefinedSearchQuery   string `json:"refined_search_query"`
}

const intentSystemPrompt = `You are a query classifier for a workspace assistant.
Given a user's query, decide whether answering it well requires that specific person's history or preferences.
Examples: "order me a pizza" needs personalization (past orders reveal preferences); "what's the weather" does not.
If personalization is needed and the query names a person, set target_user to that person's name; otherwise leave it empty.
Also produce a refined search query: a short phrase optimized for semantic search over chat history and documents.
Respond with a single JSON object with exactly these keys:
{"needs_personalization": bool, "target_user": string, "refined_search_query": string}`

// IntentAnalyzer classifies whether a query needs personalized context.
// Stateless; one LLM call per query.
type IntentAnalyzer struct {
	llm LLMClient
}

// NewIntentAnalyzer creates a new IntentAnalyzer.
func NewIntentAnalyzer(client LLMClient) *IntentAnalyzer {
	return &IntentAnalyzer{llm: client}
}

// Analyze classifies the query. It never fails: on provider error or
// malformed output it fails open, returning no personalization and the raw
// query as the search query.
func (a *IntentAnalyzer) Analyze(ctx context.Context, query, requestingUsername string) IntentResult {
	logger := contextutil.LoggerFromContext(ctx)

	fallback := IntentResult{RefinedSearchQuery: query}

	userPrompt := fmt.Sprintf("Requesting user: %s\nQuery: %s", requestingUsername, query)
	raw, err := a.llm.CompleteJSON(ctx, intentSystemPrompt, userPrompt, llm.ChatParams{
		Temperature: 0.0,
		MaxTokens:   200,
	})
	if err != nil {
		logger.WarnContext(ctx, "intent classification failed, continuing without personalization", "error", err)
		metrics.IntentAnalysisTotal.WithLabelValues("fail_open").Inc()
		return fallback
	}

	var result IntentResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		logger.WarnContext(ctx, "intent classification returned malformed JSON, continuing without personalization", "error", err)
		metrics.IntentAnalysisTotal.WithLabelValues("fail_open").Inc()
		return fallback
	}

	if strings.TrimSpace(result.RefinedSearchQuery) == "" {
		result.RefinedSearchQuery = query
	}
	if result.NeedsPersonalization && strings.TrimSpace(result.TargetUser) == "" {
		result.TargetUser = requestingUsername
	}

	metrics.IntentAnalysisTotal.WithLabelValues("ok").Inc()
	return result
}
