package retrieval

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"chatgenius-context/internal/contextutil"
	"chatgenius-context/internal/metrics"
	"chatgenius-context/internal/vectorstore"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_search_gateway.go -package=mocks chatgenius-context/internal/retrieval SearchGateway
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_directory.go -package=mocks chatgenius-context/internal/retrieval UserDirectory
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks chatgenius-context/internal/retrieval Engine

// SearchGateway is the vector index facade the engine searches through.
type SearchGateway interface {
	SearchChat(ctx context.Context, query string, topK int, filter *vectorstore.Filter) ([]ScoredMessage, error)
	SearchSummaries(ctx context.Context, query string, topK int) ([]ScoredSummary, error)
	SearchChunksByFile(ctx context.Context, fileID string, maxChunks int) ([]ScoredChunk, error)
}

// UserDirectory resolves user IDs to display names.
type UserDirectory interface {
	GetUsername(ctx context.Context, userID string) (string, error)
}

// Engine is the retrieval entry point consumed by the chat-completion layer.
type Engine interface {
	// Retrieve runs the two-stage retrieval pipeline and returns items
	// ordered by descending score. It fails only on invalid input; provider
	// failures degrade to partial or empty results.
	Retrieve(ctx context.Context, q Query) (*Result, error)
}

// Config holds the engine's tunable parameters. Zero values fall back to
// defaults in NewEngine.
type Config struct {
	// SummaryTopK is the fixed small k for the coarse summary search.
	SummaryTopK int
	// SummaryScoreThreshold admits summaries into chunk widening. It is
	// deliberately looser than the caller's threshold: a summary scoring
	// moderately well usually still contains a highly relevant chunk.
	SummaryScoreThreshold float32
	// MaxChunksPerFile bounds chunk widening per admitted summary.
	MaxChunksPerFile int
	// CallTimeout applies to each external call individually.
	CallTimeout time.Duration
}

type engine struct {
	gateway SearchGateway
	users   UserDirectory
	intent  *IntentAnalyzer
	cfg     Config
}

// NewEngine creates a retrieval engine over the given collaborators.
func NewEngine(gateway SearchGateway, llmClient LLMClient, users UserDirectory, cfg Config) Engine {
	if cfg.SummaryTopK <= 0 {
		cfg.SummaryTopK = 5
	}
	if cfg.SummaryScoreThreshold <= 0 {
		cfg.SummaryScoreThreshold = 0.2
	}
	if cfg.MaxChunksPerFile <= 0 {
		cfg.MaxChunksPerFile = 50
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	return &engine{
		gateway: gateway,
		users:   users,
		intent:  NewIntentAnalyzer(llmClient),
		cfg:     cfg,
	}
}

func validateQuery(q Query) error {
	if strings.TrimSpace(q.Text) == "" {
		return &ValidationError{Field: "query", Message: "query must not be empty"}
	}
	if q.TopK < 1 || q.TopK > 100 {
		return &ValidationError{Field: "top_k", Message: "top_k must be between 1 and 100"}
	}
	if q.Threshold < 0 || q.Threshold > 1 {
		return &ValidationError{Field: "threshold", Message: "threshold must be between 0 and 1"}
	}
	return nil
}

func (e *engine) Retrieve(ctx context.Context, q Query) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := validateQuery(q); err != nil {
		return nil, err
	}

	// Display name lookup is best-effort; personalization still works
	// without it, it just cannot default the target to the requester.
	username := ""
	if e.users != nil {
		name, err := e.users.GetUsername(ctx, q.UserID)
		if err != nil {
			logger.WarnContext(ctx, "username lookup failed, continuing without display name", "user_id", q.UserID, "error", err)
		} else {
			username = name
		}
	}

	intentCtx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	intent := e.intent.Analyze(intentCtx, q.Text, username)
	cancel()

	targetUsername := ""
	if intent.NeedsPersonalization {
		targetUsername = intent.TargetUser
	}

	filter := BuildAccessFilter(q.ChannelType, q.ChannelID, q.UserID, targetUsername)
	refined := intent.RefinedSearchQuery

	var chatItems, docItems []RetrievedItem

	// Stage A and Stage B have no data dependency; fan out and merge after
	// both complete. Each stage swallows its own provider failures.
	var g errgroup.Group
	g.Go(func() error {
		chatItems = e.searchChatStage(ctx, refined, q.TopK, q.Threshold, filter)
		return nil
	})
	g.Go(func() error {
		docItems = e.searchDocumentStage(ctx, refined)
		return nil
	})
	_ = g.Wait()

	items := make([]RetrievedItem, 0, len(chatItems)+len(docItems))
	items = append(items, chatItems...)
	items = append(items, docItems...)

	// Stable sort keeps chat results ahead of document results on ties.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	logger.InfoContext(ctx, "retrieval completed",
		"chat_items", len(chatItems),
		"document_items", len(docItems),
		"total", len(items),
	)

	return &Result{Query: q.Text, Items: items}, nil
}

// searchChatStage runs the direct chat search. Provider errors degrade to an
// empty result for the stage.
func (e *engine) searchChatStage(ctx context.Context, query string, topK int, threshold float32, filter *vectorstore.Filter) []RetrievedItem {
	logger := contextutil.LoggerFromContext(ctx)

	sctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	defer cancel()

	messages, err := e.gateway.SearchChat(sctx, query, topK, filter)
	if err != nil {
		logger.WarnContext(ctx, "chat search degraded to empty result", "error", err)
		metrics.StageSearchesTotal.WithLabelValues("chat", "degraded").Inc()
		return nil
	}
	metrics.StageSearchesTotal.WithLabelValues("chat", "ok").Inc()

	items := make([]RetrievedItem, 0, len(messages))
	for _, m := range messages {
		if m.Score < threshold {
			continue
		}
		if item := formatMessage(m); item != nil {
			items = append(items, *item)
		}
	}
	metrics.StageResultCount.WithLabelValues("chat").Observe(float64(len(items)))
	return items
}

// searchDocumentStage runs the coarse summary search and widens each
// admitted summary into its document's chunks. Chunks inherit the admitting
// summary's score; individual chunk scores against the raw query are noisy
// for short fragments, while the summary score reflects whole-document
// relevance.
func (e *engine) searchDocumentStage(ctx context.Context, query string) []RetrievedItem {
	logger := contextutil.LoggerFromContext(ctx)

	sctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
	summaries, err := e.gateway.SearchSummaries(sctx, query, e.cfg.SummaryTopK)
	cancel()
	if err != nil {
		logger.WarnContext(ctx, "summary search degraded to empty result", "error", err)
		metrics.StageSearchesTotal.WithLabelValues("summary", "degraded").Inc()
		return nil
	}
	metrics.StageSearchesTotal.WithLabelValues("summary", "ok").Inc()

	admitted := summaries[:0:0]
	for _, s := range summaries {
		if s.Score >= e.cfg.SummaryScoreThreshold && s.Record.FileID != "" {
			admitted = append(admitted, s)
		}
	}
	if len(admitted) == 0 {
		metrics.StageResultCount.WithLabelValues("summary").Observe(0)
		return nil
	}
	metrics.StageResultCount.WithLabelValues("summary").Observe(float64(len(admitted)))

	// Widen each admitted summary concurrently. Each branch writes only its
	// own slot, so the fan-in needs no locking.
	chunkSets := make([][]ScoredChunk, len(admitted))
	var g errgroup.Group
	for i, summary := range admitted {
		g.Go(func() error {
			wctx, cancel := context.WithTimeout(ctx, e.cfg.CallTimeout)
			defer cancel()

			chunks, err := e.gateway.SearchChunksByFile(wctx, summary.Record.FileID, e.cfg.MaxChunksPerFile)
			if err != nil {
				logger.WarnContext(ctx, "chunk widening degraded to empty result",
					"file_id", summary.Record.FileID, "error", err)
				metrics.StageSearchesTotal.WithLabelValues("chunks", "degraded").Inc()
				return nil
			}
			metrics.StageSearchesTotal.WithLabelValues("chunks", "ok").Inc()

			for j := range chunks {
				chunks[j].Score = summary.Score
			}
			chunkSets[i] = chunks
			return nil
		})
	}
	_ = g.Wait()

	return formatDedupedChunks(chunkSets)
}

type chunkKey struct {
	fileID     string
	chunkIndex int
}

// formatDedupedChunks merges widened chunk sets, keeping one occurrence per
// (file, chunk index) with the highest attached score, then formats them.
// First-seen order is preserved so ranking stays deterministic.
func formatDedupedChunks(chunkSets [][]ScoredChunk) []RetrievedItem {
	var order []chunkKey
	best := make(map[chunkKey]ScoredChunk)

	for _, set := range chunkSets {
		for _, c := range set {
			key := chunkKey{fileID: c.Record.FileID, chunkIndex: c.Record.ChunkIndex}
			existing, seen := best[key]
			if !seen {
				order = append(order, key)
				best[key] = c
				continue
			}
			if c.Score > existing.Score {
				best[key] = c
			}
		}
	}

	items := make([]RetrievedItem, 0, len(order))
	for _, key := range order {
		if item := formatChunk(best[key]); item != nil {
			items = append(items, *item)
		}
	}
	metrics.StageResultCount.WithLabelValues("chunks").Observe(float64(len(items)))
	return items
}
