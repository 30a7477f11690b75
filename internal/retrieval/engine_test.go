package retrieval_test

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"chatgenius-context/internal/retrieval"
	"chatgenius-context/internal/retrieval/mocks"
	"chatgenius-context/internal/vectorstore"
)

const noIntentReply = `{"needs_personalization": false, "target_user": "", "refined_search_query": "refined query"}`

type engineDeps struct {
	gateway *mocks.MockSearchGateway
	llm     *mocks.MockLLMClient
	users   *mocks.MockUserDirectory
}

func newTestEngine(t *testing.T) (retrieval.Engine, engineDeps) {
	t.Helper()
	ctrl := gomock.NewController(t)

	deps := engineDeps{
		gateway: mocks.NewMockSearchGateway(ctrl),
		llm:     mocks.NewMockLLMClient(ctrl),
		users:   mocks.NewMockUserDirectory(ctrl),
	}
	engine := retrieval.NewEngine(deps.gateway, deps.llm, deps.users, retrieval.Config{
		SummaryTopK:           5,
		SummaryScoreThreshold: 0.2,
		MaxChunksPerFile:      50,
		CallTimeout:           5 * time.Second,
	})
	return engine, deps
}

func (d engineDeps) expectPlainIntent() {
	d.users.EXPECT().GetUsername(gomock.Any(), gomock.Any()).Return("bob", nil)
	d.llm.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(noIntentReply, nil)
}

func validQuery() retrieval.Query {
	return retrieval.Query{
		Text:        "order a pepperoni pizza",
		UserID:      "u-bob",
		ChannelID:   "c1",
		ChannelType: retrieval.ChannelPrivate,
		TopK:        10,
		Threshold:   0.3,
	}
}

func scoredMessage(id, channelName, sender, content string, score float32) retrieval.ScoredMessage {
	return retrieval.ScoredMessage{
		Record: retrieval.MessageRecord{
			MessageID:   id,
			ChannelName: channelName,
			SenderName:  sender,
			Content:     content,
		},
		Score: score,
	}
}

func TestEngine_Retrieve_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*retrieval.Query)
		wantField string
	}{
		{
			name:      "empty query",
			mutate:    func(q *retrieval.Query) { q.Text = "   " },
			wantField: "query",
		},
		{
			name:      "topK too small",
			mutate:    func(q *retrieval.Query) { q.TopK = 0 },
			wantField: "top_k",
		},
		{
			name:      "topK too large",
			mutate:    func(q *retrieval.Query) { q.TopK = 101 },
			wantField: "top_k",
		},
		{
			name:      "negative threshold",
			mutate:    func(q *retrieval.Query) { q.Threshold = -0.1 },
			wantField: "threshold",
		},
		{
			name:      "threshold above one",
			mutate:    func(q *retrieval.Query) { q.Threshold = 1.1 },
			wantField: "threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _ := newTestEngine(t)

			q := validQuery()
			tt.mutate(&q)

			_, err := engine.Retrieve(context.Background(), q)
			if err == nil {
				t.Fatal("Retrieve() expected error, got nil")
			}
			if !errors.Is(err, retrieval.ErrInvalidInput) {
				t.Errorf("Retrieve() error = %v, want ErrInvalidInput", err)
			}
			var validationErr *retrieval.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("Retrieve() error = %T, want *ValidationError", err)
			}
			if validationErr.Field != tt.wantField {
				t.Errorf("validation field = %v, want %v", validationErr.Field, tt.wantField)
			}
		})
	}
}

func TestEngine_Retrieve_MergesAndRanksBothStages(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), "refined query", 10, gomock.Any()).
		Return([]retrieval.ScoredMessage{
			scoredMessage("m-1", "general", "alice", "pizza night is friday", 0.72),
			scoredMessage("m-2", "general", "bob", "unrelated chatter", 0.1), // below threshold
		}, nil)

	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), "refined query", 5).
		Return([]retrieval.ScoredSummary{
			{Record: retrieval.DocumentSummaryRecord{FileID: "f-1", FileName: "menu.pdf"}, Score: 0.5},
			{Record: retrieval.DocumentSummaryRecord{FileID: "f-2", FileName: "irrelevant.pdf"}, Score: 0.1}, // below summary threshold
		}, nil)

	deps.gateway.EXPECT().
		SearchChunksByFile(gomock.Any(), "f-1", 50).
		Return([]retrieval.ScoredChunk{
			{Record: retrieval.DocumentChunkRecord{FileID: "f-1", FileName: "menu.pdf", ChunkIndex: 0, TotalChunks: 2, PageNumber: 1, Content: "Pepperoni pizza, large."}},
			{Record: retrieval.DocumentChunkRecord{FileID: "f-1", FileName: "menu.pdf", ChunkIndex: 1, TotalChunks: 2, PageNumber: 1, Content: "Margherita pizza, medium."}},
		}, nil)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if result.Query != "order a pepperoni pizza" {
		t.Errorf("Retrieve() query = %q, want the original text", result.Query)
	}
	if len(result.Items) != 3 {
		t.Fatalf("Retrieve() returned %d items, want 3", len(result.Items))
	}

	// Chat message at 0.72 outranks both chunks at the inherited 0.5.
	if result.Items[0].ID != "m-1" {
		t.Errorf("top item = %v, want m-1", result.Items[0].ID)
	}
	for _, item := range result.Items[1:] {
		if item.ID != "f-1" || item.Score != 0.5 {
			t.Errorf("chunk item = %+v, want file f-1 with inherited score 0.5", item)
		}
	}
	if !sort.SliceIsSorted(result.Items, func(i, j int) bool {
		return result.Items[i].Score > result.Items[j].Score
	}) {
		t.Errorf("Retrieve() items not sorted by descending score: %+v", result.Items)
	}
}

func TestEngine_Retrieve_TiesKeepChatBeforeDocuments(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]retrieval.ScoredMessage{
			scoredMessage("m-1", "general", "alice", "same score message", 0.5),
		}, nil)
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]retrieval.ScoredSummary{
			{Record: retrieval.DocumentSummaryRecord{FileID: "f-1", FileName: "doc.pdf"}, Score: 0.5},
		}, nil)
	deps.gateway.EXPECT().
		SearchChunksByFile(gomock.Any(), "f-1", gomock.Any()).
		Return([]retrieval.ScoredChunk{
			{Record: retrieval.DocumentChunkRecord{FileID: "f-1", FileName: "doc.pdf", ChunkIndex: 0, TotalChunks: 1, Content: "same score chunk"}},
		}, nil)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Items) != 2 {
		t.Fatalf("Retrieve() returned %d items, want 2", len(result.Items))
	}
	if result.Items[0].ID != "m-1" || result.Items[1].ID != "f-1" {
		t.Errorf("tie order = [%s %s], want chat before document", result.Items[0].ID, result.Items[1].ID)
	}
}

func TestEngine_Retrieve_ChatFailureStillReturnsDocuments(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("index unavailable"))
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]retrieval.ScoredSummary{
			{Record: retrieval.DocumentSummaryRecord{FileID: "f-1", FileName: "doc.pdf"}, Score: 0.6},
		}, nil)
	deps.gateway.EXPECT().
		SearchChunksByFile(gomock.Any(), "f-1", gomock.Any()).
		Return([]retrieval.ScoredChunk{
			{Record: retrieval.DocumentChunkRecord{FileID: "f-1", FileName: "doc.pdf", ChunkIndex: 0, TotalChunks: 1, Content: "still here"}},
		}, nil)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v, degraded stage must not surface", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "f-1" {
		t.Errorf("Retrieve() items = %+v, want the document item only", result.Items)
	}
}

func TestEngine_Retrieve_AllStagesDegradedReturnsEmpty(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("index unavailable"))
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("index unavailable"))

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v, want graceful empty result", err)
	}
	if len(result.Items) != 0 {
		t.Errorf("Retrieve() items = %+v, want empty", result.Items)
	}
}

func TestEngine_Retrieve_DeduplicatesChunksAcrossSummaries(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)
	// Two summaries point at the same file with different scores.
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]retrieval.ScoredSummary{
			{Record: retrieval.DocumentSummaryRecord{FileID: "F", FileName: "doc.pdf"}, Score: 0.8},
			{Record: retrieval.DocumentSummaryRecord{FileID: "F", FileName: "doc.pdf"}, Score: 0.6},
		}, nil)
	deps.gateway.EXPECT().
		SearchChunksByFile(gomock.Any(), "F", gomock.Any()).
		Return([]retrieval.ScoredChunk{
			{Record: retrieval.DocumentChunkRecord{FileID: "F", FileName: "doc.pdf", ChunkIndex: 3, TotalChunks: 5, Content: "shared chunk"}},
		}, nil).
		Times(2)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Items) != 1 {
		t.Fatalf("Retrieve() returned %d items, want exactly 1 after dedup", len(result.Items))
	}
	if result.Items[0].Score != 0.8 {
		t.Errorf("deduped chunk score = %v, want the higher 0.8", result.Items[0].Score)
	}
}

func TestEngine_Retrieve_PersonalizationConstrainsFilter(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.users.EXPECT().GetUsername(gomock.Any(), "u-bob").Return("bob", nil)
	deps.llm.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(`{"needs_personalization": true, "target_user": "alice", "refined_search_query": "alice pizza preferences"}`, nil)

	var captured *vectorstore.Filter
	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), "alice pizza preferences", 10, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ int, filter *vectorstore.Filter) ([]retrieval.ScoredMessage, error) {
			captured = filter
			return nil, nil
		})
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	if _, err := engine.Retrieve(context.Background(), validQuery()); err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}

	if captured == nil {
		t.Fatal("SearchChat never received a filter")
	}
	for i, group := range captured.AnyOf {
		found := false
		for _, m := range group {
			if m.Field == "sender_name" && m.Value == "alice" {
				found = true
			}
		}
		if !found {
			t.Errorf("disjunct %d lacks the sender_name=alice constraint: %v", i, group)
		}
	}
}

func TestEngine_Retrieve_UsernameLookupFailureIsNotFatal(t *testing.T) {
	engine, deps := newTestEngine(t)

	deps.users.EXPECT().GetUsername(gomock.Any(), gomock.Any()).Return("", errors.New("db down"))
	deps.llm.EXPECT().
		CompleteJSON(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(noIntentReply, nil)
	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]retrieval.ScoredMessage{
			scoredMessage("m-1", "general", "alice", "relevant", 0.9),
		}, nil)
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Items) != 1 {
		t.Errorf("Retrieve() returned %d items, want 1", len(result.Items))
	}
}

// Example scenario: only visible content above the threshold comes back for
// a private channel query.
func TestEngine_Retrieve_PrivateChannelScenario(t *testing.T) {
	engine, deps := newTestEngine(t)
	deps.expectPlainIntent()

	deps.gateway.EXPECT().
		SearchChat(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ int, filter *vectorstore.Filter) ([]retrieval.ScoredMessage, error) {
			// The index applies the filter; a 0.9 message in channel c2 is
			// invisible to this request and is never returned.
			if filter.Matches(map[string]any{"channel_type": "private", "channel_id": "c2"}) {
				t.Error("filter for channel c1 must not admit channel c2 content")
			}
			return []retrieval.ScoredMessage{
				scoredMessage("m-pub", "general", "alice", "public pizza talk", 0.72),
			}, nil
		})
	deps.gateway.EXPECT().
		SearchSummaries(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	result, err := engine.Retrieve(context.Background(), validQuery())
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != "m-pub" || result.Items[0].Score != 0.72 {
		t.Errorf("Retrieve() items = %+v, want only the visible 0.72 item", result.Items)
	}
}
